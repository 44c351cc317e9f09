package domain

import "github.com/shopspring/decimal"

// RoiPlaces is the number of decimal places kept on globalRoi.
const RoiPlaces = 4

// IndicatorInputs gathers the process fields and collaborator snapshots
// needed to compute the financial indicators.
type IndicatorInputs struct {
	// Process fields.
	AcquisitionPrice *decimal.Decimal
	NetPrice         *decimal.Decimal
	AskingPrice      *decimal.Decimal
	AgencyFee        *decimal.Decimal

	// Collaborator snapshots.
	PropertyPrice  *decimal.Decimal
	ProjectBudgets []*decimal.Decimal
	TotalExpense   decimal.Decimal
}

// Indicators are the derived figures persisted on the process row.
type Indicators struct {
	// AcquisitionPrice stays nil when neither the process nor the property knows it.
	AcquisitionPrice   *decimal.Decimal
	TotalWorksAmount   decimal.Decimal
	TotalChargesAmount decimal.Decimal
	TotalCost          decimal.Decimal
	ExitPrice          decimal.Decimal
	EstimatedNetGain   decimal.Decimal
	GlobalRoi          decimal.Decimal
}

// ComputeIndicators derives cost, exit price, net gain and ROI.
// A recorded acquisition price is never replaced by the property price.
func ComputeIndicators(in IndicatorInputs) Indicators {
	out := Indicators{AcquisitionPrice: in.AcquisitionPrice}
	if out.AcquisitionPrice == nil && in.PropertyPrice != nil {
		price := *in.PropertyPrice
		out.AcquisitionPrice = &price
	}

	works := decimal.Zero
	for _, budget := range in.ProjectBudgets {
		works = works.Add(orZero(budget))
	}
	out.TotalWorksAmount = works
	out.TotalChargesAmount = in.TotalExpense

	out.TotalCost = orZero(out.AcquisitionPrice).Add(works).Add(in.TotalExpense)

	if in.NetPrice != nil {
		out.ExitPrice = *in.NetPrice
	} else {
		out.ExitPrice = orZero(in.AskingPrice).Sub(orZero(in.AgencyFee))
	}

	out.EstimatedNetGain = out.ExitPrice.Sub(out.TotalCost)
	out.GlobalRoi = roi(out.EstimatedNetGain, out.TotalCost)
	return out
}

// NetPriceAfterFee is the accepted offer amount minus the agency fee.
func NetPriceAfterFee(amount decimal.Decimal, agencyFee *decimal.Decimal) decimal.Decimal {
	return amount.Sub(orZero(agencyFee))
}

// roi is gain/cost rounded half away from zero, and exactly zero when cost <= 0.
func roi(gain, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return gain.DivRound(cost, RoiPlaces)
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
