package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeIndicatorsListedProcess(t *testing.T) {
	out := ComputeIndicators(IndicatorInputs{
		AcquisitionPrice: decPtr("200000"),
		AskingPrice:      decPtr("250000"),
		AgencyFee:        decPtr("10000"),
		ProjectBudgets:   []*decimal.Decimal{decPtr("15000"), nil, decPtr("5000")},
		TotalExpense:     dec("5000"),
	})

	checks := map[string][2]decimal.Decimal{
		"totalWorksAmount": {out.TotalWorksAmount, dec("20000")},
		"totalCost":        {out.TotalCost, dec("225000")},
		"exitPrice":        {out.ExitPrice, dec("240000")},
		"estimatedNetGain": {out.EstimatedNetGain, dec("15000")},
		"globalRoi":        {out.GlobalRoi, dec("0.0667")},
	}
	for name, pair := range checks {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("expected %s %s, got %s", name, pair[1], pair[0])
		}
	}
	if out.GlobalRoi.String() != "0.0667" {
		t.Fatalf("expected ROI kept at 4 places, got %s", out.GlobalRoi.String())
	}
}

func TestComputeIndicatorsZeroCostIsZeroRoi(t *testing.T) {
	out := ComputeIndicators(IndicatorInputs{AskingPrice: decPtr("100000")})

	if !out.TotalCost.IsZero() {
		t.Fatalf("expected zero cost, got %s", out.TotalCost)
	}
	if !out.GlobalRoi.IsZero() {
		t.Fatalf("expected zero ROI, got %s", out.GlobalRoi)
	}
	if out.AcquisitionPrice != nil {
		t.Fatal("expected unknown acquisition price to stay nil")
	}
}

func TestComputeIndicatorsNegativeCostIsZeroRoi(t *testing.T) {
	out := ComputeIndicators(IndicatorInputs{TotalExpense: dec("-10"), AskingPrice: decPtr("5")})
	if !out.GlobalRoi.IsZero() {
		t.Fatalf("expected zero ROI for negative cost, got %s", out.GlobalRoi)
	}
}

func TestComputeIndicatorsPrefersNetPrice(t *testing.T) {
	out := ComputeIndicators(IndicatorInputs{
		PropertyPrice: decPtr("200000"),
		NetPrice:      decPtr("280000"),
		AskingPrice:   decPtr("300000"),
		AgencyFee:     decPtr("10000"),
	})

	if !out.ExitPrice.Equal(dec("280000")) {
		t.Fatalf("expected exit price from net price, got %s", out.ExitPrice)
	}
	if out.AcquisitionPrice == nil || !out.AcquisitionPrice.Equal(dec("200000")) {
		t.Fatalf("expected acquisition seeded from property price, got %v", out.AcquisitionPrice)
	}
	if !out.GlobalRoi.Equal(dec("0.4")) {
		t.Fatalf("expected ROI 0.4, got %s", out.GlobalRoi)
	}
}

func TestComputeIndicatorsKeepsRecordedAcquisition(t *testing.T) {
	out := ComputeIndicators(IndicatorInputs{
		AcquisitionPrice: decPtr("150000"),
		PropertyPrice:    decPtr("999999"),
	})
	if !out.AcquisitionPrice.Equal(dec("150000")) {
		t.Fatalf("expected recorded acquisition to win, got %s", out.AcquisitionPrice)
	}
}

func TestRoiRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		gain, cost, want string
	}{
		{"1", "32000", "0"},
		{"3", "20000", "0.0002"},
		{"-3", "20000", "-0.0002"},
		{"1", "3", "0.3333"},
		{"2", "3", "0.6667"},
	}

	for _, tc := range cases {
		if got := roi(dec(tc.gain), dec(tc.cost)); !got.Equal(dec(tc.want)) {
			t.Fatalf("roi(%s, %s): expected %s, got %s", tc.gain, tc.cost, tc.want, got)
		}
	}
}

func TestNetPriceAfterFee(t *testing.T) {
	if got := NetPriceAfterFee(dec("290000"), decPtr("10000")); !got.Equal(dec("280000")) {
		t.Fatalf("expected 280000, got %s", got)
	}
	if got := NetPriceAfterFee(dec("290000"), nil); !got.Equal(dec("290000")) {
		t.Fatalf("expected fee to default to zero, got %s", got)
	}
}
