// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "FR"

// NormalizeE164 formats a phone number to E.164, reading national numbers in region.
// When parsing fails or the number is invalid it returns the trimmed input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// NormalizeE164Ptr is NormalizeE164 for optional fields. Blank input becomes nil.
func NormalizeE164Ptr(input *string, region string) *string {
	if input == nil {
		return nil
	}
	out := NormalizeE164(*input, region)
	if out == "" {
		return nil
	}
	return &out
}
