package rating

import (
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
)

// BaseRate resolves the base rate for an age using the nearest defined
// bracket: ages below the lowest bracket clamp up to it, ages above the
// highest clamp down, and ages in between round to whichever bracket is
// closest. Deterministic by construction (brackets are 5 years apart, so an
// integer age never ties).
func BaseRate(age int) float64 {
	nearest := ageBrackets[0]
	best := math.Abs(float64(age - nearest))
	for _, b := range ageBrackets[1:] {
		if d := math.Abs(float64(age - b)); d < best {
			best = d
			nearest = b
		}
	}
	return baseRates[nearest]
}

// validateRatingFields checks that every field the formula needs is present.
func validateRatingFields(p model.Profile) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Age, validation.NotNil),
		validation.Field(&p.Gender, validation.NotNil),
		validation.Field(&p.Amount, validation.NotNil),
		validation.Field(&p.SmokingStatus, validation.NotNil),
		validation.Field(&p.Term, validation.NotNil),
		validation.Field(&p.RiskMultiplier, validation.NotNil),
	)
}

// Premium applies the rate formula to a complete rating profile:
//
//	baseRate(age) * (amount/1000) * genderFactor * smokingFactor * riskMultiplier * termFactor
//
// The result is rounded to the nearest cent so repeated computation of the
// same profile is bit-for-bit reproducible. Missing required fields yield
// errx.ErrIncompleteProfile; an unrecognized enum value in any factor table
// yields errx.ErrUnknownRateKey rather than a silent default.
func Premium(p model.Profile) (float64, error) {
	if err := validateRatingFields(p); err != nil {
		return 0, fmt.Errorf("%w: %v", errx.ErrIncompleteProfile, err)
	}

	gender, ok := genderFactors[*p.Gender]
	if !ok {
		return 0, fmt.Errorf("%w: gender %q", errx.ErrUnknownRateKey, *p.Gender)
	}
	smoking, ok := smokingFactors[*p.SmokingStatus]
	if !ok {
		return 0, fmt.Errorf("%w: smoking status %q", errx.ErrUnknownRateKey, *p.SmokingStatus)
	}
	term, ok := termFactors[*p.Term]
	if !ok {
		return 0, fmt.Errorf("%w: term %d", errx.ErrUnknownRateKey, *p.Term)
	}
	if *p.Amount <= 0 {
		return 0, fmt.Errorf("%w: non-positive sum assured", errx.ErrIncompleteProfile)
	}
	if *p.RiskMultiplier <= 0 {
		return 0, fmt.Errorf("%w: non-positive risk multiplier", errx.ErrIncompleteProfile)
	}

	premium := BaseRate(*p.Age) * (*p.Amount / 1000.0) * gender * smoking * *p.RiskMultiplier * term
	return roundCents(premium), nil
}

// roundCents rounds to two decimals, the documented output precision.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
