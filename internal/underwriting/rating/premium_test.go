package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
)

func ratingProfile() model.Profile {
	return model.Profile{
		Age:            model.Ptr(30),
		Gender:         model.Ptr(model.GenderMale),
		Amount:         model.Ptr(500000.0),
		Term:           model.Ptr(20),
		SmokingStatus:  model.Ptr(model.SmokingNo),
		RiskMultiplier: model.Ptr(1.0),
	}
}

func TestPremium_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Profile)
		want   float64
	}{
		{
			name:   "baseline non-smoker",
			mutate: func(p *model.Profile) {},
			// 1.00 * 500 * 1.00 * 1.00 * 1.0 * 1.00
			want: 500.00,
		},
		{
			name: "smoker with loading",
			mutate: func(p *model.Profile) {
				p.SmokingStatus = model.Ptr(model.SmokingYes)
				p.RiskMultiplier = model.Ptr(1.5)
			},
			// 1.00 * 500 * 1.00 * 1.75 * 1.5 * 1.00
			want: 1312.50,
		},
		{
			name: "female factor applies",
			mutate: func(p *model.Profile) {
				p.Gender = model.Ptr(model.GenderFemale)
			},
			want: 425.00,
		},
		{
			name: "short term discount",
			mutate: func(p *model.Profile) {
				p.Term = model.Ptr(10)
			},
			want: 425.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ratingProfile()
			tt.mutate(&p)
			got, err := Premium(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPremium_Deterministic(t *testing.T) {
	p := ratingProfile()
	first, err := Premium(p)
	require.NoError(t, err)
	second, err := Premium(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPremium_IncompleteProfile(t *testing.T) {
	mutations := map[string]func(p *model.Profile){
		"missing age":             func(p *model.Profile) { p.Age = nil },
		"missing gender":          func(p *model.Profile) { p.Gender = nil },
		"missing amount":          func(p *model.Profile) { p.Amount = nil },
		"missing term":            func(p *model.Profile) { p.Term = nil },
		"missing smoking status":  func(p *model.Profile) { p.SmokingStatus = nil },
		"missing risk multiplier": func(p *model.Profile) { p.RiskMultiplier = nil },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := ratingProfile()
			mutate(&p)
			_, err := Premium(p)
			assert.ErrorIs(t, err, errx.ErrIncompleteProfile)
		})
	}
}

func TestPremium_UnknownEnumFailsLoudly(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Profile)
	}{
		{"unknown gender", func(p *model.Profile) { p.Gender = model.Ptr("Unknown") }},
		{"unknown smoking status", func(p *model.Profile) { p.SmokingStatus = model.Ptr("Sometimes") }},
		{"unsupported term", func(p *model.Profile) { p.Term = model.Ptr(17) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ratingProfile()
			tt.mutate(&p)
			_, err := Premium(p)
			assert.ErrorIs(t, err, errx.ErrUnknownRateKey)
		})
	}
}

func TestBaseRate_NearestBracket(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{18, 0.85}, // below the lowest bracket clamps up
		{25, 0.85},
		{27, 0.85}, // closer to 25
		{28, 1.00}, // closer to 30
		{32, 1.00},
		{33, 1.40},
		{50, 5.80},
		{64, 5.80}, // above the highest bracket clamps down
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseRate(tt.age), "age %d", tt.age)
	}
}

func TestRiskLoading(t *testing.T) {
	f, ok := RiskLoading("Substandard Mild")
	require.True(t, ok)
	assert.Equal(t, 1.50, f)

	_, ok = RiskLoading("Uninsurable")
	assert.False(t, ok)
}
