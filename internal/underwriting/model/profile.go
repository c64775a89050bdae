package model

import "fmt"

// Enum values accepted on categorical profile fields. The reasoning service is
// prompted with exactly these spellings; rate tables key on them verbatim.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	SmokingNo  = "Non-Smoker"
	SmokingYes = "Smoker"
)

// Profile is the accumulated applicant state, built up one turn at a time.
// Every field is optional until the reasoning service supplies it; pointers
// distinguish "not yet known" from a zero value. JSON tags mirror the wire
// names used by the reasoning service in its `state` object.
type Profile struct {
	Age            *int     `json:"age,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	Income         *string  `json:"income,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	Term           *int     `json:"term,omitempty"`
	Occupation     *string  `json:"occupation,omitempty"`
	SmokingStatus  *string  `json:"smokingStatus,omitempty"`
	Diabetes       *string  `json:"diabetes,omitempty"`
	HbA1c          *float64 `json:"hbA1c,omitempty"`
	BMI            *float64 `json:"bmi,omitempty"`
	RiskRating     *string  `json:"riskRating,omitempty"`
	RiskMultiplier *float64 `json:"riskMultiplier,omitempty"`
	AnnualPremium  *float64 `json:"annualPremium,omitempty"`
	PolicyNumber   *string  `json:"policyNumber,omitempty"`
}

// Merge returns a new Profile holding the field-wise union of p and delta.
// Fields present in delta win; fields absent from delta are carried over
// unchanged. Nothing is ever deleted. Pure, so it is safe to call
// speculatively before committing a turn.
func (p Profile) Merge(delta Profile) Profile {
	out := p
	if delta.Age != nil {
		out.Age = delta.Age
	}
	if delta.Gender != nil {
		out.Gender = delta.Gender
	}
	if delta.Income != nil {
		out.Income = delta.Income
	}
	if delta.Amount != nil {
		out.Amount = delta.Amount
	}
	if delta.Term != nil {
		out.Term = delta.Term
	}
	if delta.Occupation != nil {
		out.Occupation = delta.Occupation
	}
	if delta.SmokingStatus != nil {
		out.SmokingStatus = delta.SmokingStatus
	}
	if delta.Diabetes != nil {
		out.Diabetes = delta.Diabetes
	}
	if delta.HbA1c != nil {
		out.HbA1c = delta.HbA1c
	}
	if delta.BMI != nil {
		out.BMI = delta.BMI
	}
	if delta.RiskRating != nil {
		out.RiskRating = delta.RiskRating
	}
	if delta.RiskMultiplier != nil {
		out.RiskMultiplier = delta.RiskMultiplier
	}
	if delta.AnnualPremium != nil {
		out.AnnualPremium = delta.AnnualPremium
	}
	if delta.PolicyNumber != nil {
		out.PolicyNumber = delta.PolicyNumber
	}
	return out
}

// IsEmpty reports whether no field has been populated yet.
func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// Summary renders the known fields for logging and the demo driver.
func (p Profile) Summary() string {
	s := ""
	appendField := func(name string, v any) {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", name, v)
	}
	if p.Age != nil {
		appendField("age", *p.Age)
	}
	if p.Gender != nil {
		appendField("gender", *p.Gender)
	}
	if p.Income != nil {
		appendField("income", *p.Income)
	}
	if p.Amount != nil {
		appendField("amount", *p.Amount)
	}
	if p.Term != nil {
		appendField("term", *p.Term)
	}
	if p.Occupation != nil {
		appendField("occupation", *p.Occupation)
	}
	if p.SmokingStatus != nil {
		appendField("smoking", *p.SmokingStatus)
	}
	if p.Diabetes != nil {
		appendField("diabetes", *p.Diabetes)
	}
	if p.RiskRating != nil {
		appendField("riskRating", *p.RiskRating)
	}
	if p.RiskMultiplier != nil {
		appendField("riskMultiplier", *p.RiskMultiplier)
	}
	if p.AnnualPremium != nil {
		appendField("annualPremium", *p.AnnualPremium)
	}
	if p.PolicyNumber != nil {
		appendField("policyNumber", *p.PolicyNumber)
	}
	if s == "" {
		return "(empty)"
	}
	return s
}

// Ptr returns a pointer to v. Convenience for building deltas in tests and
// the payment step.
func Ptr[T any](v T) *T {
	return &v
}
