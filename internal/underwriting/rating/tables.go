package rating

// Static rate configuration. Read-only after init; process-wide without
// locking. Keys on string tables must match the enum spellings the reasoning
// service is prompted with.

// baseRates maps age brackets to annual base rate per $1,000 sum assured.
var baseRates = map[int]float64{
	25: 0.85,
	30: 1.00,
	35: 1.40,
	40: 2.10,
	45: 3.40,
	50: 5.80,
}

// ageBrackets lists the defined base-rate brackets in ascending order.
var ageBrackets = []int{25, 30, 35, 40, 45, 50}

var genderFactors = map[string]float64{
	"Male":   1.00,
	"Female": 0.85,
	"Other":  1.00,
}

var smokingFactors = map[string]float64{
	"Non-Smoker": 1.00,
	"Smoker":     1.75,
}

// riskLoadings maps the risk rating band assigned by the scoring agents to a
// pricing loading. Exact-match only.
var riskLoadings = map[string]float64{
	"Preferred":            0.90,
	"Standard":             1.00,
	"Substandard Mild":     1.50,
	"Substandard Moderate": 2.00,
	"High Risk":            3.00,
}

// termFactors maps supported term lengths (years) to a factor. Terms are an
// enum of supported values, not interpolated.
var termFactors = map[int]float64{
	10: 0.85,
	15: 0.95,
	20: 1.00,
	25: 1.15,
	30: 1.30,
}

// SupportedTerms returns the term lengths the product offers, ascending.
func SupportedTerms() []int {
	return []int{10, 15, 20, 25, 30}
}

// RiskLoading returns the loading for a risk rating band. Unknown bands are a
// configuration error.
func RiskLoading(band string) (float64, bool) {
	f, ok := riskLoadings[band]
	return f, ok
}
