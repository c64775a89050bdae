package model

// ================ Config ================
type ReasoningModelConfig struct {
	Model       string  `envconfig:"REASONING_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"REASONING_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"REASONING_TEMPERATURE" default:"0.2"`
}

type RetryConfig struct {
	// MaxAttempts bounds the total attempts per call (first try included).
	// Spending the budget on transient failures converts the last transient
	// error into a fatal one.
	MaxAttempts int `envconfig:"REASONING_MAX_ATTEMPTS" default:"5"`
}

type PromptConfig struct {
	CompanyName   string `envconfig:"PROMPT_COMPANY_NAME" default:"AuraLife"`
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Aura"`
}

type SessionConfig struct {
	TTL string `envconfig:"SESSION_TTL" default:"30m"`
}

type PricingConfig struct {
	// ToleranceUSD is the maximum accepted divergence between the premium the
	// reasoning service quoted and the locally recomputed figure before the
	// turn is flagged for review.
	ToleranceUSD float64 `envconfig:"PRICING_TOLERANCE_USD" default:"0.50"`
}
