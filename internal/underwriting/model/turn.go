package model

// Agent action statuses the reasoning service may report. Purely
// observational; they are rendered, never branched on.
const (
	StatusSuccess = "SUCCESS"
	StatusWarning = "WARNING"
	StatusInfo    = "INFO"
	StatusPending = "PENDING"
)

// AgentAction is one line of the multi-agent reasoning trace attached to a
// turn for display.
type AgentAction struct {
	AgentName string `json:"agentName"`
	Status    string `json:"status"`
	Decision  string `json:"decision,omitempty"`
	Reasoning string `json:"reasoning"`
}

// TurnResult is the structured reasoning-service response for one turn. Wire
// shape is fixed: agentActions, nextQuestion and state are required keys;
// the rest are optional.
type TurnResult struct {
	AgentActions []AgentAction `json:"agentActions"`
	NextQuestion string        `json:"nextQuestion"`
	Options      []string      `json:"options,omitempty"`
	Delta        Profile       `json:"state"`
	ShowQuote    bool          `json:"showQuote,omitempty"`
	Complete     bool          `json:"complete,omitempty"`
}

// Turn roles on the UI-facing transcript.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Turn is one entry of the UI-facing transcript. Distinct from the raw
// history replayed to the reasoning service, which stores the full structured
// result instead of display text.
type Turn struct {
	Role         string        `json:"role"`
	Text         string        `json:"text"`
	Options      []string      `json:"options,omitempty"`
	AgentActions []AgentAction `json:"agentActions,omitempty"`
	IsQuote      bool          `json:"isQuote,omitempty"`
	Complete     bool          `json:"complete,omitempty"`

	// Quote cross-check outcome, populated only on quote turns.
	LocalPremium    float64 `json:"localPremium,omitempty"`
	PremiumMismatch bool    `json:"premiumMismatch,omitempty"`
}
