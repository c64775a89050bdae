package flow

import (
	"sync"

	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// Stage is the top-level application view. Exactly one stage is active per
// session; transitions are one-directional except the full reset.
type Stage int

const (
	StageLanding Stage = iota
	StageProductSelection
	StageIntake
	StagePayment
	StageIssued
)

func (s Stage) String() string {
	switch s {
	case StageLanding:
		return "landing"
	case StageProductSelection:
		return "product_selection"
	case StageIntake:
		return "intake"
	case StagePayment:
		return "payment"
	case StageIssued:
		return "issued"
	default:
		return "unknown"
	}
}

// Event is a discrete action fed into the stage machine, either an explicit
// user action or an advance request emitted by the controller.
type Event int

const (
	EventStart Event = iota
	EventStartDirect
	EventSelectMedical
	EventSelectNonMedical
	EventProceedToPayment
	EventConfirmPayment
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStartDirect:
		return "start_direct"
	case EventSelectMedical:
		return "select_medical"
	case EventSelectNonMedical:
		return "select_non_medical"
	case EventProceedToPayment:
		return "proceed_to_payment"
	case EventConfirmPayment:
		return "confirm_payment"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// transitions is the complete legal transition table. The non-medical path is
// defined here but switched off in disabledEvents: the product exists in the
// catalog, the journey does not.
var transitions = map[Stage]map[Event]Stage{
	StageLanding: {
		EventStart:       StageProductSelection,
		EventStartDirect: StageIntake,
	},
	StageProductSelection: {
		EventSelectMedical:    StageIntake,
		EventSelectNonMedical: StageIntake,
	},
	StageIntake: {
		EventProceedToPayment: StagePayment,
	},
	StagePayment: {
		EventConfirmPayment: StageIssued,
	},
}

var disabledEvents = map[Event]bool{
	EventSelectNonMedical: true,
}

// Machine owns the stage exclusively. The controller never sets the stage; it
// can only feed events in.
type Machine struct {
	mu    sync.Mutex
	stage Stage
}

// NewMachine starts a session at the landing stage.
func NewMachine() *Machine {
	return &Machine{stage: StageLanding}
}

// Stage returns the currently active stage.
func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Apply feeds one event into the machine and reports the resulting stage and
// whether it changed. An illegal or disabled transition is a silent no-op,
// never a user-facing error. Reset is legal from every stage.
func (m *Machine) Apply(event Event) (Stage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event == EventReset {
		changed := m.stage != StageLanding
		m.stage = StageLanding
		return m.stage, changed
	}
	if disabledEvents[event] {
		logx.Debug().Str("event", event.String()).Str("stage", m.stage.String()).Msg("disabled transition ignored")
		return m.stage, false
	}
	next, ok := transitions[m.stage][event]
	if !ok {
		logx.Debug().Str("event", event.String()).Str("stage", m.stage.String()).Msg("illegal transition ignored")
		return m.stage, false
	}
	m.stage = next
	return m.stage, true
}
