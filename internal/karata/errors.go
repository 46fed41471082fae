package karata

import "fmt"

// TurnErrorKind is the closed set of ways a played card sequence can fail
// rule-engine validation. Represented as a typed enum so callers can
// switch exhaustively rather than matching on error strings.
type TurnErrorKind int

const (
	CardRequested TurnErrorKind = iota + 1
	DrawCards
	InvalidFirstCard
	SubsequentAceOrJoker
	InvalidAnswer
	InvalidCardSequence
)

func (k TurnErrorKind) String() string {
	switch k {
	case CardRequested:
		return "CardRequested"
	case DrawCards:
		return "DrawCards"
	case InvalidFirstCard:
		return "InvalidFirstCard"
	case SubsequentAceOrJoker:
		return "SubsequentAceOrJoker"
	case InvalidAnswer:
		return "InvalidAnswer"
	case InvalidCardSequence:
		return "InvalidCardSequence"
	default:
		return fmt.Sprintf("TurnErrorKind(%d)", int(k))
	}
}

// TurnError wraps a TurnErrorKind with the human-readable detail the
// orchestrator surfaces as a system message.
type TurnError struct {
	Kind    TurnErrorKind
	Message string
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newTurnError(kind TurnErrorKind, format string, args ...interface{}) *TurnError {
	return &TurnError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// OrchestrationErrorKind is the closed set of orchestration-level failures
// that precede rule-engine validation.
type OrchestrationErrorKind int

const (
	NotStarted OrchestrationErrorKind = iota + 1
	NotYourTurn
	OutstandingPrompt
)

func (k OrchestrationErrorKind) String() string {
	switch k {
	case NotStarted:
		return "NotStarted"
	case NotYourTurn:
		return "NotYourTurn"
	case OutstandingPrompt:
		return "OutstandingPrompt"
	default:
		return fmt.Sprintf("OrchestrationErrorKind(%d)", int(k))
	}
}

// OrchestrationError wraps an OrchestrationErrorKind with detail.
type OrchestrationError struct {
	Kind    OrchestrationErrorKind
	Message string
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newOrchestrationError(kind OrchestrationErrorKind, format string, args ...interface{}) *OrchestrationError {
	return &OrchestrationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
