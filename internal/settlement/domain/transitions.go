package domain

import "errors"

// Status is the settlement batch lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusClosed     Status = "closed"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrIllegalTransition   = errors.New("illegal_transition")
	ErrReasonRequired      = errors.New("reason_required")
	ErrUnknownAction       = errors.New("unknown_action")
	ErrNotFound            = errors.New("settlement_not_found")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidOrganization = errors.New("invalid_organization")
)

// transitions is the exhaustive adjacency table. Anything not listed is
// illegal; paid and cancelled have no outbound edges.
var transitions = map[Status][]Status{
	StatusOpen:       {StatusClosed},
	StatusClosed:     {StatusProcessing},
	StatusProcessing: {StatusPaid, StatusFailed},
	StatusFailed:     {StatusProcessing},
	StatusPaid:       {},
	StatusCancelled:  {},
}

// AllowedTransitions returns the legal next statuses for current, empty for
// terminal states and unknown input.
func AllowedTransitions(current Status) []Status {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is in the adjacency table.
func CanTransition(from, to Status) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether status has no outbound transitions.
func IsTerminal(status Status) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// ValidStatus reports whether status is a known lifecycle state.
func ValidStatus(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// Action is the operator-facing transition verb exposed over HTTP.
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionStartProcessing Action = "start-processing"
	ActionMarkPaid        Action = "mark-paid"
	ActionMarkFailed      Action = "mark-failed"
	ActionRetry           Action = "retry"
)

// TargetStatus maps an action to the status it requests. retry and
// start-processing share a target; the adjacency table decides which of the
// two source states each is legal from.
func (a Action) TargetStatus() (Status, error) {
	switch a {
	case ActionConfirm:
		return StatusClosed, nil
	case ActionStartProcessing, ActionRetry:
		return StatusProcessing, nil
	case ActionMarkPaid:
		return StatusPaid, nil
	case ActionMarkFailed:
		return StatusFailed, nil
	default:
		return "", ErrUnknownAction
	}
}

// AuditAction names the audit entry written for a completed transition.
func (a Action) AuditAction() string {
	switch a {
	case ActionConfirm:
		return "SETTLEMENT_CONFIRMED"
	case ActionStartProcessing:
		return "SETTLEMENT_PROCESSING_STARTED"
	case ActionMarkPaid:
		return "SETTLEMENT_PAID"
	case ActionMarkFailed:
		return "SETTLEMENT_FAILED"
	case ActionRetry:
		return "SETTLEMENT_RETRIED"
	default:
		return "SETTLEMENT_TRANSITION"
	}
}

// RequiresReason reports whether the action must carry a justification.
func (a Action) RequiresReason() bool {
	return a == ActionMarkFailed
}
