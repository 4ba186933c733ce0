package domain

import "errors"

// Status is the order relay lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRelayed   Status = "relayed"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

var (
	ErrIllegalTransition   = errors.New("illegal_transition")
	ErrReasonRequired      = errors.New("reason_required")
	ErrUnknownStatus       = errors.New("unknown_status")
	ErrNotFound            = errors.New("order_relay_not_found")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidOrganization = errors.New("invalid_organization")
)

// transitions lists every legal edge. The happy path advances one step at a
// time; cancelled and refunded are reachable from every non-terminal state.
// delivered, cancelled and refunded have no outbound edges.
var transitions = map[Status][]Status{
	StatusPending:   {StatusRelayed, StatusCancelled, StatusRefunded},
	StatusRelayed:   {StatusConfirmed, StatusCancelled, StatusRefunded},
	StatusConfirmed: {StatusShipped, StatusCancelled, StatusRefunded},
	StatusShipped:   {StatusDelivered, StatusCancelled, StatusRefunded},
	StatusDelivered: {},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// AllowedTransitions is the single whitelist consulted by the validator and
// by the status-options endpoint. Empty for terminal and unknown states.
func AllowedTransitions(current Status) []Status {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is a listed edge.
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
