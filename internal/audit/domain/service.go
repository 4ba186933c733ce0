package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/pkg/db/pagination"
)

// Entry is the write request for one audit record. Actor fields default to
// the values carried in actorcontext when left empty.
type Entry struct {
	OrgID          *snowflake.ID
	ActorType      string
	ActorID        string
	Action         string
	TargetType     string
	TargetID       string
	PreviousStatus string
	NewStatus      string
	Reason         string
	Details        map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	// Record appends one immutable entry. It is called exactly once per
	// successful mutating operation, after persistence, and never on a
	// request rejected by authentication, the role gate, or tenant scoping.
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidTimeRange    = errors.New("invalid_time_range")
	ErrInvalidAction       = errors.New("invalid_action")
)
