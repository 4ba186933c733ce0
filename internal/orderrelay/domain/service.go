package domain

import (
	"context"
	"time"

	"github.com/kpharma/pharmgate/pkg/db/pagination"
)

type ChangeStatusRequest struct {
	RelayID string
	Target  Status
	Reason  string
}

type ListRequest struct {
	pagination.Pagination
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	Relays []OrderRelay `json:"relays"`
}

type Service interface {
	// ChangeStatus moves a relay along the whitelist. Every change, the happy
	// path included, must carry a non-empty reason; the reason is stored in
	// the relay log and the audit trail.
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*OrderRelay, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*OrderRelay, error)
	ListLogs(ctx context.Context, relayID string) ([]OrderRelayLog, error)
	// StatusOptions returns the legal next statuses for the relay's current
	// state, from the same whitelist ChangeStatus enforces.
	StatusOptions(ctx context.Context, relayID string) ([]Status, error)
}
