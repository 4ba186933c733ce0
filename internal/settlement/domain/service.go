package domain

import (
	"context"
	"time"

	"github.com/kpharma/pharmgate/pkg/db/pagination"
)

type TransitionRequest struct {
	BatchID string
	Action  Action
	Reason  string
}

type ListRequest struct {
	pagination.Pagination
	SettlementType string
	Status         string
	PeriodFrom     *time.Time
	PeriodTo       *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	Batches []SettlementBatch `json:"batches"`
}

type Service interface {
	// Transition validates the requested action against the adjacency table
	// and, when legal, persists the new status and appends an audit entry
	// with the calculation snapshot. Illegal transitions change nothing.
	Transition(ctx context.Context, req TransitionRequest) (*SettlementBatch, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (*SettlementBatch, error)
	ListItems(ctx context.Context, batchID string) ([]SettlementItem, error)
}
