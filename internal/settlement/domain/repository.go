package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	SettlementType string
	Status         string
	PeriodFrom     *time.Time
	PeriodTo       *time.Time
	Cursor         *ListCursor
	Limit          int
}

type ListCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*SettlementBatch, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter) ([]*SettlementBatch, error)
	ListItems(ctx context.Context, db *gorm.DB, orgID, batchID snowflake.ID) ([]SettlementItem, error)
	// UpdateStatus persists the new status and lifecycle timestamps keyed by
	// (org_id, id) so a batch in another tenant is untouchable.
	UpdateStatus(ctx context.Context, db *gorm.DB, batch *SettlementBatch) error
}
