package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Cursor      *ListCursor
	Limit       int
}

type ListCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*OrderRelay, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter) ([]*OrderRelay, error)
	ListLogs(ctx context.Context, db *gorm.DB, orgID, relayID snowflake.ID) ([]OrderRelayLog, error)
	// UpdateStatus persists the new status and lifecycle timestamps keyed by
	// (org_id, id).
	UpdateStatus(ctx context.Context, db *gorm.DB, relay *OrderRelay) error
	InsertLog(ctx context.Context, db *gorm.DB, log *OrderRelayLog) error
}
