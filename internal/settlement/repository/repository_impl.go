package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/internal/settlement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.SettlementBatch, error) {
	var batch domain.SettlementBatch
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, settlement_type, period_start, period_end, status,
		        total_amount, commission_amount, deduction_amount, net_amount,
		        party_type, party_id, closed_at, paid_at, created_at, updated_at
		 FROM settlement_batches
		 WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == 0 {
		return nil, nil
	}
	return &batch, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter) ([]*domain.SettlementBatch, error) {
	var batches []*domain.SettlementBatch
	stmt := db.WithContext(ctx).
		Model(&domain.SettlementBatch{}).
		Where("org_id = ?", orgID)

	if settlementType := strings.TrimSpace(filter.SettlementType); settlementType != "" {
		stmt = stmt.Where("settlement_type = ?", settlementType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if filter.PeriodFrom != nil {
		stmt = stmt.Where("period_start >= ?", filter.PeriodFrom.UTC())
	}
	if filter.PeriodTo != nil {
		stmt = stmt.Where("period_end <= ?", filter.PeriodTo.UTC())
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, orgID, batchID snowflake.ID) ([]domain.SettlementItem, error) {
	var items []domain.SettlementItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, batch_id, order_no, item_name, quantity, unit_price,
		        line_total, commission_rate, commission_amount, created_at
		 FROM settlement_items
		 WHERE org_id = ? AND batch_id = ?
		 ORDER BY created_at ASC, id ASC`,
		orgID,
		batchID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, batch *domain.SettlementBatch) error {
	return db.WithContext(ctx).Exec(
		`UPDATE settlement_batches
		 SET status = ?, closed_at = ?, paid_at = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		batch.Status,
		batch.ClosedAt,
		batch.PaidAt,
		batch.UpdatedAt,
		batch.OrgID,
		batch.ID,
	).Error
}
