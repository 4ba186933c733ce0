package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/internal/orderrelay/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.OrderRelay, error) {
	var relay domain.OrderRelay
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, order_no, ecommerce_order_id, listing_id, quantity,
		        unit_price, total_price, status, relayed_at, confirmed_at,
		        shipped_at, delivered_at, created_at, updated_at
		 FROM order_relays
		 WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&relay).Error
	if err != nil {
		return nil, err
	}
	if relay.ID == 0 {
		return nil, nil
	}
	return &relay, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter) ([]*domain.OrderRelay, error) {
	var relays []*domain.OrderRelay
	stmt := db.WithContext(ctx).
		Model(&domain.OrderRelay{}).
		Where("org_id = ?", orgID)

	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		stmt = stmt.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", filter.CreatedFrom.UTC())
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", filter.CreatedTo.UTC())
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

	if err := stmt.Find(&relays).Error; err != nil {
		return nil, err
	}
	return relays, nil
}

func (r *repo) ListLogs(ctx context.Context, db *gorm.DB, orgID, relayID snowflake.ID) ([]domain.OrderRelayLog, error) {
	var logs []domain.OrderRelayLog
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, relay_id, actor_type, actor_id, previous_status,
		        new_status, reason, created_at
		 FROM order_relay_logs
		 WHERE org_id = ? AND relay_id = ?
		 ORDER BY created_at ASC, id ASC`,
		orgID,
		relayID,
	).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, relay *domain.OrderRelay) error {
	return db.WithContext(ctx).Exec(
		`UPDATE order_relays
		 SET status = ?, relayed_at = ?, confirmed_at = ?, shipped_at = ?,
		     delivered_at = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		relay.Status,
		relay.RelayedAt,
		relay.ConfirmedAt,
		relay.ShippedAt,
		relay.DeliveredAt,
		relay.UpdatedAt,
		relay.OrgID,
		relay.ID,
	).Error
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, log *domain.OrderRelayLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO order_relay_logs
		 (id, org_id, relay_id, actor_type, actor_id, previous_status, new_status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.OrgID,
		log.RelayID,
		log.ActorType,
		log.ActorID,
		log.PreviousStatus,
		log.NewStatus,
		log.Reason,
		log.CreatedAt,
	).Error
}
