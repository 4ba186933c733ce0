// Package domain models relayed e-commerce orders and their status history.
// Relay rows are created by the ingestion pipeline; this service only moves
// them through the status machine and reads them back.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderRelay mirrors one marketplace order handed to the branch for
// fulfilment. Monetary values are snapshots from the originating order.
type OrderRelay struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID `gorm:"not null;index" json:"org_id"`
	OrderNo          string       `gorm:"type:text;not null" json:"order_no"`
	EcommerceOrderID string       `gorm:"type:text;not null" json:"ecommerce_order_id"`
	ListingID        snowflake.ID `gorm:"not null" json:"listing_id"`
	Quantity         int          `gorm:"not null" json:"quantity"`
	UnitPrice        int64        `gorm:"not null" json:"unit_price"`
	TotalPrice       int64        `gorm:"not null" json:"total_price"`
	Status           Status       `gorm:"type:text;not null" json:"status"`
	RelayedAt        *time.Time   `gorm:"" json:"relayed_at,omitempty"`
	ConfirmedAt      *time.Time   `gorm:"" json:"confirmed_at,omitempty"`
	ShippedAt        *time.Time   `gorm:"" json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time   `gorm:"" json:"delivered_at,omitempty"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (OrderRelay) TableName() string { return "order_relays" }

// OrderRelayLog is one append-only history row. A row is written for every
// completed status change and never updated afterwards.
type OrderRelayLog struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"org_id"`
	RelayID        snowflake.ID `gorm:"not null;index" json:"relay_id"`
	ActorType      string       `gorm:"type:text;not null" json:"actor_type"`
	ActorID        string       `gorm:"type:text" json:"actor_id"`
	PreviousStatus Status       `gorm:"type:text;not null" json:"previous_status"`
	NewStatus      Status       `gorm:"type:text;not null" json:"new_status"`
	Reason         string       `gorm:"type:text;not null" json:"reason"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrderRelayLog) TableName() string { return "order_relay_logs" }
