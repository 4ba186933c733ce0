// Package domain contains the settlement batch lifecycle model. Batches are
// generated upstream; everything here only moves them through the status
// machine and reads them back.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SettlementType identifies which party the batch settles.
type SettlementType string

const (
	SettlementTypeSeller            SettlementType = "seller"
	SettlementTypeSupplier          SettlementType = "supplier"
	SettlementTypePlatformExtension SettlementType = "platform_extension"
)

// SettlementBatch aggregates one settlement period for one party.
// Monetary fields satisfy net = total - commission - deduction upstream.
// Batches are never physically deleted; paid and cancelled are permanent.
type SettlementBatch struct {
	ID               snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID   `gorm:"not null;index" json:"org_id"`
	SettlementType   SettlementType `gorm:"type:text;not null" json:"settlement_type"`
	PeriodStart      time.Time      `gorm:"not null" json:"period_start"`
	PeriodEnd        time.Time      `gorm:"not null" json:"period_end"`
	Status           Status         `gorm:"type:text;not null" json:"status"`
	TotalAmount      int64          `gorm:"not null" json:"total_amount"`
	CommissionAmount int64          `gorm:"not null" json:"commission_amount"`
	DeductionAmount  int64          `gorm:"not null" json:"deduction_amount"`
	NetAmount        int64          `gorm:"not null" json:"net_amount"`
	PartyType        string         `gorm:"type:text;not null" json:"party_type"`
	PartyID          snowflake.ID   `gorm:"not null;index" json:"party_id"`
	ClosedAt         *time.Time     `gorm:"" json:"closed_at,omitempty"`
	PaidAt           *time.Time     `gorm:"" json:"paid_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SettlementBatch) TableName() string { return "settlement_batches" }

// SettlementItem is one order line's contribution to a batch. Price and
// commission values are snapshots taken at order-creation time and are never
// recalculated against a later commission policy.
type SettlementItem struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID `gorm:"not null;index" json:"org_id"`
	BatchID          snowflake.ID `gorm:"not null;index" json:"batch_id"`
	OrderNo          string       `gorm:"type:text;not null" json:"order_no"`
	ItemName         string       `gorm:"type:text;not null" json:"item_name"`
	Quantity         int          `gorm:"not null" json:"quantity"`
	UnitPrice        int64        `gorm:"not null" json:"unit_price"`
	LineTotal        int64        `gorm:"not null" json:"line_total"`
	CommissionRate   float64      `gorm:"not null" json:"commission_rate"`
	CommissionAmount int64        `gorm:"not null" json:"commission_amount"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (SettlementItem) TableName() string { return "settlement_items" }

// CalculationSnapshot is the monetary state captured into the audit trail at
// transition time.
func (b SettlementBatch) CalculationSnapshot() map[string]any {
	return map[string]any{
		"total_amount":      b.TotalAmount,
		"commission_amount": b.CommissionAmount,
		"deduction_amount":  b.DeductionAmount,
		"net_amount":        b.NetAmount,
	}
}
