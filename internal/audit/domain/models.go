// Package domain contains the append-only audit trail model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actor types recorded on audit rows.
const (
	ActorTypeUser   = "user"
	ActorTypeSystem = "system"
)

// Content action types shared by the branch content services.
const (
	ActionContentCreated = "CONTENT_CREATED"
	ActionContentUpdated = "CONTENT_UPDATED"
	ActionContentDeleted = "CONTENT_DELETED"
)

// AuditLog is an immutable record of one successful mutating action.
// Rows are only ever inserted; no update or delete path exists.
type AuditLog struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID          *snowflake.ID     `gorm:"index" json:"org_id,omitempty"`
	ActorType      string            `gorm:"type:text;not null" json:"actor_type"`
	ActorID        *string           `gorm:"type:text" json:"actor_id,omitempty"`
	Action         string            `gorm:"type:text;not null" json:"action"`
	TargetType     string            `gorm:"type:text;not null" json:"target_type"`
	TargetID       *string           `gorm:"type:text" json:"target_id,omitempty"`
	PreviousStatus *string           `gorm:"type:text" json:"previous_status,omitempty"`
	NewStatus      *string           `gorm:"type:text" json:"new_status,omitempty"`
	Reason         *string           `gorm:"type:text" json:"reason,omitempty"`
	Details        datatypes.JSONMap `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress      *string           `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent      *string           `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// AuditCursor is the keyset position for audit log pagination.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}
