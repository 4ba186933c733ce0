// Package domain contains persistence models for organizations and memberships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrgType distinguishes pharmacy branches from the platform operator org.
type OrgType string

const (
	OrgTypeBranch   OrgType = "branch"
	OrgTypePlatform OrgType = "platform"
)

// Membership roles.
const (
	RoleMember   = "member"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// Membership statuses. Members are never deleted; status changes instead.
const (
	MemberStatusActive    = "active"
	MemberStatusPending   = "pending"
	MemberStatusSuspended = "suspended"
)

// Organization represents a tenant. Immutable once created.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	OrgType   OrgType      `gorm:"type:text;not null" json:"org_type"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Member links a user to exactly one organization with a role and status.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_org_user,priority:1" json:"org_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_org_user,priority:2" json:"user_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Status    string       `gorm:"type:text;not null" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "organization_members" }
