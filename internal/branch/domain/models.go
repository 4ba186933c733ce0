// Package domain holds branch-facing content managed by branch staff. Every
// row carries the owning org id and is soft deleted, never physically removed.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound            = errors.New("record_not_found")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrTitleRequired       = errors.New("title_required")
	ErrNameRequired        = errors.New("name_required")
	ErrDocURLRequired      = errors.New("doc_url_required")
	ErrSettingsNotFound    = errors.New("settings_not_found")
)

// News is one announcement shown on the branch storefront.
type News struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"org_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	Category    string       `gorm:"type:text" json:"category"`
	IsPinned    bool         `gorm:"not null;default:false" json:"is_pinned"`
	IsPublished bool         `gorm:"not null;default:true" json:"is_published"`
	IsDeleted   bool         `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (News) TableName() string { return "branch_news" }

// Officer is one staff listing on the branch page.
type Officer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Position  string       `gorm:"type:text" json:"position"`
	Phone     string       `gorm:"type:text" json:"phone"`
	Email     string       `gorm:"type:text" json:"email"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	IsDeleted bool         `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Officer) TableName() string { return "branch_officers" }

// Doc is one downloadable document linked from the branch page.
type Doc struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"org_id"`
	Title     string       `gorm:"type:text;not null" json:"title"`
	DocURL    string       `gorm:"type:text;not null" json:"doc_url"`
	Category  string       `gorm:"type:text" json:"category"`
	IsDeleted bool         `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Doc) TableName() string { return "branch_docs" }

// Settings is the single per-org branch profile row, created on first write.
type Settings struct {
	OrgID         snowflake.ID `gorm:"primaryKey" json:"org_id"`
	BranchName    string       `gorm:"type:text;not null" json:"branch_name"`
	ContactEmail  string       `gorm:"type:text" json:"contact_email"`
	ContactPhone  string       `gorm:"type:text" json:"contact_phone"`
	SignageNotice string       `gorm:"type:text" json:"signage_notice"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Settings) TableName() string { return "branch_settings" }
