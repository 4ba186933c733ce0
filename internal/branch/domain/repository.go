package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// PageFilter is offset pagination for the branch content lists. Page is
// 1-based; callers clamp Limit before it reaches the repository.
type PageFilter struct {
	Page  int
	Limit int
}

func (f PageFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

type NewsFilter struct {
	PageFilter
	Category  string
	Published *bool
}

type OfficerFilter struct {
	PageFilter
}

type DocFilter struct {
	PageFilter
	Category string
}

// Repository reads and writes branch content. Every query carries org_id in
// SQL; soft-deleted rows are invisible to reads and to further deletes.
type Repository interface {
	InsertNews(ctx context.Context, db *gorm.DB, news *News) error
	FindNewsByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*News, error)
	ListNews(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter NewsFilter) ([]News, int64, error)
	UpdateNews(ctx context.Context, db *gorm.DB, news *News) error
	SoftDeleteNews(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)

	InsertOfficer(ctx context.Context, db *gorm.DB, officer *Officer) error
	FindOfficerByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Officer, error)
	ListOfficers(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter OfficerFilter) ([]Officer, int64, error)
	UpdateOfficer(ctx context.Context, db *gorm.DB, officer *Officer) error
	SoftDeleteOfficer(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)

	InsertDoc(ctx context.Context, db *gorm.DB, doc *Doc) error
	FindDocByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Doc, error)
	ListDocs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter DocFilter) ([]Doc, int64, error)
	UpdateDoc(ctx context.Context, db *gorm.DB, doc *Doc) error
	SoftDeleteDoc(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)

	FindSettings(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Settings, error)
	UpsertSettings(ctx context.Context, db *gorm.DB, settings *Settings) error
	SetSettingsStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, active bool) (bool, error)
}
