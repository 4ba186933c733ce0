package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertNews(ctx context.Context, db *gorm.DB, news *domain.News) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO branch_news
		 (id, org_id, title, content, category, is_pinned, is_published, is_deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		news.ID,
		news.OrgID,
		news.Title,
		news.Content,
		news.Category,
		news.IsPinned,
		news.IsPublished,
		news.IsDeleted,
		news.CreatedAt,
		news.UpdatedAt,
	).Error
}

func (r *repo) FindNewsByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.News, error) {
	var news domain.News
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, content, category, is_pinned, is_published,
		        is_deleted, created_at, updated_at
		 FROM branch_news
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		orgID,
		id,
		false,
	).Scan(&news).Error
	if err != nil {
		return nil, err
	}
	if news.ID == 0 {
		return nil, nil
	}
	return &news, nil
}

func (r *repo) ListNews(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.NewsFilter) ([]domain.News, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.News{}).
		Where("org_id = ? AND is_deleted = ?", orgID, false)

	if category := strings.TrimSpace(filter.Category); category != "" {
		stmt = stmt.Where("category = ?", category)
	}
	if filter.Published != nil {
		stmt = stmt.Where("is_published = ?", *filter.Published)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.News
	err := stmt.
		Order("is_pinned desc, created_at desc, id desc").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) UpdateNews(ctx context.Context, db *gorm.DB, news *domain.News) error {
	return db.WithContext(ctx).Exec(
		`UPDATE branch_news
		 SET title = ?, content = ?, category = ?, is_pinned = ?, is_published = ?, updated_at = ?
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		news.Title,
		news.Content,
		news.Category,
		news.IsPinned,
		news.IsPublished,
		news.UpdatedAt,
		news.OrgID,
		news.ID,
		false,
	).Error
}

func (r *repo) SoftDeleteNews(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE branch_news SET is_deleted = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		true,
		orgID,
		id,
		false,
	)
	return result.RowsAffected > 0, result.Error
}

func (r *repo) InsertOfficer(ctx context.Context, db *gorm.DB, officer *domain.Officer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO branch_officers
		 (id, org_id, name, position, phone, email, sort_order, is_deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		officer.ID,
		officer.OrgID,
		officer.Name,
		officer.Position,
		officer.Phone,
		officer.Email,
		officer.SortOrder,
		officer.IsDeleted,
		officer.CreatedAt,
		officer.UpdatedAt,
	).Error
}

func (r *repo) FindOfficerByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Officer, error) {
	var officer domain.Officer
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, position, phone, email, sort_order,
		        is_deleted, created_at, updated_at
		 FROM branch_officers
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		orgID,
		id,
		false,
	).Scan(&officer).Error
	if err != nil {
		return nil, err
	}
	if officer.ID == 0 {
		return nil, nil
	}
	return &officer, nil
}

func (r *repo) ListOfficers(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.OfficerFilter) ([]domain.Officer, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Officer{}).
		Where("org_id = ? AND is_deleted = ?", orgID, false)

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Officer
	err := stmt.
		Order("sort_order asc, created_at asc, id asc").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) UpdateOfficer(ctx context.Context, db *gorm.DB, officer *domain.Officer) error {
	return db.WithContext(ctx).Exec(
		`UPDATE branch_officers
		 SET name = ?, position = ?, phone = ?, email = ?, sort_order = ?, updated_at = ?
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		officer.Name,
		officer.Position,
		officer.Phone,
		officer.Email,
		officer.SortOrder,
		officer.UpdatedAt,
		officer.OrgID,
		officer.ID,
		false,
	).Error
}

func (r *repo) SoftDeleteOfficer(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE branch_officers SET is_deleted = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		true,
		orgID,
		id,
		false,
	)
	return result.RowsAffected > 0, result.Error
}

func (r *repo) InsertDoc(ctx context.Context, db *gorm.DB, doc *domain.Doc) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO branch_docs
		 (id, org_id, title, doc_url, category, is_deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID,
		doc.OrgID,
		doc.Title,
		doc.DocURL,
		doc.Category,
		doc.IsDeleted,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Error
}

func (r *repo) FindDocByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Doc, error) {
	var doc domain.Doc
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, doc_url, category, is_deleted, created_at, updated_at
		 FROM branch_docs
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		orgID,
		id,
		false,
	).Scan(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repo) ListDocs(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.DocFilter) ([]domain.Doc, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Doc{}).
		Where("org_id = ? AND is_deleted = ?", orgID, false)

	if category := strings.TrimSpace(filter.Category); category != "" {
		stmt = stmt.Where("category = ?", category)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Doc
	err := stmt.
		Order("created_at desc, id desc").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) UpdateDoc(ctx context.Context, db *gorm.DB, doc *domain.Doc) error {
	return db.WithContext(ctx).Exec(
		`UPDATE branch_docs
		 SET title = ?, doc_url = ?, category = ?, updated_at = ?
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		doc.Title,
		doc.DocURL,
		doc.Category,
		doc.UpdatedAt,
		doc.OrgID,
		doc.ID,
		false,
	).Error
}

func (r *repo) SoftDeleteDoc(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE branch_docs SET is_deleted = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND is_deleted = ?`,
		true,
		orgID,
		id,
		false,
	)
	return result.RowsAffected > 0, result.Error
}

func (r *repo) FindSettings(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Settings, error) {
	var settings domain.Settings
	err := db.WithContext(ctx).Raw(
		`SELECT org_id, branch_name, contact_email, contact_phone, signage_notice,
		        is_active, created_at, updated_at
		 FROM branch_settings
		 WHERE org_id = ?`,
		orgID,
	).Scan(&settings).Error
	if err != nil {
		return nil, err
	}
	if settings.OrgID == 0 {
		return nil, nil
	}
	return &settings, nil
}

func (r *repo) UpsertSettings(ctx context.Context, db *gorm.DB, settings *domain.Settings) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE branch_settings
		 SET branch_name = ?, contact_email = ?, contact_phone = ?, signage_notice = ?, updated_at = ?
		 WHERE org_id = ?`,
		settings.BranchName,
		settings.ContactEmail,
		settings.ContactPhone,
		settings.SignageNotice,
		settings.UpdatedAt,
		settings.OrgID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO branch_settings
		 (org_id, branch_name, contact_email, contact_phone, signage_notice, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settings.OrgID,
		settings.BranchName,
		settings.ContactEmail,
		settings.ContactPhone,
		settings.SignageNotice,
		settings.IsActive,
		settings.CreatedAt,
		settings.UpdatedAt,
	).Error
}

func (r *repo) SetSettingsStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, active bool) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE branch_settings SET is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ?`,
		active,
		orgID,
	)
	return result.RowsAffected > 0, result.Error
}
