package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kpharma/pharmgate/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateOrganization(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, slug, org_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		org.OrgType,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repository) FindOrganizationByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, slug, org_type, created_at, updated_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repository) AddMember(ctx context.Context, member domain.Member) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.OrgID,
		member.UserID,
		member.Role,
		member.Status,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repository) FirstActiveMembership(ctx context.Context, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, role, status, created_at, updated_at
		 FROM organization_members
		 WHERE user_id = ? AND status = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		userID,
		domain.MemberStatusActive,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, orgID snowflake.ID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, role, status, created_at, updated_at
		 FROM organization_members
		 WHERE org_id = ?
		 ORDER BY created_at ASC, id ASC`,
		orgID,
	).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) FindMember(ctx context.Context, orgID, memberID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, role, status, created_at, updated_at
		 FROM organization_members
		 WHERE org_id = ? AND id = ?`,
		orgID,
		memberID,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repository) UpdateMemberStatus(ctx context.Context, orgID, memberID snowflake.ID, status string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE organization_members SET status = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		status,
		time.Now().UTC(),
		orgID,
		memberID,
	).Error
}
