package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/cache"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/organization/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
	"github.com/kpharma/pharmgate/pkg/db"
	"github.com/kpharma/pharmgate/pkg/rls"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const membershipCacheTTL = 60 * time.Second

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     domain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	repo        domain.Repository
	auditSvc    auditdomain.Service
	memberships cache.Cache[snowflake.ID, snowflake.ID]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("organization.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		auditSvc:    p.AuditSvc,
		memberships: cache.NewTTLCache[snowflake.ID, snowflake.ID](),
	}
}

func (s *Service) ResolveTenant(ctx context.Context, userID snowflake.ID) (snowflake.ID, error) {
	if userID == 0 {
		return 0, domain.ErrInvalidUser
	}

	if orgID, ok := s.memberships.Get(userID); ok {
		return orgID, nil
	}

	member, err := s.repo.FirstActiveMembership(ctx, userID)
	if err != nil {
		return 0, err
	}
	if member == nil {
		return 0, nil
	}

	s.memberships.Set(userID, member.OrgID, membershipCacheTTL)
	return member.OrgID, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	orgType := domain.OrgType(strings.TrimSpace(req.OrgType))
	switch orgType {
	case domain.OrgTypeBranch, domain.OrgTypePlatform:
	case "":
		orgType = domain.OrgTypeBranch
	default:
		return nil, domain.ErrInvalidOrgType
	}

	if req.AdminUserID == 0 {
		return nil, domain.ErrInvalidUser
	}

	now := s.clock.Now()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		OrgType:   orgType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, int64(org.ID)); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}
		member := domain.Member{
			ID:        s.genID.Generate(),
			OrgID:     org.ID,
			UserID:    req.AdminUserID,
			Role:      domain.RoleAdmin,
			Status:    domain.MemberStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return repo.AddMember(ctx, member)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}

	orgID := org.ID
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		OrgID:      &orgID,
		Action:     "organization.created",
		TargetType: "organization",
		TargetID:   org.ID.String(),
		Details: map[string]any{
			"name":     org.Name,
			"slug":     org.Slug,
			"org_type": string(org.OrgType),
		},
	})

	return &org, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || orgID == 0 {
		return nil, domain.ErrNotFound
	}

	org, err := s.repo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]domain.Member, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.ListMembers(ctx, orgID)
}

func (s *Service) ApproveMember(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.setMemberStatus(ctx, memberID, domain.MemberStatusActive, "member.approved")
}

func (s *Service) SuspendMember(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.setMemberStatus(ctx, memberID, domain.MemberStatusSuspended, "member.suspended")
}

func (s *Service) setMemberStatus(ctx context.Context, rawID, status, action string) (*domain.Member, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	memberID, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || memberID == 0 {
		return nil, domain.ErrInvalidMemberID
	}

	member, err := s.repo.FindMember(ctx, orgID, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}

	previous := member.Status
	if err := s.repo.UpdateMemberStatus(ctx, orgID, memberID, status); err != nil {
		return nil, err
	}
	member.Status = status
	member.UpdatedAt = s.clock.Now()

	// membership changes invalidate the resolver cache for that user
	s.memberships.Delete(member.UserID)

	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:         action,
		TargetType:     "organization_member",
		TargetID:       member.ID.String(),
		PreviousStatus: previous,
		NewStatus:      status,
		Details: map[string]any{
			"user_id": member.UserID.String(),
			"role":    member.Role,
		},
	})

	return member, nil
}
