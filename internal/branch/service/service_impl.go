package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/orgcontext"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

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
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("branch.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func orgFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, domain.ErrInvalidOrganization
	}
	return orgID, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// clampPage normalizes page/limit the same way for every content list.
func clampPage(page domain.ListPage) domain.PageFilter {
	p := page.Page
	if p < 1 {
		p = 1
	}
	limit := page.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return domain.PageFilter{Page: p, Limit: limit}
}

// recordContent writes the audit entry for one completed content mutation.
// Failures are handled inside the recorder; the mutation stands regardless.
func (s *Service) recordContent(ctx context.Context, action, targetType string, targetID snowflake.ID, details map[string]any) {
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID.String(),
		Details:    details,
	})
}
