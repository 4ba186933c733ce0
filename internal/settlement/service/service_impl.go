package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/lock"
	"github.com/kpharma/pharmgate/internal/orgcontext"
	"github.com/kpharma/pharmgate/internal/settlement/domain"
	"github.com/kpharma/pharmgate/pkg/db/pagination"
	"github.com/kpharma/pharmgate/pkg/rls"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const transitionLockTTL = 10 * time.Second

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     domain.Repository
	AuditSvc auditdomain.Service
	Locker   *lock.Locker `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	auditSvc auditdomain.Service
	locker   *lock.Locker
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("settlement.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		locker:   p.Locker,
	}
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (*domain.SettlementBatch, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	batchID, err := snowflake.ParseString(strings.TrimSpace(req.BatchID))
	if err != nil || batchID == 0 {
		return nil, domain.ErrNotFound
	}

	target, err := req.Action.TargetStatus()
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if req.Action.RequiresReason() && reason == "" {
		return nil, domain.ErrReasonRequired
	}

	if s.locker != nil {
		key := lock.TransitionKey("settlement_batch", int64(batchID))
		token, acquired, lockErr := s.locker.TryLock(ctx, key, transitionLockTTL)
		if lockErr != nil {
			return nil, lockErr
		}
		if !acquired {
			return nil, lock.ErrLockHeld
		}
		defer func() {
			_ = s.locker.Release(ctx, key, token)
		}()
	}

	batch, err := s.repo.FindByID(ctx, s.db, orgID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		// a batch belonging to another tenant is indistinguishable from a
		// nonexistent one
		return nil, domain.ErrNotFound
	}

	previous := batch.Status
	if !domain.CanTransition(previous, target) {
		return nil, fmt.Errorf("%w: settlement batch cannot move from %s to %s",
			domain.ErrIllegalTransition, previous, target)
	}

	now := s.clock.Now()
	batch.Status = target
	batch.UpdatedAt = now
	switch target {
	case domain.StatusClosed:
		batch.ClosedAt = &now
	case domain.StatusPaid:
		batch.PaidAt = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, int64(orgID)); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, batch)
	})
	if err != nil {
		return nil, err
	}

	// The transition is committed at this point. An audit write failure is
	// reported by the recorder; the status change stands either way.
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:         req.Action.AuditAction(),
		TargetType:     "settlement_batch",
		TargetID:       batch.ID.String(),
		PreviousStatus: string(previous),
		NewStatus:      string(target),
		Reason:         reason,
		Details:        batch.CalculationSnapshot(),
	})

	s.log.Info("settlement batch transitioned",
		zap.String("batch_id", batch.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)

	return batch, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidOrganization
	}

	var cursor *domain.ListCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339, decoded.CreatedAt)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return domain.ListResponse{}, domain.ErrInvalidPageToken
		}
		cursor = &domain.ListCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, s.db, orgID, domain.ListFilter{
		SettlementType: req.SettlementType,
		Status:         req.Status,
		PeriodFrom:     req.PeriodFrom,
		PeriodTo:       req.PeriodTo,
		Cursor:         cursor,
		Limit:          pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *domain.SettlementBatch) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	batches := make([]domain.SettlementBatch, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		batches = append(batches, *item)
	}

	resp := domain.ListResponse{Batches: batches}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.SettlementBatch, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	batchID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || batchID == 0 {
		return nil, domain.ErrNotFound
	}

	batch, err := s.repo.FindByID(ctx, s.db, orgID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	return batch, nil
}

func (s *Service) ListItems(ctx context.Context, batchID string) ([]domain.SettlementItem, error) {
	batch, err := s.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, s.db, batch.OrgID, batch.ID)
}
