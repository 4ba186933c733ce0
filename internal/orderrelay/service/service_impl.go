package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpharma/pharmgate/internal/actorcontext"
	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/lock"
	"github.com/kpharma/pharmgate/internal/orderrelay/domain"
	"github.com/kpharma/pharmgate/internal/orgcontext"
	"github.com/kpharma/pharmgate/pkg/db/pagination"
	"github.com/kpharma/pharmgate/pkg/rls"
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
		log:      p.Log.Named("orderrelay.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
		locker:   p.Locker,
	}
}

func (s *Service) ChangeStatus(ctx context.Context, req domain.ChangeStatusRequest) (*domain.OrderRelay, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	relayID, err := snowflake.ParseString(strings.TrimSpace(req.RelayID))
	if err != nil || relayID == 0 {
		return nil, domain.ErrNotFound
	}

	if !domain.ValidStatus(req.Target) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownStatus, req.Target)
	}

	// Unlike settlements, every relay status change needs a reason. The relay
	// log is the operator-facing history, so even the happy path records why.
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	if s.locker != nil {
		key := lock.TransitionKey("order_relay", int64(relayID))
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

	relay, err := s.repo.FindByID(ctx, s.db, orgID, relayID)
	if err != nil {
		return nil, err
	}
	if relay == nil {
		return nil, domain.ErrNotFound
	}

	previous := relay.Status
	if !domain.CanTransition(previous, req.Target) {
		return nil, fmt.Errorf("%w: order relay cannot move from %s to %s",
			domain.ErrIllegalTransition, previous, req.Target)
	}

	now := s.clock.Now()
	relay.Status = req.Target
	relay.UpdatedAt = now
	switch req.Target {
	case domain.StatusRelayed:
		relay.RelayedAt = &now
	case domain.StatusConfirmed:
		relay.ConfirmedAt = &now
	case domain.StatusShipped:
		relay.ShippedAt = &now
	case domain.StatusDelivered:
		relay.DeliveredAt = &now
	}

	actorType, actorID := actorcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = auditdomain.ActorTypeSystem
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, int64(orgID)); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, tx, relay); err != nil {
			return err
		}
		return s.repo.InsertLog(ctx, tx, &domain.OrderRelayLog{
			ID:             s.genID.Generate(),
			OrgID:          orgID,
			RelayID:        relay.ID,
			ActorType:      actorType,
			ActorID:        actorID,
			PreviousStatus: previous,
			NewStatus:      req.Target,
			Reason:         reason,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}

	// The transition is committed. An audit write failure is reported by the
	// recorder; the status change stands either way.
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:         "ORDER_RELAY_STATUS_CHANGED",
		TargetType:     "order_relay",
		TargetID:       relay.ID.String(),
		PreviousStatus: string(previous),
		NewStatus:      string(req.Target),
		Reason:         reason,
		Details: map[string]any{
			"order_no":           relay.OrderNo,
			"ecommerce_order_id": relay.EcommerceOrderID,
		},
	})

	s.log.Info("order relay status changed",
		zap.String("relay_id", relay.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Target)),
	)

	return relay, nil
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
		Status:      req.Status,
		OrderNo:     req.OrderNo,
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
		Cursor:      cursor,
		Limit:       pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *domain.OrderRelay) string {
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

	relays := make([]domain.OrderRelay, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		relays = append(relays, *item)
	}

	resp := domain.ListResponse{Relays: relays}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.OrderRelay, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	relayID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || relayID == 0 {
		return nil, domain.ErrNotFound
	}

	relay, err := s.repo.FindByID(ctx, s.db, orgID, relayID)
	if err != nil {
		return nil, err
	}
	if relay == nil {
		return nil, domain.ErrNotFound
	}
	return relay, nil
}

func (s *Service) ListLogs(ctx context.Context, relayID string) ([]domain.OrderRelayLog, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(relayID))
	if err != nil || id == 0 {
		return nil, domain.ErrNotFound
	}

	return s.repo.ListLogs(ctx, s.db, orgID, id)
}

func (s *Service) StatusOptions(ctx context.Context, relayID string) ([]domain.Status, error) {
	relay, err := s.GetByID(ctx, relayID)
	if err != nil {
		return nil, err
	}
	return domain.AllowedTransitions(relay.Status), nil
}
