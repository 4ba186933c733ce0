package service

import (
	"context"
	"strings"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"go.uber.org/zap"
)

func (s *Service) GetSettings(ctx context.Context) (*domain.Settings, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	return settings, nil
}

func (s *Service) UpsertSettings(ctx context.Context, req domain.UpsertSettingsRequest) (*domain.Settings, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	created := settings == nil
	if created {
		settings = &domain.Settings{
			OrgID:     orgID,
			IsActive:  true,
			CreatedAt: now,
		}
	}

	if req.BranchName != nil {
		settings.BranchName = strings.TrimSpace(*req.BranchName)
	}
	if req.ContactEmail != nil {
		settings.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		settings.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.SignageNotice != nil {
		settings.SignageNotice = *req.SignageNotice
	}
	settings.UpdatedAt = now

	if err := s.repo.UpsertSettings(ctx, s.db, settings); err != nil {
		return nil, err
	}

	action := auditdomain.ActionContentUpdated
	if created {
		action = auditdomain.ActionContentCreated
	}
	s.recordContent(ctx, action, "branch_settings", orgID, map[string]any{
		"branch_name": settings.BranchName,
	})
	return settings, nil
}

func (s *Service) SetSettingsStatus(ctx context.Context, active bool) (*domain.Settings, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetSettingsStatus(ctx, s.db, orgID, active)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrSettingsNotFound
	}

	settings, err := s.repo.FindSettings(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentUpdated, "branch_settings", orgID, map[string]any{
		"is_active": active,
	})
	s.log.Info("branch settings status changed",
		zap.String("org_id", orgID.String()),
		zap.Bool("is_active", active),
	)
	return settings, nil
}
