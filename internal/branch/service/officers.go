package service

import (
	"context"
	"strings"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"go.uber.org/zap"
)

func (s *Service) CreateOfficer(ctx context.Context, req domain.CreateOfficerRequest) (*domain.Officer, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	now := s.clock.Now()
	officer := &domain.Officer{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Position:  strings.TrimSpace(req.Position),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertOfficer(ctx, s.db, officer); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentCreated, "branch_officer", officer.ID, map[string]any{
		"name": officer.Name,
	})
	s.log.Info("branch officer created", zap.String("officer_id", officer.ID.String()))
	return officer, nil
}

func (s *Service) GetOfficer(ctx context.Context, id string) (*domain.Officer, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	officerID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	officer, err := s.repo.FindOfficerByID(ctx, s.db, orgID, officerID)
	if err != nil {
		return nil, err
	}
	if officer == nil {
		return nil, domain.ErrNotFound
	}
	return officer, nil
}

func (s *Service) ListOfficers(ctx context.Context, page domain.ListPage) (domain.OfficerListResponse, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return domain.OfficerListResponse{}, err
	}

	filter := clampPage(page)
	items, total, err := s.repo.ListOfficers(ctx, s.db, orgID, domain.OfficerFilter{PageFilter: filter})
	if err != nil {
		return domain.OfficerListResponse{}, err
	}
	return domain.OfficerListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *Service) UpdateOfficer(ctx context.Context, id string, req domain.UpdateOfficerRequest) (*domain.Officer, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	officerID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	officer, err := s.repo.FindOfficerByID(ctx, s.db, orgID, officerID)
	if err != nil {
		return nil, err
	}
	if officer == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		officer.Name = name
	}
	if req.Position != nil {
		officer.Position = strings.TrimSpace(*req.Position)
	}
	if req.Phone != nil {
		officer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		officer.Email = strings.TrimSpace(*req.Email)
	}
	if req.SortOrder != nil {
		officer.SortOrder = *req.SortOrder
	}
	officer.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateOfficer(ctx, s.db, officer); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentUpdated, "branch_officer", officer.ID, map[string]any{
		"name": officer.Name,
	})
	return officer, nil
}

func (s *Service) DeleteOfficer(ctx context.Context, id string) error {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return err
	}
	officerID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteOfficer(ctx, s.db, orgID, officerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.recordContent(ctx, auditdomain.ActionContentDeleted, "branch_officer", officerID, nil)
	s.log.Info("branch officer deleted", zap.String("officer_id", officerID.String()))
	return nil
}
