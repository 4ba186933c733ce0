package service

import (
	"context"
	"strings"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"go.uber.org/zap"
)

func (s *Service) CreateDoc(ctx context.Context, req domain.CreateDocRequest) (*domain.Doc, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	docURL := strings.TrimSpace(req.DocURL)
	if docURL == "" {
		return nil, domain.ErrDocURLRequired
	}

	now := s.clock.Now()
	doc := &domain.Doc{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Title:     title,
		DocURL:    docURL,
		Category:  strings.TrimSpace(req.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertDoc(ctx, s.db, doc); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentCreated, "branch_doc", doc.ID, map[string]any{
		"title": doc.Title,
	})
	s.log.Info("branch doc created", zap.String("doc_id", doc.ID.String()))
	return doc, nil
}

func (s *Service) GetDoc(ctx context.Context, id string) (*domain.Doc, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindDocByID(ctx, s.db, orgID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (s *Service) ListDocs(ctx context.Context, page domain.ListPage, category string) (domain.DocListResponse, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return domain.DocListResponse{}, err
	}

	filter := clampPage(page)
	items, total, err := s.repo.ListDocs(ctx, s.db, orgID, domain.DocFilter{
		PageFilter: filter,
		Category:   category,
	})
	if err != nil {
		return domain.DocListResponse{}, err
	}
	return domain.DocListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *Service) UpdateDoc(ctx context.Context, id string, req domain.UpdateDocRequest) (*domain.Doc, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindDocByID(ctx, s.db, orgID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		doc.Title = title
	}
	if req.DocURL != nil {
		docURL := strings.TrimSpace(*req.DocURL)
		if docURL == "" {
			return nil, domain.ErrDocURLRequired
		}
		doc.DocURL = docURL
	}
	if req.Category != nil {
		doc.Category = strings.TrimSpace(*req.Category)
	}
	doc.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateDoc(ctx, s.db, doc); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentUpdated, "branch_doc", doc.ID, map[string]any{
		"title": doc.Title,
	})
	return doc, nil
}

func (s *Service) DeleteDoc(ctx context.Context, id string) error {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return err
	}
	docID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteDoc(ctx, s.db, orgID, docID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.recordContent(ctx, auditdomain.ActionContentDeleted, "branch_doc", docID, nil)
	s.log.Info("branch doc deleted", zap.String("doc_id", docID.String()))
	return nil
}
