package service

import (
	"context"
	"strings"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/branch/domain"
	"go.uber.org/zap"
)

func (s *Service) CreateNews(ctx context.Context, req domain.CreateNewsRequest) (*domain.News, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	now := s.clock.Now()
	news := &domain.News{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Title:       title,
		Content:     req.Content,
		Category:    strings.TrimSpace(req.Category),
		IsPinned:    req.IsPinned,
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertNews(ctx, s.db, news); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentCreated, "branch_news", news.ID, map[string]any{
		"title": news.Title,
	})
	s.log.Info("branch news created", zap.String("news_id", news.ID.String()))
	return news, nil
}

func (s *Service) GetNews(ctx context.Context, id string) (*domain.News, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	newsID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	news, err := s.repo.FindNewsByID(ctx, s.db, orgID, newsID)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, domain.ErrNotFound
	}
	return news, nil
}

func (s *Service) ListNews(ctx context.Context, page domain.ListPage, category string, published *bool) (domain.NewsListResponse, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return domain.NewsListResponse{}, err
	}

	filter := clampPage(page)
	items, total, err := s.repo.ListNews(ctx, s.db, orgID, domain.NewsFilter{
		PageFilter: filter,
		Category:   category,
		Published:  published,
	})
	if err != nil {
		return domain.NewsListResponse{}, err
	}
	return domain.NewsListResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *Service) UpdateNews(ctx context.Context, id string, req domain.UpdateNewsRequest) (*domain.News, error) {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return nil, err
	}
	newsID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	news, err := s.repo.FindNewsByID(ctx, s.db, orgID, newsID)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		news.Title = title
	}
	if req.Content != nil {
		news.Content = *req.Content
	}
	if req.Category != nil {
		news.Category = strings.TrimSpace(*req.Category)
	}
	if req.IsPinned != nil {
		news.IsPinned = *req.IsPinned
	}
	if req.IsPublished != nil {
		news.IsPublished = *req.IsPublished
	}
	news.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateNews(ctx, s.db, news); err != nil {
		return nil, err
	}

	s.recordContent(ctx, auditdomain.ActionContentUpdated, "branch_news", news.ID, map[string]any{
		"title": news.Title,
	})
	return news, nil
}

func (s *Service) DeleteNews(ctx context.Context, id string) error {
	orgID, err := orgFromContext(ctx)
	if err != nil {
		return err
	}
	newsID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.SoftDeleteNews(ctx, s.db, orgID, newsID)
	if err != nil {
		return err
	}
	if !deleted {
		// already deleted, other tenant, or never existed: all the same
		return domain.ErrNotFound
	}

	s.recordContent(ctx, auditdomain.ActionContentDeleted, "branch_news", newsID, nil)
	s.log.Info("branch news deleted", zap.String("news_id", newsID.String()))
	return nil
}
