package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/internal/dto/request"
	"first-aid-backend/internal/dto/response"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type ArticleService interface {
	List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.ArticleSummary], error)
	Create(ctx context.Context, req *request.ArticleRequest) (*response.ArticleResponse, error)
	Show(ctx context.Context, slug string) (*response.ArticleResponse, error)
	Update(ctx context.Context, slug string, req *request.ArticleUpdateRequest) (*response.ArticleResponse, error)
	Archive(ctx context.Context, slug string, archive bool) (*response.ArticleResponse, error)
}

type articleService struct {
	articleRepo repository.ArticleRepository
	clock       clock.Clocker
	log         *zap.Logger
}

func NewArticleService(articleRepo repository.ArticleRepository, clock clock.Clocker, log *zap.Logger) ArticleService {
	return &articleService{
		articleRepo: articleRepo,
		clock:       clock,
		log:         log.With(zap.String("service", "article")),
	}
}

// slugAttempts bounds retries when a generated slug is already taken.
const slugAttempts = 3

func (s *articleService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.ArticleSummary], error) {
	page := max(req.Page, 1)
	limit := req.Limit()

	articles, err := s.articleRepo.FindAll(ctx, limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	total, err := s.articleRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	summaries := lo.Map(articles, func(a *entity.FirstAidArticle, _ int) response.ArticleSummary {
		return response.ArticleToSummary(a)
	})

	return response.NewPaginatedResponse(summaries, page, limit, total), nil
}

func (s *articleService) Create(ctx context.Context, req *request.ArticleRequest) (*response.ArticleResponse, error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	article := &entity.FirstAidArticle{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		PublishedAt: &now,
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		article.Slug = utils.GenerateSlug(req.Title)
		err = s.articleRepo.Create(ctx, article)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		s.log.Warn("Slug collision, regenerating", zap.String("slug", article.Slug))
	}
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.log.Info("Article created", zap.String("slug", article.Slug))

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

func (s *articleService) Show(ctx context.Context, slug string) (*response.ArticleResponse, error) {
	article, err := s.find(ctx, slug, false)
	if err != nil {
		return nil, err
	}

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

func (s *articleService) Update(ctx context.Context, slug string, req *request.ArticleUpdateRequest) (*response.ArticleResponse, error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	article, err := s.find(ctx, slug, false)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Description != nil {
		article.Description = req.Description
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	article.UpdatedAt = s.clock.Now()

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.log.Info("Article updated", zap.String("slug", slug))

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

// Archive soft-deletes the article, or restores it when archive is false.
func (s *articleService) Archive(ctx context.Context, slug string, archive bool) (*response.ArticleResponse, error) {
	article, err := s.find(ctx, slug, true)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var archivedAt *time.Time
	if archive {
		archivedAt = &now
	}

	if err := s.articleRepo.SetArchived(ctx, article.ID, archivedAt, now); err != nil {
		return nil, fmt.Errorf("archive article: %w", err)
	}
	article.DeletedAt = archivedAt
	article.UpdatedAt = now

	s.log.Info("Article archive state changed",
		zap.String("slug", slug),
		zap.Bool("archived", archive),
	)

	resp := response.ArticleToResponse(article)
	return &resp, nil
}

func (s *articleService) find(ctx context.Context, slug string, withArchived bool) (*entity.FirstAidArticle, error) {
	article, err := s.articleRepo.FindBySlug(ctx, slug, withArchived)
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}
