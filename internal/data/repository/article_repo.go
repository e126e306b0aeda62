package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.FirstAidArticle) error
	FindBySlug(ctx context.Context, slug string, withArchived bool) (*entity.FirstAidArticle, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.FirstAidArticle, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, article *entity.FirstAidArticle) error
	SetArchived(ctx context.Context, id uuid.UUID, archivedAt *time.Time, now time.Time) error
}

type articleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewArticleRepository(db database.PgxIface, log *zap.Logger) ArticleRepository {
	return &articleRepository{
		db:  db,
		log: log.With(zap.String("repository", "article")),
	}
}

const articleColumns = `id, title, slug, description, content, published_at,
		       created_at, updated_at, deleted_at`

func scanArticle(row pgx.Row) (*entity.FirstAidArticle, error) {
	var article entity.FirstAidArticle
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Description,
		&article.Content,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Create(ctx context.Context, article *entity.FirstAidArticle) error {
	query := `
		INSERT INTO first_aid_articles (id, title, slug, description, content,
		                                published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Slug,
		article.Description,
		article.Content,
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create article %s: %w", article.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create article",
			zap.Error(err),
			zap.String("slug", article.Slug),
		)
		return fmt.Errorf("create article %s: %w", article.Slug, err)
	}

	return nil
}

// FindBySlug returns nil, nil when no article matches. Archived articles are
// only returned when withArchived is set.
func (r *articleRepository) FindBySlug(ctx context.Context, slug string, withArchived bool) (*entity.FirstAidArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM first_aid_articles WHERE slug = $1`
	if !withArchived {
		query += ` AND deleted_at IS NULL`
	}

	article, err := scanArticle(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find article by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find article by slug %s: %w", slug, err)
	}

	return article, nil
}

// FindAll lists non-archived articles, newest publication first.
func (r *articleRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.FirstAidArticle, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM first_aid_articles
		WHERE deleted_at IS NULL
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list articles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all articles limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var articles []*entity.FirstAidArticle
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			r.log.Error("Failed to scan article row", zap.Error(err))
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}

	return articles, nil
}

func (r *articleRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM first_aid_articles WHERE deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count articles", zap.Error(err))
		return 0, fmt.Errorf("count articles: %w", err)
	}

	return count, nil
}

func (r *articleRepository) Update(ctx context.Context, article *entity.FirstAidArticle) error {
	query := `
		UPDATE first_aid_articles
		SET title = $2, description = $3, content = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Description,
		article.Content,
		article.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update article",
			zap.Error(err),
			zap.String("article_id", article.ID.String()),
		)
		return fmt.Errorf("update article %s: %w", article.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s not found or archived", article.ID)
	}

	return nil
}

// SetArchived sets deleted_at to archivedAt; nil restores the article.
func (r *articleRepository) SetArchived(ctx context.Context, id uuid.UUID, archivedAt *time.Time, now time.Time) error {
	query := `UPDATE first_aid_articles SET deleted_at = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, archivedAt, now)
	if err != nil {
		r.log.Error("Failed to change article archive state",
			zap.Error(err),
			zap.String("article_id", id.String()),
		)
		return fmt.Errorf("set archived on article %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article %s not found", id)
	}

	return nil
}
