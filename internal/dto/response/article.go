package response

import (
	"time"

	"first-aid-backend/internal/data/entity"
)

// ArticleSummary is the list view; content is left out.
type ArticleSummary struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	PublishedAt *time.Time `json:"published_at"`
}

type ArticleResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ArticleToSummary(article *entity.FirstAidArticle) ArticleSummary {
	return ArticleSummary{
		Title:       article.Title,
		Slug:        article.Slug,
		Description: article.Description,
		PublishedAt: article.PublishedAt,
	}
}

func ArticleToResponse(article *entity.FirstAidArticle) ArticleResponse {
	return ArticleResponse{
		ID:          article.ID.String(),
		Title:       article.Title,
		Slug:        article.Slug,
		Description: article.Description,
		Content:     article.Content,
		PublishedAt: article.PublishedAt,
		ArchivedAt:  article.DeletedAt,
		UpdatedAt:   article.UpdatedAt,
	}
}
