package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"first-aid-backend/internal/dto/request"
)

func ptr[T any](v T) *T {
	return &v
}

func createArticle(t *testing.T, h *harness, title string) string {
	t.Helper()

	resp, err := h.service.Article.Create(context.Background(), &request.ArticleRequest{
		Title:   title,
		Content: "Cool the burn under running water for twenty minutes.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return resp.Slug
}

func TestArticle_CreateAndShow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.service.Article.Create(ctx, &request.ArticleRequest{
		Title:       "  Treating Burns ",
		Description: ptr(" First steps "),
		Content:     "Cool the burn under running water.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(created.Slug, "treating-burns-") {
		t.Errorf("Unexpected slug %q", created.Slug)
	}
	if created.Title != "Treating Burns" || *created.Description != "First steps" {
		t.Errorf("Input not trimmed: %+v", created)
	}
	if created.PublishedAt == nil || !created.PublishedAt.Equal(testNow) {
		t.Errorf("Unexpected published_at %v", created.PublishedAt)
	}

	shown, err := h.service.Article.Show(ctx, created.Slug)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if shown.ID != created.ID {
		t.Errorf("Show returned a different article")
	}

	if _, err := h.service.Article.Show(ctx, "missing"); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}

func TestArticle_CreateValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Article.Create(context.Background(), &request.ArticleRequest{Title: "  ", Content: "x"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Errorf("Expected title error, got %v", verr.Fields)
	}
}

func TestArticle_ListPaginates(t *testing.T) {
	h := newHarness(t)

	for _, title := range []string{"Burns", "Cuts", "Choking"} {
		createArticle(t, h, title)
		h.clock.Advance(time.Minute)
	}

	page, err := h.service.Article.List(context.Background(), request.PaginatedRequest{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || page.Pagination.Page != 2 {
		t.Errorf("Unexpected pagination %+v", page.Pagination)
	}
	if len(page.Data) != 1 || page.Data[0].Title != "Burns" {
		t.Errorf("Expected oldest article on page 2, got %+v", page.Data)
	}
}

func TestArticle_UpdatePartial(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	slug := createArticle(t, h, "Burns")

	h.clock.Advance(time.Hour)

	updated, err := h.service.Article.Update(ctx, slug, &request.ArticleUpdateRequest{Title: ptr("Minor Burns")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Minor Burns" || !strings.HasPrefix(updated.Content, "Cool the burn") {
		t.Errorf("Unexpected update result %+v", updated)
	}
	if updated.Slug != slug {
		t.Error("Slug must not change on update")
	}
	if !updated.UpdatedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("Unexpected updated_at %v", updated.UpdatedAt)
	}
}

func TestArticle_ArchiveAndRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	slug := createArticle(t, h, "Burns")

	archived, err := h.service.Article.Archive(ctx, slug, true)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if archived.ArchivedAt == nil {
		t.Error("Expected archived_at to be set")
	}

	if _, err := h.service.Article.Show(ctx, slug); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Archived article still visible: %v", err)
	}
	if _, err := h.service.Article.Update(ctx, slug, &request.ArticleUpdateRequest{Title: ptr("Nope")}); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Archived article still editable: %v", err)
	}

	page, err := h.service.Article.List(ctx, request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Pagination.Total != 0 {
		t.Errorf("Archived article listed: %+v", page.Data)
	}

	restored, err := h.service.Article.Archive(ctx, slug, false)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.ArchivedAt != nil {
		t.Error("Expected archived_at cleared")
	}
	if _, err := h.service.Article.Show(ctx, slug); err != nil {
		t.Errorf("Restored article not visible: %v", err)
	}

	if _, err := h.service.Article.Archive(ctx, "missing", true); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}
