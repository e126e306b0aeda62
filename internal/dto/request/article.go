package request

import "strings"

type ArticleRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=3,max=255"`
	Content     string  `json:"content" validate:"required,min=3"`
}

// Normalize trims surrounding whitespace before validation.
func (r *ArticleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Description = trimPtr(r.Description)
}

type ArticleUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=3,max=255"`
	Content     *string `json:"content,omitempty" validate:"omitempty,min=3"`
}

func (r *ArticleUpdateRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.Description = trimPtr(r.Description)
	r.Content = trimPtr(r.Content)
}

type ArchiveRequest struct {
	Archive *bool `json:"archive" validate:"required"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
