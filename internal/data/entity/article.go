package entity

import "time"

type FirstAidArticle struct {
	Base
	Title       string     `db:"title"`
	Slug        string     `db:"slug"`
	Description *string    `db:"description"`
	Content     string     `db:"content"`
	PublishedAt *time.Time `db:"published_at"`
}

// Archived reports whether the article has been soft-deleted.
func (a *FirstAidArticle) Archived() bool {
	return a.DeletedAt != nil
}
