package wire

import (
	"net/http"

	"first-aid-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireArticle(
	r chi.Router,
	articleHandler *adaptor.ArticleHandler,
	auth func(http.Handler) http.Handler,
	superAdmin func(http.Handler) http.Handler,
) {
	r.Route("/api/first-aid-articles", func(r chi.Router) {
		r.Get("/", articleHandler.List)
		r.Get("/{slug}", articleHandler.Show)

		// super admin only
		r.Group(func(r chi.Router) {
			r.Use(auth, superAdmin)
			r.Post("/", articleHandler.Create)
			r.Post("/{slug}/update", articleHandler.Update)
			r.Post("/{slug}/archive", articleHandler.Archive)
		})
	})
}
