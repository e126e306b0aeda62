package adaptor

import (
	"net/http"
	"strconv"

	"first-aid-backend/internal/dto/request"
	"first-aid-backend/internal/usecase"
	"first-aid-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	service usecase.ArticleService
	log     *zap.Logger
}

func NewArticleHandler(service usecase.ArticleService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		service: service,
		log:     log.With(zap.String("handler", "article")),
	}
}

// List handles GET /api/first-aid-articles?page=&per_page=
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	req := request.PaginatedRequest{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 10),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list articles")
		return
	}

	utils.ResponseSuccess(w, "Articles retrieved", resp)
}

// Create handles POST /api/first-aid-articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create article")
		return
	}

	utils.ResponseCreated(w, "Article created", resp)
}

// Show handles GET /api/first-aid-articles/{slug}
func (h *ArticleHandler) Show(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Show(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "show article")
		return
	}

	utils.ResponseSuccess(w, "Article retrieved", resp)
}

// Update handles POST /api/first-aid-articles/{slug}/update
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.ArticleUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update article")
		return
	}

	utils.ResponseSuccess(w, "Article updated", resp)
}

// Archive handles POST /api/first-aid-articles/{slug}/archive?archive=true|false
func (h *ArticleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req request.ArchiveRequest
	if archive, err := strconv.ParseBool(r.URL.Query().Get("archive")); err == nil {
		req.Archive = &archive
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Archive(r.Context(), chi.URLParam(r, "slug"), *req.Archive)
	if err != nil {
		handleServiceError(w, h.log, err, "archive article")
		return
	}

	if *req.Archive {
		utils.ResponseSuccess(w, "Article archived", resp)
		return
	}
	utils.ResponseSuccess(w, "Article restored", resp)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// fails validation below
		return 0
	}
	return n
}
