package wire

import (
	"net/http"
	"time"

	"first-aid-backend/internal/adaptor"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/internal/usecase"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/hash"
	"first-aid-backend/pkg/middleware"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the router and the background pieces main must shut down.
type App struct {
	Router     *chi.Mux
	Dispatcher *notifier.Dispatcher
	Service    *usecase.Service
	Clock      clock.Clocker
}

// Wiring builds services, handlers and routes on top of repo. Codes are
// delivered through sender.
func Wiring(repo *repository.Repository, sender notifier.Sender, config *utils.Config, logger *zap.Logger) *App {
	clk := clock.New()

	dispatcher := notifier.NewDispatcher(sender, notifier.Options{
		Workers:    config.Notifier.Workers,
		MaxRetries: config.Notifier.MaxRetries,
		Timeout:    30 * time.Second,
	}, logger)

	service := usecase.NewService(repo, usecase.Deps{
		Clock:    clk,
		Hasher:   hash.NewBcrypt(config.App.BcryptCost),
		Notifier: dispatcher,
	}, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, clk, config, logger)

	return &App{
		Router:     router,
		Dispatcher: dispatcher,
		Service:    service,
		Clock:      clk,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	clk clock.Clocker,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	auth := middleware.AuthSession(repo.Session, clk, logger)

	wireAuth(r, handler.Auth, auth)
	wireArticle(r, handler.Article, auth, middleware.SuperAdmin(repo.User, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
