package wire

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"first-aid-backend/internal/data/repository"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	config := &utils.Config{
		App:      utils.AppConfig{BcryptCost: 4, CORSOrigins: []string{"https://app.example.com"}},
		Session:  utils.SessionConfig{ExpiryHours: 24},
		OTP:      utils.OTPConfig{ExpiryMinutes: 5},
		Notifier: utils.NotifierConfig{Workers: 2},
	}
	log := zap.NewNop()

	app := Wiring(&repository.Repository{}, notifier.NewLogSender(log), config, log)
	t.Cleanup(app.Dispatcher.Close)
	return app
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesNeedSession(t *testing.T) {
	app := newTestApp(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/email/verification"},
		{http.MethodPost, "/api/auth/email/verify"},
		{http.MethodPost, "/api/first-aid-articles"},
		{http.MethodPost, "/api/first-aid-articles/burns-abcde/update"},
		{http.MethodPost, "/api/first-aid-articles/burns-abcde/archive?archive=true"},
	}

	for _, route := range routes {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestRouter_PublicValidationReachesHandler(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	app.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 from handler validation, got %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Unexpected allow origin %q", got)
	}
}
