package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"first-aid-backend/internal/data/entity"
	"first-aid-backend/internal/data/repository"
	"first-aid-backend/pkg/clock"
	"first-aid-backend/pkg/hash"
	"first-aid-backend/pkg/notifier"
	"first-aid-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// ==================== USERS ====================

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]entity.User)}
}

func (m *memUsers) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Phone() != "" && u.Phone() == user.Phone() {
			return fmt.Errorf("create user %s: %w", user.ID, repository.ErrDuplicate)
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Phone() == phone {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	if user.Email != nil {
		for id, u := range m.users {
			if id != user.ID && u.Email != nil && *u.Email == *user.Email {
				return fmt.Errorf("update user %s: %w", user.ID, repository.ErrDuplicate)
			}
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// ==================== SESSIONS ====================

type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[uuid.UUID]entity.Session)}
}

func (m *memSessions) Create(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m *memSessions) FindValidSession(_ context.Context, token uuid.UUID, now time.Time) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok || s.RevokedAt != nil || s.ExpiresAt.Before(now) {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Revoke(_ context.Context, token uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[token]; ok && s.RevokedAt == nil {
		s.RevokedAt = &now
		m.sessions[token] = s
	}
	return nil
}

func (m *memSessions) RevokeAllUserSessions(_ context.Context, userID uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			m.sessions[token] = s
		}
	}
	return nil
}

func (m *memSessions) CleanExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

// ==================== OTPS ====================

type otpKey struct {
	userID  uuid.UUID
	purpose entity.OTPPurpose
}

// memOTPs mirrors the conditional upsert and conditional delete of the
// Postgres store.
type memOTPs struct {
	mu   sync.Mutex
	otps map[otpKey]entity.OTP
}

func newMemOTPs() *memOTPs {
	return &memOTPs{otps: make(map[otpKey]entity.OTP)}
}

func (m *memOTPs) FindActive(_ context.Context, userID uuid.UUID, purpose entity.OTPPurpose, now time.Time) (*entity.OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.otps[otpKey{userID, purpose}]; ok && o.ActiveAt(now) {
		return &o, nil
	}
	return nil, nil
}

func (m *memOTPs) FindActiveByCode(_ context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string, now time.Time) (*entity.OTP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.otps[otpKey{userID, purpose}]; ok && o.ActiveAt(now) && o.Code == code {
		return &o, nil
	}
	return nil, nil
}

func (m *memOTPs) Create(_ context.Context, otp *entity.OTP) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := otpKey{otp.UserID, otp.Purpose}
	if o, ok := m.otps[key]; ok && o.ActiveAt(otp.CreatedAt) {
		return repository.ErrOTPActive
	}
	m.otps[key] = *otp
	return nil
}

func (m *memOTPs) Consume(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, o := range m.otps {
		if o.ID == id && o.ActiveAt(now) {
			delete(m.otps, key)
			return true, nil
		}
	}
	return false, nil
}

func (m *memOTPs) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for key, o := range m.otps {
		if o.ExpiresAt.Before(before) {
			delete(m.otps, key)
			n++
		}
	}
	return n, nil
}

func (m *memOTPs) get(userID uuid.UUID, purpose entity.OTPPurpose) (entity.OTP, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.otps[otpKey{userID, purpose}]
	return o, ok
}

// ==================== ARTICLES ====================

type memArticles struct {
	mu       sync.Mutex
	articles map[uuid.UUID]entity.FirstAidArticle
}

func newMemArticles() *memArticles {
	return &memArticles{articles: make(map[uuid.UUID]entity.FirstAidArticle)}
}

func (m *memArticles) Create(_ context.Context, article *entity.FirstAidArticle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.articles {
		if a.Slug == article.Slug {
			return fmt.Errorf("create article %s: %w", article.Slug, repository.ErrDuplicate)
		}
	}
	m.articles[article.ID] = *article
	return nil
}

func (m *memArticles) FindBySlug(_ context.Context, slug string, withArchived bool) (*entity.FirstAidArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.articles {
		if a.Slug == slug && (withArchived || !a.Archived()) {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memArticles) live() []entity.FirstAidArticle {
	var out []entity.FirstAidArticle
	for _, a := range m.articles {
		if !a.Archived() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memArticles) FindAll(_ context.Context, limit, offset int) ([]*entity.FirstAidArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.live()
	var out []*entity.FirstAidArticle
	for i := offset; i < len(live) && i < offset+limit; i++ {
		a := live[i]
		out = append(out, &a)
	}
	return out, nil
}

func (m *memArticles) CountAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.live())), nil
}

func (m *memArticles) Update(_ context.Context, article *entity.FirstAidArticle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.articles[article.ID]; !ok || a.Archived() {
		return fmt.Errorf("article %s not found or archived", article.ID)
	}
	m.articles[article.ID] = *article
	return nil
}

func (m *memArticles) SetArchived(_ context.Context, id uuid.UUID, archivedAt *time.Time, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.articles[id]
	if !ok {
		return fmt.Errorf("article %s not found", id)
	}
	a.DeletedAt = archivedAt
	a.UpdatedAt = now
	m.articles[id] = a
	return nil
}

// ==================== NOTIFIER ====================

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notifier.Message
}

func (n *recordingNotifier) Dispatch(_ context.Context, msg notifier.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return true
}

func (n *recordingNotifier) sent() []notifier.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifier.Message(nil), n.msgs...)
}

// ==================== HARNESS ====================

type harness struct {
	users    *memUsers
	sessions *memSessions
	otps     *memOTPs
	articles *memArticles
	notifier *recordingNotifier
	clock    *clock.Fake
	service  *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		users:    newMemUsers(),
		sessions: newMemSessions(),
		otps:     newMemOTPs(),
		articles: newMemArticles(),
		notifier: &recordingNotifier{},
		clock:    clock.NewFake(testNow),
	}

	repo := &repository.Repository{
		User:    h.users,
		Session: h.sessions,
		OTP:     h.otps,
		Article: h.articles,
	}
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		OTP:     utils.OTPConfig{ExpiryMinutes: 5},
	}
	deps := Deps{
		Clock:    h.clock,
		Hasher:   hash.NewBcrypt(bcrypt.MinCost),
		Notifier: h.notifier,
	}

	h.service = NewService(repo, deps, config, zap.NewNop())
	return h
}

// seedUser stores a user with the given phone, registered with password
// when password is not empty.
func (h *harness) seedUser(t *testing.T, phone, password string) *entity.User {
	t.Helper()

	user := &entity.User{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		PhoneNumber: &phone,
	}
	if password != "" {
		hashed, err := hash.NewBcrypt(bcrypt.MinCost).Hash(password)
		if err != nil {
			t.Fatalf("Hash failed: %v", err)
		}
		user.PasswordHash = hashed
		user.IsRegistered = true
	}
	if err := h.users.Create(context.Background(), user); err != nil {
		t.Fatalf("Seed user failed: %v", err)
	}
	return user
}
