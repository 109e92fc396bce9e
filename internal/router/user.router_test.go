package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/handler"
	auditsvc "github.com/AliFrzngn/zcoil/internal/service/audit"
	"github.com/AliFrzngn/zcoil/internal/service/email"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/jwtutil"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
	"golang.org/x/crypto/bcrypt"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*domain.User)}
}

func (m *memUserStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, xerrors.ErrEmailAlreadyInUse
		}
		if existing.Username == u.Username {
			return nil, xerrors.ErrUsernameTaken
		}
	}
	m.nextID++
	saved := *u
	saved.ID = m.nextID
	saved.IsActive = true
	saved.CreatedAt = time.Now()
	m.users[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, xerrors.ErrUserNotFound
}

func (m *memUserStore) GetByEmail(_ context.Context, emailAddr string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(emailAddr) {
			out := *u
			return &out, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (m *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == strings.ToLower(username) {
			out := *u
			return &out, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (m *memUserStore) List(_ context.Context, _ domain.UserFilter) ([]*domain.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (m *memUserStore) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	out := *u
	return &out, nil
}

func (m *memUserStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return xerrors.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) UpdateLastLogin(_ context.Context, id int64) error { return nil }

func (m *memUserStore) MarkEmailVerified(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	if u.IsVerified {
		return nil, xerrors.ErrAlreadyVerified
	}
	u.IsVerified = true
	out := *u
	return &out, nil
}

func (m *memUserStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.PasswordHash = hash
		return nil
	}
	return xerrors.ErrUserNotFound
}

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.ActionToken
}

func (m *memTokenStore) Replace(_ context.Context, userID int64, purpose, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = make(map[string]*domain.ActionToken)
	}
	m.tokens[purpose+"/"+tokenHash] = &domain.ActionToken{
		UserID: userID, Purpose: purpose, TokenHash: tokenHash, IssuedAt: time.Now(),
	}
	return nil
}

func (m *memTokenStore) Consume(_ context.Context, purpose, tokenHash string) (*domain.ActionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[purpose+"/"+tokenHash]; ok {
		delete(m.tokens, purpose+"/"+tokenHash)
		out := *t
		return &out, nil
	}
	return nil, xerrors.ErrInvalidActionToken
}

type memAuditStore struct{}

func (memAuditStore) Insert(context.Context, *domain.AuditLog) error { return nil }
func (memAuditStore) ListByUser(context.Context, string, int, int) ([]*domain.AuditLog, int, error) {
	return nil, 0, nil
}
func (memAuditStore) List(context.Context, int, int) ([]*domain.AuditLog, int, error) {
	return nil, 0, nil
}

type nopSender struct{}

func (nopSender) Send(string, string, string) error { return nil }

type envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newTestRouter(t *testing.T) (http.Handler, *memUserStore) {
	t.Helper()
	logger := zap.NewNop()
	users := newMemUserStore()

	recorder := auditsvc.NewRecorder(memAuditStore{}, logger)
	t.Cleanup(recorder.Close)

	gen := jwtutil.NewGenerator([]byte("router-test-secret"), "zcoil-test", time.Minute)
	verifier := jwtutil.NewVerifier([]byte("router-test-secret"), "zcoil-test")

	authUC := usecase.NewAuthUsecase(users, &memTokenStore{}, gen,
		email.NewMailer(nopSender{}, "http://localhost"),
		recorder, logger, bcrypt.MinCost, time.Hour, time.Hour)
	userUC := usecase.NewUserUsecase(users, recorder, logger, bcrypt.MinCost)

	return NewUserRouter(
		handler.NewAuthHandler(authUC, userUC),
		handler.NewUserHandler(userUC),
		handler.NewAuditHandler(memAuditStore{}),
		middleware.NewAuth(verifier, users, logger),
	), users
}

// registerAndLogin creates an account through the public endpoints and
// returns its id and a live access token.
func registerAndLogin(t *testing.T, h http.Handler, emailAddr, username string) (int64, string) {
	t.Helper()

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    emailAddr,
		"username": username,
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user, _ := env.Data["user"].(map[string]interface{})
	require.NotNil(t, user)
	id, _ := user["id"].(float64)

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    emailAddr,
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, token)

	return int64(id), token
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestRegisterLoginMeFlow(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "flow@example.com",
		"username": "flowuser",
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "success", env.Status)

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, token)

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user, _ := env.Data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "flow@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])

	// Customers hold no users:read permission.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/users/", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No token at all.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentialsOverHTTP(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "flow@example.com",
		"username": "flowuser",
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	recWrong, envWrong := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "Wrong!Pass1",
	})
	recUnknown, envUnknown := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "Str0ng!Pass",
	})

	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, envWrong.Message, envUnknown.Message,
		"unknown email and wrong password must be indistinguishable")
}

func TestAdminCreatesUserOverHTTP(t *testing.T) {
	h, users := newTestRouter(t)

	adminID, _ := registerAndLogin(t, h, "root@example.com", "rootuser")
	role := domain.RoleAdmin
	_, err := users.Update(context.Background(), adminID, domain.UserUpdate{Role: &role})
	require.NoError(t, err)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "root@example.com", "password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken, _ := env.Data["access_token"].(string)
	require.NotEmpty(t, adminToken)

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/users/", adminToken, map[string]string{
		"email":    "staff@example.com",
		"username": "staffer",
		"password": "Str0ng!Pass",
		"role":     domain.RoleManager,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created, _ := env.Data["user"].(map[string]interface{})
	require.NotNil(t, created)
	assert.Equal(t, domain.RoleManager, created["role"])

	// Customers cannot reach the create route.
	_, customerToken := registerAndLogin(t, h, "cust@example.com", "custuser")
	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/users/", customerToken, map[string]string{
		"email":    "evil@example.com",
		"username": "eviluser",
		"password": "Str0ng!Pass",
		"role":     domain.RoleAdmin,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCustomerReadsOwnProfileOnly(t *testing.T) {
	h, _ := newTestRouter(t)

	ownID, token := registerAndLogin(t, h, "carol@example.com", "carol")
	otherID, _ := registerAndLogin(t, h, "dave@example.com", "dave")

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(ownID, 10), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user, _ := env.Data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "carol@example.com", user["email"])

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(otherID, 10), token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuditSelfViewIsOpenFullListIsNot(t *testing.T) {
	h, _ := newTestRouter(t)

	_, token := registerAndLogin(t, h, "carol@example.com", "carol")

	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/audit-logs/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/audit-logs/", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
