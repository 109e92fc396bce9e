package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, xerrors.ErrEmailAlreadyInUse
		}
		if existing.Username == u.Username {
			return nil, xerrors.ErrUsernameTaken
		}
	}
	f.nextID++
	saved := *u
	saved.ID = f.nextID
	saved.IsActive = true
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	f.users[saved.ID] = &saved
	out := saved
	return &out, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			out := *u
			return &out, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			out := *u
			return &out, nil
		}
	}
	return nil, xerrors.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context, _ domain.UserFilter) ([]*domain.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeUserStore) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	if upd.Email != nil {
		u.Email = strings.ToLower(*upd.Email)
	}
	if upd.Username != nil {
		u.Username = strings.ToLower(*upd.Username)
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	if upd.IsSuperuser != nil {
		u.IsSuperuser = *upd.IsSuperuser
	}
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return xerrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (f *fakeUserStore) MarkEmailVerified(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, xerrors.ErrUserNotFound
	}
	if u.IsVerified {
		return nil, xerrors.ErrAlreadyVerified
	}
	now := time.Now()
	u.IsVerified = true
	u.EmailVerifiedAt = &now
	out := *u
	return &out, nil
}

func (f *fakeUserStore) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return xerrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.ActionToken // keyed by purpose + user
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*domain.ActionToken)}
}

func tokenKey(userID int64, purpose string) string {
	return fmt.Sprintf("%d/%s", userID, purpose)
}

func (f *fakeTokenStore) Replace(_ context.Context, userID int64, purpose, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenKey(userID, purpose)] = &domain.ActionToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: tokenHash,
		IssuedAt:  time.Now(),
	}
	return nil
}

func (f *fakeTokenStore) Consume(_ context.Context, purpose, tokenHash string) (*domain.ActionToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, t := range f.tokens {
		if t.Purpose == purpose && t.TokenHash == tokenHash {
			delete(f.tokens, key)
			out := *t
			return &out, nil
		}
	}
	return nil, xerrors.ErrInvalidActionToken
}

// backdate shifts an outstanding token's issue time, for expiry tests.
func (f *fakeTokenStore) backdate(userID int64, purpose string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenKey(userID, purpose)]; ok {
		t.IssuedAt = t.IssuedAt.Add(-d)
	}
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditStore) Insert(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) ListByUser(_ context.Context, userID string, _, _ int) ([]*domain.AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeAuditStore) List(_ context.Context, _, _ int) ([]*domain.AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, len(f.entries), nil
}

func (f *fakeAuditStore) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

// recordingSender captures outgoing mail instead of delivering it. A
// failure can be injected to simulate an SMTP outage.
type recordingSender struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (r *recordingSender) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (r *recordingSender) failWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sendErr = err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recordingSender) last() sentMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}
