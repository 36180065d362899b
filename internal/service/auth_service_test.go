package service_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/config"
	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
	"github.com/mladjabiznis1-source/sales-tracker/internal/session"
)

func newTestAuthService(t *testing.T) (*service.AuthService, *memoryUserRepo, *session.MemoryStore) {
	t.Helper()
	users := &memoryUserRepo{}
	sessions := session.NewMemoryStore()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	cfg := config.Config{SessionTTL: time.Hour}
	return service.NewAuthService(users, sessions, node, cfg, zap.NewNop()), users, sessions
}

func TestRegisterLoginFlow(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	user, sess, err := auth.Register(ctx, "Rep@Example.com", "hunter22", "Rep One")
	require.NoError(t, err)
	require.Equal(t, "rep@example.com", user.Email)
	require.Equal(t, "Rep One", user.Name)
	require.NotZero(t, user.ID)
	require.NotEmpty(t, sess.ID)

	current, err := auth.CurrentUser(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, user, *current)

	loggedIn, loginSess, err := auth.Login(ctx, "rep@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user, loggedIn)
	require.NotEqual(t, sess.ID, loginSess.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	_, _, err := auth.Register(ctx, "rep@example.com", "hunter22", "Rep One")
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, "rep@example.com", "different", "Rep Two")
	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, 400, svcErr.Status)
	require.Contains(t, svcErr.Message, "already registered")
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	for _, tc := range []struct{ email, password, name string }{
		{"", "pw", "name"},
		{"a@b.c", "", "name"},
		{"a@b.c", "pw", ""},
	} {
		_, _, err := auth.Register(ctx, tc.email, tc.password, tc.name)
		var svcErr *service.Error
		require.ErrorAs(t, err, &svcErr)
		require.Equal(t, 400, svcErr.Status)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	_, _, err := auth.Register(ctx, "rep@example.com", "hunter22", "Rep One")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := auth.Login(ctx, "nobody@example.com", "hunter22")
	_, _, wrongErr := auth.Login(ctx, "rep@example.com", "wrong")

	var unknownSvc, wrongSvc *service.Error
	require.ErrorAs(t, unknownErr, &unknownSvc)
	require.ErrorAs(t, wrongErr, &wrongSvc)
	require.Equal(t, unknownSvc.Message, wrongSvc.Message)
	require.Equal(t, unknownSvc.Status, wrongSvc.Status)
}

func TestLogoutDestroysSession(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuthService(t)

	_, sess, err := auth.Register(ctx, "rep@example.com", "hunter22", "Rep One")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sess.ID))

	current, err := auth.CurrentUser(ctx, sess.ID)
	require.NoError(t, err)
	require.Nil(t, current)

	// Logout of an already-destroyed session stays a no-op.
	require.NoError(t, auth.Logout(ctx, sess.ID))
	require.NoError(t, auth.Logout(ctx, ""))
}

// memoryUserRepo implements repository.UserRepository for tests.
type memoryUserRepo struct {
	users []domain.User
}

var _ repository.UserRepository = (*memoryUserRepo)(nil)

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.users = append(m.users, user)
	return user, nil
}

// memoryEntryRepo implements repository.EntryRepository with the same
// ordering and ownership semantics as the SQL implementations.
type memoryEntryRepo struct {
	entries []domain.Entry
}

var _ repository.EntryRepository = (*memoryEntryRepo)(nil)

func (m *memoryEntryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0)
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *memoryEntryRepo) ListAll(ctx context.Context) ([]domain.Entry, error) {
	out := append([]domain.Entry(nil), m.entries...)
	sortEntries(out)
	return out, nil
}

func (m *memoryEntryRepo) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memoryEntryRepo) Update(ctx context.Context, entry domain.Entry) error {
	for i, e := range m.entries {
		if e.ID == entry.ID && e.UserID == entry.UserID {
			entry.CreatedAt = e.CreatedAt
			m.entries[i] = entry
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryEntryRepo) Delete(ctx context.Context, id, userID int64) error {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func sortEntries(entries []domain.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return strings.Compare(entries[i].Date, entries[j].Date) > 0
		}
		return entries[i].ID > entries[j].ID
	})
}

// memorySubmissionRepo implements repository.SubmissionRepository.
type memorySubmissionRepo struct {
	subs []domain.FormSubmission
}

var _ repository.SubmissionRepository = (*memorySubmissionRepo)(nil)

func (m *memorySubmissionRepo) Create(ctx context.Context, sub domain.FormSubmission) (domain.FormSubmission, error) {
	m.subs = append(m.subs, sub)
	return sub, nil
}

func (m *memorySubmissionRepo) ListAll(ctx context.Context) ([]domain.FormSubmission, error) {
	out := append([]domain.FormSubmission(nil), m.subs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
