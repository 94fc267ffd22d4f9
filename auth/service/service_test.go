package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lmercier/pongtracker/auth/users"
	"github.com/lmercier/pongtracker/internal/config"
)

type memAuthStorage struct {
	users   map[uuid.UUID]users.User
	secrets map[string]users.Secret
}

func newMemAuthStorage() *memAuthStorage {
	return &memAuthStorage{
		users:   make(map[uuid.UUID]users.User),
		secrets: make(map[string]users.Secret),
	}
}

func (m *memAuthStorage) CreateUser(_ context.Context, user users.User, secret users.Secret) error {
	m.users[user.ID] = user
	m.secrets[user.Name] = secret
	return nil
}

func (m *memAuthStorage) GetUser(_ context.Context, id uuid.UUID) (users.User, error) {
	user, ok := m.users[id]
	if !ok {
		return users.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (m *memAuthStorage) GetUserSecret(_ context.Context, user users.User) (users.Secret, error) {
	secret, ok := m.secrets[user.Name]
	if !ok {
		return users.Secret{}, sql.ErrNoRows
	}
	return secret, nil
}

func (m *memAuthStorage) SignIn(_ context.Context, name string, _ []byte) (users.User, error) {
	for _, user := range m.users {
		if user.Name == name {
			return user, nil
		}
	}
	return users.User{}, sql.ErrNoRows
}

func testConfig() config.Auth {
	return config.Auth{
		Token:          "test-secret",
		Expiration:     "24h",
		RootPassword:   "root-password",
		PasswordPepper: "pepper",
		Rules: []config.Rule{
			{Path: "^/api/admin", Method: []string{"*"}, Allow: []string{users.RoleAdmin}},
			{Path: "^/api/", Method: []string{"POST"}, Allow: []string{users.RoleAdmin, users.RoleUser}},
			{Path: ".*", Method: []string{"*"}, Allow: []string{"*"}},
		},
	}
}

func TestRootBootstrap(t *testing.T) {
	store := newMemAuthStorage()
	s, err := New(context.Background(), testConfig(), store)
	require.NoError(t, err)

	root, err := s.Login(context.Background(), "root", "root-password")
	require.NoError(t, err)
	require.True(t, root.HasRole(users.RoleAdmin))

	// bootstrap is idempotent
	_, err = New(context.Background(), testConfig(), store)
	require.NoError(t, err)
	require.Len(t, store.users, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	s, err := New(context.Background(), testConfig(), newMemAuthStorage())
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "root", "not-the-password")
	require.ErrorIs(t, err, ErrBadCredential)

	_, err = s.Login(context.Background(), "nobody", "root-password")
	require.ErrorIs(t, err, ErrBadCredential)
}

func TestAuthRules(t *testing.T) {
	store := newMemAuthStorage()
	s, err := New(context.Background(), testConfig(), store)
	require.NoError(t, err)

	member, err := s.SignUp(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	cookie, err := s.GenerateJWTCookie(member.ID, "localhost")
	require.NoError(t, err)

	// anonymous requests pass the catch-all rule only
	_, err = s.Auth(context.Background(), "", "GET", "/matches")
	require.NoError(t, err)
	_, err = s.Auth(context.Background(), "", "POST", "/api/match")
	require.ErrorIs(t, err, ErrForbidden)

	// a signed-in user may post, but is not an admin
	user, err := s.Auth(context.Background(), cookie.Value, "POST", "/api/match")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Name)
	_, err = s.Auth(context.Background(), cookie.Value, "GET", "/api/admin/users")
	require.ErrorIs(t, err, ErrForbidden)

	_, err = s.Auth(context.Background(), "garbage-token", "GET", "/matches")
	require.ErrorIs(t, err, ErrNotAuthorized)
}
