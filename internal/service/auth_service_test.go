package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/command-center/internal/config"
	"github.com/spec-kit/command-center/internal/domain"
)

type authFixture struct {
	svc      *AuthService
	users    *fakeUserRepo
	sessions *fakeSessionStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:     "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		BcryptCost:    bcrypt.MinCost,
	}, AuthDependencies{
		UserRepo:     users,
		SessionStore: sessions,
	})
	return &authFixture{svc: svc, users: users, sessions: sessions}
}

func TestRegisterDefaultsToRangerRole(t *testing.T) {
	f := newAuthFixture(t)

	user, pair, err := f.svc.Register(context.Background(), "Rae", "rae@example.com", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRanger, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, "R", "rae@example.com", "secret1", "")
	assertStatusCode(t, err, http.StatusBadRequest)

	_, _, err = f.svc.Register(ctx, "Rae", "rae@example.com", "short", "")
	assertStatusCode(t, err, http.StatusBadRequest)

	_, _, err = f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", domain.UserRole("overlord"))
	assertStatusCode(t, err, http.StatusBadRequest)

	_, _, err = f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", domain.RoleEngineer)
	require.NoError(t, err)
	_, _, err = f.svc.Register(ctx, "Other", "RAE@example.com", "secret2", "")
	assertStatusCode(t, err, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", "")
	require.NoError(t, err)

	user, pair, err := f.svc.Login(ctx, "Rae@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "rae@example.com", user.Email)
	assert.NotEmpty(t, pair.RefreshToken)

	_, _, err = f.svc.Login(ctx, "rae@example.com", "wrong-password")
	assertStatusCode(t, err, http.StatusUnauthorized)

	// Unknown accounts fail identically to bad passwords.
	_, _, err = f.svc.Login(ctx, "nobody@example.com", "secret1")
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestRefreshRoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user, pair, err := f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", "")
	require.NoError(t, err)

	access, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.Name, claims.Name)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "not-a-jwt")
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestLogoutRevokesRefreshSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, pair, err := f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	// A signature-valid token no longer backed by a session is rejected.
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user, _, err := f.svc.Register(ctx, "Rae", "rae@example.com", "secret1", "")
	require.NoError(t, err)

	fetched, err := f.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, fetched.Email)

	_, err = f.svc.Me(ctx, "missing")
	assertStatusCode(t, err, http.StatusNotFound)
}
