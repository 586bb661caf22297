package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/command-center/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", time.Hour, 2*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := newTestManager()
	user := &domain.User{ID: "user-1", Name: "Rae", Role: domain.RoleEngineer}

	signed, expiresAt, err := tm.GenerateAccess(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, domain.RoleEngineer, claims.Role)
	assert.Equal(t, "Rae", claims.Name)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tm := newTestManager()

	signed, jti, expiresAt, err := tm.GenerateRefresh("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseRefresh(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, jti, claims.ID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	tm := newTestManager()
	user := &domain.User{ID: "user-1", Name: "Rae", Role: domain.RoleRanger}

	access, _, err := tm.GenerateAccess(user)
	require.NoError(t, err)
	refresh, _, _, err := tm.GenerateRefresh(user.ID)
	require.NoError(t, err)

	// Each kind is signed with its own secret.
	_, err = tm.ParseRefresh(access)
	assert.Error(t, err)
	_, err = tm.ParseAccess(refresh)
	assert.Error(t, err)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("different-secret", "different-refresh", time.Hour, time.Hour)
	user := &domain.User{ID: "user-1", Name: "Rae", Role: domain.RoleRanger}

	signed, _, err := tm.GenerateAccess(user)
	require.NoError(t, err)

	_, err = other.ParseAccess(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := newTestManager()
	// The constructor clamps non-positive TTLs, so force one directly.
	tm.accessTTL = -time.Hour
	user := &domain.User{ID: "user-1", Name: "Rae", Role: domain.RoleRanger}

	signed, _, err := tm.GenerateAccess(user)
	require.NoError(t, err)

	_, err = tm.ParseAccess(signed)
	assert.Error(t, err)
}
