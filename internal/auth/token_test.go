// internal/auth/token_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshare-admin/internal/domain"
	"propshare-admin/internal/util"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", "propshare-admin", time.Hour)

	admin := &domain.User{ID: 42, Role: domain.RoleAdmin}
	token, err := manager.Generate(admin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenVerifyRejects(t *testing.T) {
	manager := NewTokenManager("test-secret", "propshare-admin", time.Hour)

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.Verify("not-a-token")
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("other-secret", "propshare-admin", time.Hour)
		token, err := other.Generate(&domain.User{ID: 1, Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := NewTokenManager("test-secret", "someone-else", time.Hour)
		token, err := other.Generate(&domain.User{ID: 1, Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := NewTokenManager("test-secret", "propshare-admin", -time.Minute)
		token, err := expired.Generate(&domain.User{ID: 1, Role: domain.RoleAdmin})
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, util.ErrUnauthorized)
	})

	t.Run("NonAdminRoleSurvivesVerification", func(t *testing.T) {
		// Role filtering is the middleware's job, not the token layer's.
		token, err := manager.Generate(&domain.User{ID: 7, Role: domain.RoleUser})
		require.NoError(t, err)

		claims, err := manager.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, claims.Role)
	})
}
