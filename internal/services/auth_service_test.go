package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRoundTrip(t *testing.T) {
	credID := uuid.New()
	secret, err := generateSecret()
	require.NoError(t, err)

	key := FormatAPIKey(credID, secret)
	assert.True(t, len(key) > len(apiKeyPrefix))

	gotID, gotSecret, err := ParseAPIKey(key)
	require.NoError(t, err)
	assert.Equal(t, credID, gotID)
	assert.Equal(t, secret, gotSecret)
}

func TestParseAPIKeyRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"missing prefix", uuid.NewString() + ".secret"},
		{"wrong prefix", "sk_" + uuid.NewString() + ".secret"},
		{"no separator", "org_" + uuid.NewString()},
		{"empty secret", "org_" + uuid.NewString() + "."},
		{"bad uuid", "org_not-a-uuid.secret"},
		{"prefix only", "org_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAPIKey(tt.key)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	admin := &Identity{UserID: other, Role: models.RoleAdmin}
	self := &Identity{UserID: owner, Role: models.RoleUser}
	stranger := &Identity{UserID: other, Role: models.RoleUser}

	assert.NoError(t, Authorize(admin, owner))
	assert.NoError(t, Authorize(self, owner))
	assert.ErrorIs(t, Authorize(stranger, owner), ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, owner), ErrUnauthenticated)
}

func TestResolveActor(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()
	otherID := uuid.New()
	admin := &Identity{UserID: adminID, Role: models.RoleAdmin}
	user := &Identity{UserID: userID, Role: models.RoleUser}

	t.Run("defaults to self", func(t *testing.T) {
		got, err := ResolveActor(admin, nil)
		require.NoError(t, err)
		assert.Equal(t, adminID, got)

		got, err = ResolveActor(user, nil)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("admin may name anyone", func(t *testing.T) {
		got, err := ResolveActor(admin, &otherID)
		require.NoError(t, err)
		assert.Equal(t, otherID, got)
	})

	t.Run("user may name only self", func(t *testing.T) {
		got, err := ResolveActor(user, &userID)
		require.NoError(t, err)
		assert.Equal(t, userID, got)

		_, err = ResolveActor(user, &otherID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("nil identity", func(t *testing.T) {
		_, err := ResolveActor(nil, &otherID)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(&Identity{UserID: uuid.New(), Role: models.RoleAdmin}))
	assert.ErrorIs(t, RequireAdmin(&Identity{UserID: uuid.New(), Role: models.RoleUser}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(nil), ErrUnauthenticated)
}
