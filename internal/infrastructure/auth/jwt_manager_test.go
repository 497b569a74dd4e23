package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kidpech/xbox_link_demo/internal/config"
)

func testAdminConfig() config.AdminConfig {
	return config.AdminConfig{
		JWTSecret:     "secret",
		Issuer:        "xbox-link-demo",
		TokenTTL:      time.Hour,
		SecretVersion: "v1",
	}
}

func TestIssueAndParseToken(t *testing.T) {
	manager := NewManager(testAdminConfig())

	token, expires, err := manager.IssueToken("ops", RoleAdmin)
	require.NoError(t, err)
	require.True(t, expires.After(time.Now()))

	claims, err := manager.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, "ops", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewManager(testAdminConfig()).IssueToken("ops", RoleAdmin)
	require.NoError(t, err)

	other := testAdminConfig()
	other.JWTSecret = "other"
	_, err = NewManager(other).ParseAccessToken(token)

	require.Error(t, err)
}

func TestParseRejectsRotatedSecretVersion(t *testing.T) {
	token, _, err := NewManager(testAdminConfig()).IssueToken("ops", RoleAdmin)
	require.NoError(t, err)

	rotated := testAdminConfig()
	rotated.SecretVersion = "v2"
	_, err = NewManager(rotated).ParseAccessToken(token)

	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewManager(testAdminConfig())
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := manager.IssueToken("ops", RoleAdmin)
	require.NoError(t, err)

	manager.now = time.Now
	_, err = manager.ParseAccessToken(token)

	require.Error(t, err)
}
