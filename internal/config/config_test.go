package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("AUTH0_DOMAIN", "tenant.auth0.com")
	t.Setenv("API_IDENTIFIER", "https://api.example.com")
	t.Setenv("AUTH0_CLIENT_ID", "client-123")
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("FASTAPI_SECRET_KEY", "secret")
}

func TestLoadConfiguration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IS_DEV", "")
	t.Setenv("PORT", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("AUTH_PUBLIC_PATHS", "")

	cfg, err := LoadConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "tenant.auth0.com", cfg.Auth0Domain)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.False(t, cfg.IsDev)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "petercat", cfg.SessionCookieName)
	assert.Equal(t, "https://oss.open-digger.cn/github", cfg.OpenDiggerBaseURL)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.Equal(t, []string{LoginPath}, cfg.PublicPaths)
}

func TestLoadConfiguration_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("IS_DEV", "1")
	t.Setenv("PORT", "9000")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("AUTH_PUBLIC_PATHS", "/api/auth/login, /api/health_checker ,")

	cfg, err := LoadConfiguration()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, []string{"/api/auth/login", "/api/health_checker"}, cfg.PublicPaths)
}

func TestLoadConfiguration_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"domain", "AUTH0_DOMAIN", "AUTH0_DOMAIN is required"},
		{"audience", "API_IDENTIFIER", "API_IDENTIFIER is required"},
		{"client id", "AUTH0_CLIENT_ID", "AUTH0_CLIENT_ID is required"},
		{"api url", "API_URL", "API_URL is required"},
		{"secret", "FASTAPI_SECRET_KEY", "FASTAPI_SECRET_KEY is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("SESSION_SECRET_KEY", "")
			t.Setenv(tt.unset, "")

			cfg, err := LoadConfiguration()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoadConfiguration_InvalidRefreshInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REFRESH_INTERVAL", "soon")

	_, err := LoadConfiguration()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid REFRESH_INTERVAL")
}

func TestAuthorizeURL(t *testing.T) {
	cfg := &Config{
		Auth0Domain: "tenant.auth0.com",
		APIAudience: "aud",
		ClientID:    "client-123",
		APIURL:      "https://api.example.com",
	}

	u, err := url.Parse(cfg.AuthorizeURL())
	require.NoError(t, err)

	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "tenant.auth0.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "aud", q.Get("audience"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://api.example.com/api/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
	assert.Equal(t, "STATE", q.Get("state"))
}

func TestParseRepository(t *testing.T) {
	owner, name, err := ParseRepository("octocat/Hello-World")
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "Hello-World", name)

	for _, bad := range []string{"", "octocat", "a/b/c", "/repo", "owner/", "octocat/..", "./repo"} {
		_, _, err := ParseRepository(bad)
		assert.Error(t, err, bad)
	}
}
