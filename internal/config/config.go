package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultCookieName        = "petercat"
	defaultOpenDiggerBaseURL = "https://oss.open-digger.cn/github"
	defaultRefreshInterval   = 6 * time.Hour

	LoginPath    = "/api/auth/login"
	CallbackPath = "/api/auth/callback"

	authorizeScope = "openid profile email"
	authorizeState = "STATE"
)

type Config struct {
	Auth0Domain       string
	APIAudience       string
	ClientID          string
	APIURL            string
	IsDev             bool
	SessionSecretKey  string
	Port              string
	SessionCookieName string
	OpenDiggerBaseURL string
	DBURL             string
	RabbitMQURL       string
	RefreshInterval   time.Duration
	MetricsAddr       string
	PublicPaths       []string
}

// * LoadConfiguration reads the configuration from the .env file and the
// * environment and returns a pointer to a Config
func LoadConfiguration() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Auth0Domain:       os.Getenv("AUTH0_DOMAIN"),
		APIAudience:       os.Getenv("API_IDENTIFIER"),
		ClientID:          os.Getenv("AUTH0_CLIENT_ID"),
		APIURL:            strings.TrimSuffix(os.Getenv("API_URL"), "/"),
		IsDev:             os.Getenv("IS_DEV") != "",
		SessionSecretKey:  firstNonEmpty(os.Getenv("FASTAPI_SECRET_KEY"), os.Getenv("SESSION_SECRET_KEY")),
		Port:              firstNonEmpty(os.Getenv("PORT"), defaultPort),
		SessionCookieName: firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), defaultCookieName),
		OpenDiggerBaseURL: strings.TrimSuffix(firstNonEmpty(os.Getenv("OPENDIGGER_BASE_URL"), defaultOpenDiggerBaseURL), "/"),
		DBURL:             os.Getenv("DB_URL"),
		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		RefreshInterval:   defaultRefreshInterval,
		MetricsAddr:       os.Getenv("METRICS_ADDR"),
		PublicPaths:       []string{LoginPath},
	}

	if cfg.Auth0Domain == "" {
		return nil, errors.New("AUTH0_DOMAIN is required")
	}

	if cfg.APIAudience == "" {
		return nil, errors.New("API_IDENTIFIER is required")
	}

	if cfg.ClientID == "" {
		return nil, errors.New("AUTH0_CLIENT_ID is required")
	}

	if cfg.APIURL == "" {
		return nil, errors.New("API_URL is required")
	}

	if cfg.SessionSecretKey == "" {
		return nil, errors.New("FASTAPI_SECRET_KEY is required")
	}

	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = interval
	}

	if raw := os.Getenv("AUTH_PUBLIC_PATHS"); raw != "" {
		cfg.PublicPaths = splitList(raw)
	}

	logger.Info("✅ env content loaded successfully 🎉")
	return cfg, nil
}

// * CallbackURL is where the identity provider sends the user back to
func (c *Config) CallbackURL() string {
	return c.APIURL + CallbackPath
}

// * AuthorizeURL builds the identity provider authorize endpoint used for
// * unauthenticated requests
func (c *Config) AuthorizeURL() string {
	q := url.Values{}
	q.Set("audience", c.APIAudience)
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.CallbackURL())
	q.Set("scope", authorizeScope)
	q.Set("state", authorizeState)

	u := url.URL{
		Scheme:   "https",
		Host:     c.Auth0Domain,
		Path:     "/authorize",
		RawQuery: q.Encode(),
	}
	return u.String()
}

// * ParseRepository takes a string in the format owner/name and returns the
// * owner and name as two separate strings. If the string does not match
// * the expected format, an error is returned.
func ParseRepository(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository should be in format owner/name")
	}
	for _, p := range parts {
		if p == "." || p == ".." {
			return "", "", fmt.Errorf("repository segment %q is not allowed", p)
		}
	}
	return parts[0], parts[1], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
