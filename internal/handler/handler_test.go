package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/middleware"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/models"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInsightLookup struct {
	mock.Mock
}

func (m *MockInsightLookup) call(ctx context.Context, method, repoName string) (any, error) {
	args := m.MethodCalled(method, ctx, repoName)
	return args.Get(0), args.Error(1)
}

func (m *MockInsightLookup) GetIssueData(ctx context.Context, repoName string) (any, error) {
	return m.call(ctx, "GetIssueData", repoName)
}

func (m *MockInsightLookup) GetPRData(ctx context.Context, repoName string) (any, error) {
	return m.call(ctx, "GetPRData", repoName)
}

func (m *MockInsightLookup) GetCodeFrequency(ctx context.Context, repoName string) (any, error) {
	return m.call(ctx, "GetCodeFrequency", repoName)
}

func (m *MockInsightLookup) GetActivityData(ctx context.Context, repoName string) (any, error) {
	return m.call(ctx, "GetActivityData", repoName)
}

func (m *MockInsightLookup) GetActiveDatesAndTimes(ctx context.Context, repoName string) (any, error) {
	return m.call(ctx, "GetActiveDatesAndTimes", repoName)
}

var endpoints = map[string]string{
	"/api/insight/issue":                  "GetIssueData",
	"/api/insight/pr":                     "GetPRData",
	"/api/insight/code_frequency":         "GetCodeFrequency",
	"/api/insight/activity":               "GetActivityData",
	"/api/insight/active_dates_and_times": "GetActiveDatesAndTimes",
}

func newInsightRouter(lookup InsightLookup) *mux.Router {
	r := mux.NewRouter()
	NewInsightHandler(lookup).RegisterRoutes(r.PathPrefix("/api/insight").Subrouter())
	return r
}

func TestInsightEndpoints_Success(t *testing.T) {
	for path, method := range endpoints {
		t.Run(path, func(t *testing.T) {
			lookup := new(MockInsightLookup)
			lookup.On(method, mock.Anything, "octocat/Hello-World").
				Return(map[string]int{"open": 3, "closed": 5}, nil)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path+"?repo_name=octocat/Hello-World", nil)
			newInsightRouter(lookup).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"success": true, "data": {"open":3,"closed":5}}`, rec.Body.String())
			lookup.AssertExpectations(t)
		})
	}
}

func TestInsightEndpoints_Failure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "invalid input",
			err:        errors.NewKind(errors.KindInvalidInput, "INVALID_REPOSITORY", "Invalid repository name", "bad", nil, errors.LevelInfo),
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "not found",
			err:        errors.NewKind(errors.KindNotFound, "METRIC_NOT_FOUND", "Metric not found", "missing", nil, errors.LevelInfo),
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:       "upstream unavailable",
			err:        errors.NewKind(errors.KindUpstreamUnavailable, "OPENDIGGER_API_ERROR", "Upstream failed", "down", nil, errors.LevelError),
			wantStatus: http.StatusBadGateway,
			wantKind:   "upstream_unavailable",
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("something broke"),
			wantStatus: http.StatusInternalServerError,
			wantKind:   "internal",
		},
	}

	for path, method := range endpoints {
		for _, tt := range tests {
			t.Run(path+"/"+tt.name, func(t *testing.T) {
				lookup := new(MockInsightLookup)
				lookup.On(method, mock.Anything, "a/b").Return(nil, tt.err)

				rec := httptest.NewRecorder()
				newInsightRouter(lookup).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?repo_name=a/b", nil))

				assert.Equal(t, tt.wantStatus, rec.Code)

				var body struct {
					Success bool   `json:"success"`
					Message string `json:"message"`
					Error   struct {
						Kind string `json:"kind"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "failure body must be a JSON object")
				assert.False(t, body.Success)
				assert.Equal(t, tt.err.Error(), body.Message)
				assert.Equal(t, tt.wantKind, body.Error.Kind)
			})
		}
	}
}

func TestInsightEndpoints_PassRepoNameThrough(t *testing.T) {
	lookup := new(MockInsightLookup)
	lookup.On("GetActivityData", mock.Anything, "").Return([]int{}, nil)
	lookup.On("GetPRData", mock.Anything, "not a repo").Return([]int{}, nil)

	router := newInsightRouter(lookup)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/activity", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/pr?repo_name="+url.QueryEscape("not a repo"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	lookup.AssertExpectations(t)
}

func TestInsightEndpoints_OnlyGet(t *testing.T) {
	rec := httptest.NewRecorder()
	newInsightRouter(new(MockInsightLookup)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/insight/issue", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	r := mux.NewRouter()
	NewHealthHandler().RegisterRoutes(r.PathPrefix("/api").Subrouter())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health_checker", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "data": {"status": "ok"}}`, rec.Body.String())
}

func testConfig() *config.Config {
	return &config.Config{
		Auth0Domain:       "tenant.auth0.com",
		APIAudience:       "https://api.example",
		ClientID:          "client-123",
		APIURL:            "https://gateway.example",
		SessionCookieName: "petercat",
		IsDev:             true,
	}
}

func newAuthRouter(cfg *config.Config) http.Handler {
	r := mux.NewRouter()
	NewAuthHandler(cfg).RegisterRoutes(r.PathPrefix("/api/auth").Subrouter())
	return middleware.Session(middleware.NewCookieStore("secret", false))(r)
}

func TestLogin(t *testing.T) {
	cfg := testConfig()

	rec := httptest.NewRecorder()
	newAuthRouter(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, cfg.AuthorizeURL(), rec.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "petercat", Value: "token"})

	rec := httptest.NewRecorder()
	newAuthRouter(testConfig()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "data": null, "message": "Logged out"}`, rec.Body.String())

	expired := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		expired[c.Name] = c.MaxAge < 0
	}
	assert.True(t, expired["petercat"])
	assert.True(t, expired[middleware.SessionName])
}

func TestUserInfo(t *testing.T) {
	store := middleware.NewCookieStore("secret", false)

	// * Seed a session cookie
	seed := middleware.Session(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := middleware.SessionFrom(r.Context())
		s.Values["name"] = "Octo Cat"
		require.NoError(t, s.Save(r, w))
	}))
	seedRec := httptest.NewRecorder()
	seed.ServeHTTP(seedRec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := seedRec.Result().Cookies()
	require.Len(t, cookies, 1)

	r := mux.NewRouter()
	NewAuthHandler(testConfig()).RegisterRoutes(r.PathPrefix("/api/auth").Subrouter())
	h := middleware.Session(store)(r)

	t.Run("with session values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/userinfo", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.JSONEq(t, `{"success": true, "data": {"name": "Octo Cat"}}`, rec.Body.String())
	})

	t.Run("empty session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/userinfo", nil))

		assert.JSONEq(t, `{"success": true, "data": {}}`, rec.Body.String())
	})
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Track(ctx context.Context, repoName string) (*models.TrackedRepository, error) {
	args := m.Called(ctx, repoName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrackedRepository), args.Error(1)
}

func (m *MockTracker) ListTracked(ctx context.Context) ([]*models.TrackedRepository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrackedRepository), args.Error(1)
}

func (m *MockTracker) LatestSnapshot(ctx context.Context, repoName, metric string) (*models.Snapshot, error) {
	args := m.Called(ctx, repoName, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func newTrackingRouter(tracker Tracker) *mux.Router {
	r := mux.NewRouter()
	NewTrackingHandler(tracker).RegisterRoutes(r.PathPrefix("/api/insight").Subrouter())
	return r
}

func TestTrackRepository(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockTracker)
		wantStatus int
	}{
		{
			name: "tracked",
			body: `{"repo_name":"octocat/Hello-World"}`,
			setup: func(m *MockTracker) {
				m.On("Track", mock.Anything, "octocat/Hello-World").
					Return(&models.TrackedRepository{ID: 1, Name: "octocat/Hello-World"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{`,
			setup:      func(m *MockTracker) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid repository",
			body: `{"repo_name":"nope"}`,
			setup: func(m *MockTracker) {
				m.On("Track", mock.Anything, "nope").
					Return(nil, errors.NewKind(errors.KindInvalidInput, "INVALID_REPOSITORY", "Invalid repository name", "", nil, errors.LevelInfo))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := new(MockTracker)
			tt.setup(tracker)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/insight/repositories", strings.NewReader(tt.body))
			newTrackingRouter(tracker).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			tracker.AssertExpectations(t)
		})
	}
}

func TestListRepositories(t *testing.T) {
	tracker := new(MockTracker)
	tracker.On("ListTracked", mock.Anything).Return(nil, nil)

	rec := httptest.NewRecorder()
	newTrackingRouter(tracker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/repositories", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "data": []}`, rec.Body.String())
}

func TestGetSnapshot(t *testing.T) {
	tracker := new(MockTracker)
	tracker.On("LatestSnapshot", mock.Anything, "a/b", "activity").
		Return(&models.Snapshot{ID: 2, Metric: "activity", Data: json.RawMessage(`[1,2]`)}, nil)
	tracker.On("LatestSnapshot", mock.Anything, "a/b", "pr").
		Return(nil, errors.NewKind(errors.KindNotFound, "DB_SNAPSHOT_NOT_FOUND", "Snapshot not found", "", nil, errors.LevelInfo))

	router := newTrackingRouter(tracker)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/snapshots?repo_name=a/b&metric=activity", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data models.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `[1,2]`, string(body.Data.Data))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/insight/snapshots?repo_name=a/b&metric=pr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
