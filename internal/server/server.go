package server

import (
	"net/http"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/handler"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/metrics"
	md "github.com/KOFI-GYIMAH/insight-gateway/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger"
)

// * Deps are the collaborators behind the routers. Tracker is nil when no
// * database is configured, which leaves the tracking routes unmounted.
type Deps struct {
	Insight  handler.InsightLookup
	Tracker  handler.Tracker
	Recorder metrics.Recorder
	Store    sessions.Store
}

// * NewHandler builds the router and wraps it in the middleware chain.
// * Outermost first: logging, CORS, session, auth gate.
func NewHandler(cfg *config.Config, deps Deps) http.Handler {
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Store == nil {
		deps.Store = md.NewCookieStore(cfg.SessionSecretKey, !cfg.IsDev)
	}

	router := NewRouter(cfg, deps)

	var h http.Handler = router
	h = md.AuthGate(cfg.PublicPaths, cfg.SessionCookieName, cfg.AuthorizeURL())(h)
	h = md.Session(deps.Store)(h)
	h = md.CORS()(h)
	h = md.LoggingMiddleware(h)
	return h
}

// * NewRouter mounts health, insight, tracking, auth and docs in that order
func NewRouter(cfg *config.Config, deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(md.Instrument(deps.Recorder))

	api := router.PathPrefix("/api").Subrouter()

	handler.NewHealthHandler().RegisterRoutes(api)

	insightRouter := api.PathPrefix("/insight").Subrouter()
	handler.NewInsightHandler(deps.Insight).RegisterRoutes(insightRouter)
	if deps.Tracker != nil {
		handler.NewTrackingHandler(deps.Tracker).RegisterRoutes(insightRouter)
	}

	handler.NewAuthHandler(cfg).RegisterRoutes(api.PathPrefix("/auth").Subrouter())

	router.PathPrefix("/api/docs/").Handler(httpSwagger.WrapHandler)

	return router
}
