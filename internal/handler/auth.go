package handler

import (
	"fmt"
	"net/http"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/config"
	"github.com/KOFI-GYIMAH/insight-gateway/internal/middleware"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/gorilla/mux"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// * RegisterRoutes expects the /api/auth subrouter
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.login).Methods("GET")
	r.HandleFunc("/logout", h.logout).Methods("GET")
	r.HandleFunc("/userinfo", h.userInfo).Methods("GET")
}

// login godoc
// @Summary Login
// @Description Redirects to the identity provider's authorize endpoint
// @Tags Auth
// @Success 307
// @Router /auth/login [get]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.AuthorizeURL(), http.StatusTemporaryRedirect)
}

// logout godoc
// @Summary Logout
// @Description Expires the auth cookie and clears the session
// @Tags Auth
// @Produce json
// @Success 200 {object} APIResponse
// @Router /auth/logout [get]
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.cfg.IsDev,
	})

	if session := middleware.SessionFrom(r.Context()); session != nil {
		for k := range session.Values {
			delete(session.Values, k)
		}
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			logger.Warn("failed to expire session: %v", err)
		}
	}

	writeSuccess(w, http.StatusOK, nil, "Logged out")
}

// userInfo godoc
// @Summary Session user
// @Description Returns the values stored in the caller's session
// @Tags Auth
// @Produce json
// @Success 200 {object} APIResponse{data=map[string]any}
// @Router /auth/userinfo [get]
func (h *AuthHandler) userInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{}
	if session := middleware.SessionFrom(r.Context()); session != nil {
		for k, v := range session.Values {
			info[fmt.Sprint(k)] = v
		}
	}
	writeSuccess(w, http.StatusOK, info)
}
