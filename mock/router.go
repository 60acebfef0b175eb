package mock

import (
	"net/http"
	"strconv"
	"strings"
)

// Handler routes HTTP requests to the appropriate mock backend endpoints.
type Handler struct {
	Service *Service
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/auth/login":
		if h.Service.LoginHandler != nil {
			h.Service.LoginHandler(w, r)
		} else {
			h.Service.defaultLoginHandler(w, r)
		}
	case "/api/v1/auth/logout":
		if h.Service.LogoutHandler != nil {
			h.Service.LogoutHandler(w, r)
		} else {
			h.Service.defaultLogoutHandler(w, r)
		}
	case "/api/v1/auth/me":
		if h.Service.ProfileHandler != nil {
			h.Service.ProfileHandler(w, r)
		} else {
			h.Service.defaultProfileHandler(w, r)
		}
	case "/api/v1/echo":
		if h.Service.EchoHandler != nil {
			h.Service.EchoHandler(w, r)
		} else {
			h.Service.defaultEchoHandler(w, r)
		}
	default:
		if code, ok := strings.CutPrefix(r.URL.Path, "/api/v1/status/"); ok {
			status, err := strconv.Atoi(code)
			if err != nil || status < 200 || status > 599 {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			writeResult(w, status, http.StatusText(status), nil)
			return
		}
		http.NotFound(w, r)
	}
}
