package mock

import (
	"encoding/json"
	"net/http"
	"time"
)

type result struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeResult(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result{Code: status, Message: message, Data: data, Timestamp: time.Now().UnixMilli()})
}

// defaultLoginHandler handles POST /api/v1/auth/login
func (s *Service) defaultLoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResult(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, "invalid login request", nil)
		return
	}
	user, ok := s.Users[req.Username]
	if !ok || user.Password != req.Password {
		writeResult(w, http.StatusBadRequest, "invalid username or password", nil)
		return
	}
	accessToken, err := s.createJWT(req.Username, s.TokenTTL)
	if err != nil {
		writeResult(w, http.StatusInternalServerError, "server error", nil)
		return
	}
	writeResult(w, http.StatusOK, "success", map[string]interface{}{
		"accessToken": accessToken,
		"tokenType":   "Bearer",
		"expiresIn":   int64(s.TokenTTL.Seconds()),
		"userInfo":    user.Profile,
	})
}

// defaultLogoutHandler handles POST /api/v1/auth/logout by revoking the presented token
func (s *Service) defaultLogoutHandler(w http.ResponseWriter, r *http.Request) {
	if _, token, err := s.authenticate(r); err == nil {
		s.Revoke(token)
	}
	writeResult(w, http.StatusOK, "success", nil)
}

// defaultProfileHandler handles GET /api/v1/auth/me
func (s *Service) defaultProfileHandler(w http.ResponseWriter, r *http.Request) {
	subject, _, err := s.authenticate(r)
	if err != nil {
		writeResult(w, http.StatusUnauthorized, err.Error(), nil)
		return
	}
	user, ok := s.Users[subject]
	if !ok {
		writeResult(w, http.StatusUnauthorized, "unknown subject", nil)
		return
	}
	writeResult(w, http.StatusOK, "success", user.Profile)
}

// defaultEchoHandler simulates a protected resource at /api/v1/echo
func (s *Service) defaultEchoHandler(w http.ResponseWriter, r *http.Request) {
	subject, _, err := s.authenticate(r)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="`+s.Issuer+`"`)
		writeResult(w, http.StatusUnauthorized, err.Error(), nil)
		return
	}
	writeResult(w, http.StatusOK, "success", map[string]string{
		"subject":   subject,
		"method":    r.Method,
		"requestId": r.Header.Get("X-Request-ID"),
	})
}
