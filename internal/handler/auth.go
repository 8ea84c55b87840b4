package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/voip-user-api/internal/service"
)

// AuthHandler owns the login endpoint.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the successful login body. Type is always "Bearer": the
// token goes back verbatim in the Authorization header on later requests.
type loginResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// HandleLogin authenticates a username/password pair and issues a token.
//
// HTTP: POST /api/auth/login (public)
//
// Every authentication failure — unknown username, wrong password — produces
// the same 400 body. The distinction lives only in the server log.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON body", slog.String("error", err.Error()))
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Type:     "Bearer",
		Username: result.Identity.Username,
		Name:     result.Identity.Name,
	})
}
