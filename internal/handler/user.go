package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/voip-user-api/internal/model"
	"github.com/sakif/voip-user-api/internal/service"
)

// UserHandler owns the user-account endpoints. Every response body is a
// model.UserSummary (or a list of them) — the password hash has no path out.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// createRequest is the body of POST /api/users/create.
type createRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// updateRequest is the body of PUT /api/users/update/{id}. Only the display
// name and extension are mutable; username and password never change here.
type updateRequest struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// HandleList returns all accounts.
//
// HTTP: GET /api/users/all (authenticated)
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	writeJSON(w, http.StatusOK, summaries)
}

// HandleGetByID returns one account by id.
//
// HTTP: GET /api/users/by-id?id=<id> (authenticated)
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "query parameter 'id' is required")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Summary())
}

// HandleGetByExtension returns one account by extension.
//
// HTTP: GET /api/users/by-extension?extension=<ext> (authenticated)
func (h *UserHandler) HandleGetByExtension(w http.ResponseWriter, r *http.Request) {
	extension := r.URL.Query().Get("extension")
	if extension == "" {
		badRequest(w, "query parameter 'extension' is required")
		return
	}

	user, err := h.users.GetByExtension(r.Context(), extension)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Summary())
}

// HandleCheckExtension reports whether an extension is assignable: not
// reserved and not already held.
//
// HTTP: GET /api/users/check-extension?extension=<ext> (authenticated)
// Responds with a bare JSON boolean, true meaning available.
func (h *UserHandler) HandleCheckExtension(w http.ResponseWriter, r *http.Request) {
	extension := r.URL.Query().Get("extension")
	if extension == "" {
		badRequest(w, "query parameter 'extension' is required")
		return
	}

	available, err := h.users.IsExtensionAvailable(r.Context(), extension)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, available)
}

// HandleCreate creates an account.
//
// HTTP: POST /api/users/create (authenticated)
// Responds 201 with the created summary, 400 with a fieldErrors map on
// format violations, 400 on conflicts and reserved extensions.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("create user: invalid JSON body", slog.String("error", err.Error()))
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateInput{
		Username:  req.Username,
		Password:  req.Password,
		Name:      req.Name,
		Extension: req.Extension,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.Summary())
}

// HandleUpdate updates an account's name and extension.
//
// HTTP: PUT /api/users/update/{id} (authenticated)
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("update user: invalid JSON body",
			slog.String("userID", id),
			slog.String("error", err.Error()),
		)
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateInput{
		Name:      req.Name,
		Extension: req.Extension,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Summary())
}

// HandleDelete removes an account.
//
// HTTP: DELETE /api/users/delete/{id} (authenticated)
// Responds 204 on success.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
