package httpapi

import (
	"errors"
	"net/http"
	"time"

	"studyportal.org/internal/audit"
	"studyportal.org/internal/auth"
	"studyportal.org/internal/directory"
)

const tokenTTL = 12 * time.Hour

type userPayload struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Registered bool   `json:"isRegistered"`
}

func toUserPayload(u directory.User) userPayload {
	return userPayload{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Registered: u.Registered,
	}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.directory.Register(r.Context(), req.Email, req.Password, req.Name, directory.Role(req.Role))
	if err != nil {
		a.writeDirectoryError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user_registered", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
		"role":   string(user.Role),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserPayload(user)})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeDirectoryError(w, r, err)
		return
	}
	if err := a.directory.SetSession(r.Context(), user); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to persist session")
		return
	}
	token, err := auth.GenerateToken(user.ID, string(user.Role), tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}
	_ = audit.LogEvent(r.Context(), "user_logged_in", map[string]any{
		"userId": user.ID,
		"role":   string(user.Role),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserPayload(user),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, _, ok := a.requireUser(w, r); !ok {
		return
	}
	if err := a.directory.ClearSession(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to clear session")
		return
	}
	_ = audit.LogEvent(r.Context(), "user_logged_out", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok, err := a.directory.Session(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read session")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (a *API) writeDirectoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directory.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrDuplicateUser):
		writeError(w, r, http.StatusConflict, "email is already registered")
	case errors.Is(err, directory.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid email or password")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
