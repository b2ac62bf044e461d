package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"studyportal.org/internal/audit"
	"studyportal.org/internal/ledger"
)

func (a *API) handleApplicationsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listApplications(w, r)
	case http.MethodPost:
		a.submitApplication(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// GET /v1/applications — выборка по роли из токена: студент видит свои заявки,
// вуз видит заявки на свои программы.
func (a *API) listApplications(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var (
		apps []ledger.JoinedApplication
		err  error
	)
	switch role {
	case "student":
		apps, err = a.ledger.ListByStudent(r.Context(), userID)
	case "institution":
		apps, err = a.ledger.ListByInstitution(r.Context(), userID)
	default:
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return
	}
	if err != nil {
		if errors.Is(err, ledger.ErrDanglingProgram) {
			writeError(w, r, http.StatusInternalServerError, "application references a missing program")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to load applications")
		return
	}
	if apps == nil {
		apps = []ledger.JoinedApplication{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

// POST /v1/applications — только студент, повторная заявка даёт 409.
func (a *API) submitApplication(w http.ResponseWriter, r *http.Request) {
	studentID, ok := a.requireRole(w, r, "student")
	if !ok {
		return
	}
	var req struct {
		ProgramID string `json:"programId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	app, err := a.ledger.Submit(r.Context(), req.ProgramID, studentID)
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "application_submitted", map[string]any{
		"applicationId": app.ID,
		"programId":     app.ProgramID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"application": app})
}

// POST /v1/applications/{id}/decision — вуз решает судьбу заявки на свою программу.
func (a *API) handleApplicationResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/applications/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok || id == "" || action != "decision" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	institutionID, ok := a.requireRole(w, r, "institution")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	owned, err := a.ownsApplication(r, institutionID, id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load applications")
		return
	}
	if !owned {
		// Чужая заявка даёт 403, несуществующая 404.
		all, err := a.ledger.List(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "failed to load applications")
			return
		}
		for _, app := range all {
			if app.ID == id {
				writeError(w, r, http.StatusForbidden, "application belongs to another institution")
				return
			}
		}
		writeError(w, r, http.StatusNotFound, ledger.ErrApplicationNotFound.Error())
		return
	}
	app, err := a.ledger.UpdateStatus(r.Context(), id, ledger.Status(req.Status))
	if err != nil {
		a.writeLedgerError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "application_decided", map[string]any{
		"applicationId": app.ID,
		"status":        string(app.Status),
	})
	writeJSON(w, http.StatusOK, map[string]any{"application": app})
}

// ownsApplication проверяет, что заявка адресована программе этого вуза.
func (a *API) ownsApplication(r *http.Request, institutionID, applicationID string) (bool, error) {
	apps, err := a.ledger.ListByInstitution(r.Context(), institutionID)
	if err != nil {
		return false, err
	}
	for _, app := range apps {
		if app.ID == applicationID {
			return true, nil
		}
	}
	return false, nil
}

func (a *API) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrProgramNotFound), errors.Is(err, ledger.ErrApplicationNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateApplication), errors.Is(err, ledger.ErrStatusFinal):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
