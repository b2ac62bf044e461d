package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"studyportal.org/internal/audit"
	"studyportal.org/internal/catalog"
)

func (a *API) handleProgramsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listPrograms(w, r)
	case http.MethodPost:
		a.addProgram(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// GET /v1/programs?search=&discipline=&degree=&country=
// Параметры фильтра повторяемы; без параметров отдаём весь каталог.
func (a *API) listPrograms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search:      q.Get("search"),
		Disciplines: q["discipline"],
		Degrees:     q["degree"],
		Countries:   q["country"],
	}
	programs, err := a.catalog.Filter(r.Context(), query)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"programs": programs,
		"count":    len(programs),
	})
}

// POST /v1/programs — только для роли institution. Владелец берётся из токена.
func (a *API) addProgram(w http.ResponseWriter, r *http.Request) {
	institutionID, ok := a.requireRole(w, r, "institution")
	if !ok {
		return
	}
	var draft catalog.Program
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	draft.InstitutionID = institutionID
	program, err := a.catalog.Add(r.Context(), draft)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to store program")
		return
	}
	_ = audit.LogEvent(r.Context(), "program_added", map[string]any{
		"programId": program.ID,
		"title":     program.Title,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"program": program})
}

// GET /v1/programs/{id}
func (a *API) handleProgramResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/programs/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	program, ok, err := a.catalog.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"program": program})
}
