package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyportal.org/internal/auth"
	"studyportal.org/internal/catalog"
	"studyportal.org/internal/directory"
	"studyportal.org/internal/kv"
	"studyportal.org/internal/ledger"
	"studyportal.org/internal/obs"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	t.Setenv("PORTAL_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()
	t.Cleanup(auth.ResetSecretForTests)
	obs.Init()

	store := kv.NewMemory()
	dir := directory.NewService(store)
	cat := catalog.NewService(store)
	led := ledger.NewService(store, cat)
	api := New(ReadyProbe{}, "test", dir, cat, led)
	return &apiClient{t: t, handler: api.Handler()}
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) post(path string, body any) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, body)
}

func (c *apiClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// register+login и возврат токена.
func (c *apiClient) loginAs(email, role string) string {
	c.t.Helper()
	rec := c.post("/v1/auth/register", map[string]any{
		"email":    email,
		"password": "secret-pass",
		"name":     "Test " + role,
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		c.t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	rec = c.post("/v1/auth/login", map[string]any{
		"email":    email,
		"password": "secret-pass",
	})
	if rec.Code != http.StatusOK {
		c.t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	body := decodeBody(c.t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		c.t.Fatalf("login %s: empty token in %s", email, rec.Body.String())
	}
	return token
}

func TestHealthAndInfo(t *testing.T) {
	c := newTestAPI(t)

	rec := c.get("/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Fatalf("healthz body = %v", body)
	}

	rec = c.get("/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}

	rec = c.get("/v1/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("info status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	c := newTestAPI(t)

	rec := c.post("/v1/auth/register", map[string]any{
		"email": "nopass@example.com",
		"name":  "No Password",
		"role":  "student",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: status = %d body %s", rec.Code, rec.Body.String())
	}

	payload := map[string]any{
		"email":    "dup@example.com",
		"password": "secret-pass",
		"name":     "First",
		"role":     "student",
	}
	if rec := c.post("/v1/auth/register", payload); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", rec.Code)
	}
	if rec := c.post("/v1/auth/register", payload); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status = %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	c := newTestAPI(t)
	c.loginAs("student@example.com", "student")

	rec := c.post("/v1/auth/login", map[string]any{
		"email":    "student@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d", rec.Code)
	}
	rec = c.post("/v1/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: status = %d", rec.Code)
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	c := newTestAPI(t)

	rec := c.get("/v1/auth/session")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty session: status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["user"] != nil {
		t.Fatalf("expected nil session user, got %v", body["user"])
	}

	c.token = c.loginAs("session@example.com", "student")

	rec = c.get("/v1/auth/session")
	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected session user, got %v", body)
	}
	if user["email"] != "session@example.com" {
		t.Fatalf("session email = %v", user["email"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("session response leaks password hash")
	}

	if rec := c.post("/v1/auth/logout", nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d body %s", rec.Code, rec.Body.String())
	}
	rec = c.get("/v1/auth/session")
	if body := decodeBody(t, rec); body["user"] != nil {
		t.Fatalf("session after logout = %v", body["user"])
	}
}

func TestProgramCatalogOverHTTP(t *testing.T) {
	c := newTestAPI(t)

	rec := c.get("/v1/programs")
	if rec.Code != http.StatusOK {
		t.Fatalf("list programs: status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(8) {
		t.Fatalf("seed catalog count = %v", body["count"])
	}

	rec = c.get("/v1/programs?degree=Bachelor")
	if body := decodeBody(t, rec); body["count"] != float64(2) {
		t.Fatalf("bachelor count = %v", body["count"])
	}

	rec = c.get("/v1/programs?search=data+science")
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("search count = %v", body["count"])
	}

	rec = c.get("/v1/programs/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("get program: status = %d", rec.Code)
	}
	body = decodeBody(t, rec)
	program, _ := body["program"].(map[string]any)
	if program["university"] != "Oxford University" {
		t.Fatalf("program 3 university = %v", program["university"])
	}

	if rec := c.get("/v1/programs/999"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing program: status = %d", rec.Code)
	}
}

func TestAddProgramRequiresInstitution(t *testing.T) {
	c := newTestAPI(t)

	draft := map[string]any{
		"title":       "Test Program",
		"university":  "Test University",
		"location":    "Berlin, Germany",
		"discipline":  "Engineering",
		"degree":      "Master",
		"duration":    "2 years",
		"tuition":     "€1,000/year",
		"description": "A test program.",
		"imageUrl":    "https://example.com/img.jpg",
	}

	// Без токена POST на публичном пути каталога даёт 401.
	if rec := c.post("/v1/programs", draft); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous add: status = %d body %s", rec.Code, rec.Body.String())
	}

	c.token = c.loginAs("student2@example.com", "student")
	if rec := c.post("/v1/programs", draft); rec.Code != http.StatusForbidden {
		t.Fatalf("student add: status = %d", rec.Code)
	}

	c.token = c.loginAs("uni@example.com", "institution")
	rec := c.post("/v1/programs", draft)
	if rec.Code != http.StatusCreated {
		t.Fatalf("institution add: status = %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	program, _ := body["program"].(map[string]any)
	if program["institutionId"] == "" || program["institutionId"] == nil {
		t.Fatal("added program must carry owner institutionId")
	}

	// Неполный черновик отклоняется.
	if rec := c.post("/v1/programs", map[string]any{"title": "Only Title"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete draft: status = %d", rec.Code)
	}
}

func TestApplicationFlowOverHTTP(t *testing.T) {
	c := newTestAPI(t)

	instToken := c.loginAs("inst@example.com", "institution")
	studentToken := c.loginAs("apply@example.com", "student")

	// Вуз публикует программу.
	c.token = instToken
	rec := c.post("/v1/programs", map[string]any{
		"title":       "Applied Robotics",
		"university":  "Institution University",
		"location":    "Munich, Germany",
		"discipline":  "Engineering",
		"degree":      "Master",
		"duration":    "2 years",
		"tuition":     "€2,000/year",
		"description": "Robots.",
		"imageUrl":    "https://example.com/robots.jpg",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add program: status = %d body %s", rec.Code, rec.Body.String())
	}
	programID := decodeBody(t, rec)["program"].(map[string]any)["id"].(string)

	// Студент подаёт заявку.
	c.token = studentToken
	rec = c.post("/v1/applications", map[string]any{"programId": programID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d body %s", rec.Code, rec.Body.String())
	}
	app := decodeBody(t, rec)["application"].(map[string]any)
	if app["status"] != "pending" {
		t.Fatalf("new application status = %v", app["status"])
	}
	appID := app["id"].(string)

	// Повторная заявка даёт 409.
	if rec := c.post("/v1/applications", map[string]any{"programId": programID}); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate submit: status = %d", rec.Code)
	}
	// Несуществующая программа даёт 404.
	if rec := c.post("/v1/applications", map[string]any{"programId": "nope"}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown program submit: status = %d", rec.Code)
	}

	// Студент видит свою заявку с программой внутри.
	rec = c.get("/v1/applications")
	if rec.Code != http.StatusOK {
		t.Fatalf("student list: status = %d", rec.Code)
	}
	apps := decodeBody(t, rec)["applications"].([]any)
	if len(apps) != 1 {
		t.Fatalf("student applications = %d", len(apps))
	}
	joined := apps[0].(map[string]any)
	if joined["program"].(map[string]any)["title"] != "Applied Robotics" {
		t.Fatalf("joined program = %v", joined["program"])
	}

	// Студенту нельзя решать заявки.
	decisionPath := fmt.Sprintf("/v1/applications/%s/decision", appID)
	if rec := c.post(decisionPath, map[string]any{"status": "approved"}); rec.Code != http.StatusForbidden {
		t.Fatalf("student decision: status = %d", rec.Code)
	}

	// Вуз одобряет.
	c.token = instToken
	rec = c.post(decisionPath, map[string]any{"status": "approved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: status = %d body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["application"].(map[string]any)["status"]; got != "approved" {
		t.Fatalf("status after approve = %v", got)
	}

	// Смена финального решения даёт 409, повтор того же — идемпотентен.
	if rec := c.post(decisionPath, map[string]any{"status": "rejected"}); rec.Code != http.StatusConflict {
		t.Fatalf("flip decision: status = %d", rec.Code)
	}
	if rec := c.post(decisionPath, map[string]any{"status": "approved"}); rec.Code != http.StatusOK {
		t.Fatalf("repeat decision: status = %d", rec.Code)
	}

	// Вуз видит заявку в своей выборке.
	rec = c.get("/v1/applications")
	if got := len(decodeBody(t, rec)["applications"].([]any)); got != 1 {
		t.Fatalf("institution applications = %d", got)
	}

	// Решение по несуществующей заявке даёт 404.
	if rec := c.post("/v1/applications/ghost/decision", map[string]any{"status": "approved"}); rec.Code != http.StatusNotFound {
		t.Fatalf("ghost decision: status = %d", rec.Code)
	}
}

func TestDecisionOwnershipEnforced(t *testing.T) {
	c := newTestAPI(t)

	ownerToken := c.loginAs("owner@example.com", "institution")
	otherToken := c.loginAs("other@example.com", "institution")
	studentToken := c.loginAs("stud@example.com", "student")

	c.token = ownerToken
	rec := c.post("/v1/programs", map[string]any{
		"title":       "Owned Program",
		"university":  "Owner University",
		"location":    "Vienna, Austria",
		"discipline":  "Business",
		"degree":      "Master",
		"duration":    "1 year",
		"tuition":     "€3,000/year",
		"description": "Owned.",
		"imageUrl":    "https://example.com/owned.jpg",
	})
	programID := decodeBody(t, rec)["program"].(map[string]any)["id"].(string)

	c.token = studentToken
	rec = c.post("/v1/applications", map[string]any{"programId": programID})
	appID := decodeBody(t, rec)["application"].(map[string]any)["id"].(string)

	c.token = otherToken
	rec = c.post("/v1/applications/"+appID+"/decision", map[string]any{"status": "approved"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign decision: status = %d body %s", rec.Code, rec.Body.String())
	}
}

func TestInvalidJSONBody(t *testing.T) {
	c := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	c := newTestAPI(t)

	rec := c.do(http.MethodDelete, "/v1/programs", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
		t.Fatalf("Allow header = %q", allow)
	}
}
