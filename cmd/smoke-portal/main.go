package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Гоняет полный цикл портала через работающий API: регистрация обеих ролей,
// публикация программы, заявка, решение, обе сводные выборки.

type client struct {
	base  string
	token string
	http  *http.Client
}

func (c *client) call(method, path string, body any, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *client) mustPost(path string, body any, out any, wantStatus int) {
	status, err := c.call(http.MethodPost, path, body, out)
	if err != nil {
		log.Fatalf("POST %s: %v", path, err)
	}
	if status != wantStatus {
		log.Fatalf("POST %s: status %d, want %d", path, status, wantStatus)
	}
}

func main() {
	base := os.Getenv("PORTAL_SMOKE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c := &client{base: base, http: &http.Client{Timeout: 5 * time.Second}}

	var health struct {
		Status string `json:"status"`
	}
	if status, err := c.call(http.MethodGet, "/healthz", nil, &health); err != nil || status != http.StatusOK {
		log.Fatalf("healthz at %s: status=%d err=%v", base, status, err)
	}

	suffix := rand.Int()
	instEmail := fmt.Sprintf("inst-%d@smoke.test", suffix)
	studentEmail := fmt.Sprintf("student-%d@smoke.test", suffix)

	c.mustPost("/v1/auth/register", map[string]any{
		"email": instEmail, "password": "smoke-pass", "name": "Smoke University", "role": "institution",
	}, nil, http.StatusCreated)
	c.mustPost("/v1/auth/register", map[string]any{
		"email": studentEmail, "password": "smoke-pass", "name": "Smoke Student", "role": "student",
	}, nil, http.StatusCreated)

	var login struct {
		Token string `json:"token"`
	}
	c.mustPost("/v1/auth/login", map[string]any{"email": instEmail, "password": "smoke-pass"}, &login, http.StatusOK)
	instToken := login.Token
	c.mustPost("/v1/auth/login", map[string]any{"email": studentEmail, "password": "smoke-pass"}, &login, http.StatusOK)
	studentToken := login.Token
	if instToken == "" || studentToken == "" {
		log.Fatal("login returned an empty token")
	}

	c.token = instToken
	var added struct {
		Program struct {
			ID string `json:"id"`
		} `json:"program"`
	}
	c.mustPost("/v1/programs", map[string]any{
		"title":       "Smoke Test Engineering",
		"university":  "Smoke University",
		"location":    "Testville, Testland",
		"discipline":  "Engineering",
		"degree":      "Master",
		"duration":    "2 years",
		"tuition":     "free",
		"description": "End-to-end pipeline check program.",
		"imageUrl":    "https://example.com/smoke.jpg",
	}, &added, http.StatusCreated)
	programID := added.Program.ID

	c.token = studentToken
	var submitted struct {
		Application struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"application"`
	}
	c.mustPost("/v1/applications", map[string]any{"programId": programID}, &submitted, http.StatusCreated)
	if submitted.Application.Status != "pending" {
		log.Fatalf("new application status = %s, want pending", submitted.Application.Status)
	}
	appID := submitted.Application.ID

	if status, _ := c.call(http.MethodPost, "/v1/applications", map[string]any{"programId": programID}, nil); status != http.StatusConflict {
		log.Fatalf("duplicate application: status %d, want 409", status)
	}

	c.token = instToken
	var decided struct {
		Application struct {
			Status string `json:"status"`
		} `json:"application"`
	}
	c.mustPost("/v1/applications/"+appID+"/decision", map[string]any{"status": "approved"}, &decided, http.StatusOK)
	if decided.Application.Status != "approved" {
		log.Fatalf("decided status = %s, want approved", decided.Application.Status)
	}

	var listing struct {
		Applications []struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Program struct {
				ID string `json:"id"`
			} `json:"program"`
		} `json:"applications"`
	}
	c.token = studentToken
	if status, err := c.call(http.MethodGet, "/v1/applications", nil, &listing); err != nil || status != http.StatusOK {
		log.Fatalf("student listing: status=%d err=%v", status, err)
	}
	if len(listing.Applications) != 1 || listing.Applications[0].Program.ID != programID ||
		listing.Applications[0].Status != "approved" {
		log.Fatalf("student view mismatch: %+v", listing.Applications)
	}

	c.token = instToken
	if status, err := c.call(http.MethodGet, "/v1/applications", nil, &listing); err != nil || status != http.StatusOK {
		log.Fatalf("institution listing: status=%d err=%v", status, err)
	}
	if len(listing.Applications) != 1 || listing.Applications[0].ID != appID {
		log.Fatalf("institution view mismatch: %+v", listing.Applications)
	}

	fmt.Printf("✅ portal smoke test passed: program=%s application=%s\n", programID, appID)
}
