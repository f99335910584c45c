package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetbotio/vetbot/internal/healthcheck"
)

type staticChecker struct {
	items []healthcheck.CheckResult
}

func (s *staticChecker) ListChecks(context.Context) []healthcheck.CheckResult {
	return s.items
}

func doHealth(t *testing.T, h *HealthHandler) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.Register(e)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAllOK(t *testing.T) {
	h := NewHealthHandler(nil, &staticChecker{items: []healthcheck.CheckResult{
		{ID: "channel.connection.slack", Status: healthcheck.StatusOK},
	}})
	rec := doHealth(t, h)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string                    `json:"status"`
		Checks []healthcheck.CheckResult `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != healthcheck.StatusOK || len(body.Checks) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestHealthErrorYields503(t *testing.T) {
	h := NewHealthHandler(nil,
		&staticChecker{items: []healthcheck.CheckResult{{ID: "a", Status: healthcheck.StatusOK}}},
		&staticChecker{items: []healthcheck.CheckResult{{ID: "b", Status: healthcheck.StatusError}}},
	)
	rec := doHealth(t, h)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthNoCheckers(t *testing.T) {
	rec := doHealth(t, NewHealthHandler(nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
