package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(_ context.Context) error { return p.err }

func TestHandler_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewPingChecker("storage", &fakePinger{}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Errorf("overall status = %s, want %s", response.Status, StatusHealthy)
	}
	if response.Version != "v1.0.0" {
		t.Errorf("version = %s, want v1.0.0", response.Version)
	}
	if len(response.Checks) != 1 {
		t.Errorf("checks = %d, want 1", len(response.Checks))
	}
}

func TestHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewPingChecker("storage", &fakePinger{err: errors.New("connection refused")}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Status != StatusUnhealthy {
		t.Errorf("overall status = %s, want %s", response.Status, StatusUnhealthy)
	}
	check := response.Checks["storage"]
	if check.Message != "connection refused" {
		t.Errorf("check message = %q, want connection error", check.Message)
	}
}

func TestReadinessHandler(t *testing.T) {
	handler := NewHandler("dev")
	pinger := &fakePinger{}
	handler.RegisterChecker("storage", NewPingChecker("storage", pinger))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	handler.ReadinessHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d, want 200", w.Code)
	}

	pinger.err = errors.New("down")
	w = httptest.NewRecorder()
	handler.ReadinessHandler(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("not-ready status = %d, want 503", w.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	w := httptest.NewRecorder()
	LivenessHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCheckerFunc(t *testing.T) {
	checker := CheckerFunc(func(_ context.Context) Check {
		return Check{Name: "inline", Status: StatusHealthy}
	})
	if got := checker.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("status = %s, want %s", got.Status, StatusHealthy)
	}
}
