package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusCreated {
			t.Fatalf("request %d: expected 201 within burst, got %d", i+1, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusCreated {
		t.Errorf("expected other clients unaffected, got %d", code)
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	clock := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	// Idle clients survive until a sweep is due.
	clock = clock.Add(rl.idle + time.Second)
	rl.lastSweep = clock
	rl.Allow("10.0.0.3")
	if len(rl.visitors) != 3 {
		t.Fatalf("expected no sweep before interval, got %d visitors", len(rl.visitors))
	}

	clock = clock.Add(rl.sweepEvery)
	rl.Allow("10.0.0.3")
	if len(rl.visitors) != 1 {
		t.Errorf("expected idle visitors swept, got %d visitors", len(rl.visitors))
	}
	if _, ok := rl.visitors["10.0.0.3"]; !ok {
		t.Error("active visitor must survive the sweep")
	}
}
