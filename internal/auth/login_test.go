package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/wanderdesk/booking-api/internal/config"
)

func TestLogin_RequiresGuild(t *testing.T) {
	handler := NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, nil)

	t.Run("Login", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.HandleLogin(rr, httptest.NewRequest("GET", "/auth/discord/login", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "" {
			t.Errorf("expected no redirect, got %s", loc)
		}
	})

	t.Run("Callback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/discord/callback?code=abc&state=xyz", nil)
		req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "xyz"})
		rr := httptest.NewRecorder()
		handler.HandleCallback(rr, req)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rr.Code)
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == CookieName {
				t.Error("no session may be issued without a guild")
			}
		}
	})
}

func TestLogin_State(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", DiscordGuildID: "1234"}
	handler := NewAuthHandler(cfg, nil)

	login := func() string {
		rr := httptest.NewRecorder()
		handler.HandleLogin(rr, httptest.NewRequest("GET", "/auth/discord/login", nil))
		if rr.Code != http.StatusTemporaryRedirect {
			t.Fatalf("expected redirect, got %d", rr.Code)
		}

		loc, err := url.Parse(rr.Header().Get("Location"))
		if err != nil {
			t.Fatalf("bad redirect: %v", err)
		}
		state := loc.Query().Get("state")

		var cookieState string
		for _, c := range rr.Result().Cookies() {
			if c.Name == StateCookieName {
				cookieState = c.Value
			}
		}
		if state == "" || state != cookieState {
			t.Fatalf("expected state %q to match cookie %q", state, cookieState)
		}
		return state
	}

	first := login()
	if second := login(); second == first {
		t.Error("expected a fresh state per login")
	}

	tests := []struct {
		name   string
		query  string
		cookie string
	}{
		{"NoCookie", "?code=abc&state=" + first, ""},
		{"Mismatch", "?code=abc&state=forged", first},
		{"NoState", "?code=abc", first},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/discord/callback"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: StateCookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			handler.HandleCallback(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}
