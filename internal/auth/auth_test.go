package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wanderdesk/booking-api/internal/config"
	"github.com/wanderdesk/booking-api/internal/database"
	"github.com/wanderdesk/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestHandleMe(t *testing.T) {
	db := newTestDB(t)

	operator := models.Operator{
		DiscordID: "123456",
		Username:  "deskagent",
		Email:     "agent@example.com",
		Avatar:    "avatar_url",
	}
	db.Create(&operator)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("Cookie", func(t *testing.T) {
		token, _ := handler.GenerateToken(operator.ID)
		input := &AuthInput{
			Cookie: "theme=dark; auth_token=" + token,
		}
		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Username != operator.Username {
			t.Errorf("expected username %s, got %s", operator.Username, resp.Body.Username)
		}
		if resp.Body.Email != operator.Email {
			t.Errorf("expected email %s, got %s", operator.Email, resp.Body.Email)
		}
	})

	t.Run("APIKey", func(t *testing.T) {
		db.Create(&models.APIKey{OperatorID: operator.ID, KeyHash: HashAPIKey("plain-key"), Name: "console"})

		resp, err := handler.HandleMe(context.Background(), &AuthInput{APIKey: "plain-key"})
		if err != nil {
			t.Fatalf("HandleMe with API key returned error: %v", err)
		}
		if resp.Body.ID != operator.ID {
			t.Errorf("expected operator %d, got %d", operator.ID, resp.Body.ID)
		}

		var key models.APIKey
		db.Where("key_hash = ?", HashAPIKey("plain-key")).First(&key)
		if key.LastUsedAt == nil {
			t.Error("expected last_used_at to be recorded")
		}
	})

	t.Run("ExpiredAPIKey", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		db.Create(&models.APIKey{OperatorID: operator.ID, KeyHash: HashAPIKey("old-key"), ExpiresAt: &past})

		if _, err := handler.HandleMe(context.Background(), &AuthInput{APIKey: "old-key"}); err == nil {
			t.Fatal("expected error for expired API key")
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &AuthInput{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})

	t.Run("ForeignSecret", func(t *testing.T) {
		other := NewAuthHandler(&config.Config{JWTSecret: "other-secret"}, db)
		token, _ := other.GenerateToken(operator.ID)

		if _, err := handler.HandleMe(context.Background(), &AuthInput{Cookie: "auth_token=" + token}); err == nil {
			t.Fatal("expected error for token signed with another secret")
		}
	})
}
