package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wanderdesk/booking-api/internal/config"
	"github.com/wanderdesk/booking-api/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"

	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour

	StateCookieName = "oauth_state"
	stateDuration   = 10 * time.Minute
)

// AuthHandler signs operators in through Discord and authorizes admin
// requests by session cookie or API key.
type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:  db,
		cfg: cfg,
	}
}

// loginConfigured reports whether operator login can be restricted to the
// agency guild. Login stays closed without one.
func (h *AuthHandler) loginConfigured() bool {
	return h.cfg.DiscordGuildID != ""
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.loginConfigured() {
		log.Printf("Operator login refused: DISCORD_GUILD_ID is not set")
		http.Error(w, "Operator login is not configured", http.StatusServiceUnavailable)
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth/discord",
		MaxAge:   int(stateDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.loginConfigured() {
		http.Error(w, "Operator login is not configured", http.StatusServiceUnavailable)
		return
	}

	stateCookie, err := r.Cookie(StateCookieName)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
		http.Error(w, "Invalid login state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: StateCookieName, Path: "/auth/discord", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)

	// Only members of the agency guild may operate the admin panel.
	isMember, err := h.isGuildMember(client)
	if err != nil {
		log.Printf("Failed to check guild membership: %v", err)
		http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
		return
	}
	if !isMember {
		http.Error(w, "Access denied: You are not a member of the operators guild.", http.StatusForbidden)
		return
	}

	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var operator models.Operator
	if err := h.db.FirstOrInit(&operator, models.Operator{DiscordID: discordUser.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	operator.Username = discordUser.Username
	operator.Email = discordUser.Email
	operator.Avatar = discordUser.Avatar

	if err := h.db.Save(&operator).Error; err != nil {
		http.Error(w, "Failed to save operator", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(operator.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(jwtToken))
	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) isGuildMember(client *http.Client) (bool, error) {
	resp, err := client.Get(DiscordUserGuildsAPI)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var guilds []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&guilds); err != nil {
		return false, err
	}

	for _, g := range guilds {
		if g.ID == h.cfg.DiscordGuildID {
			return true, nil
		}
	}
	return false, nil
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) GenerateToken(operatorID uint) (string, error) {
	claims := jwt.MapClaims{
		"operator_id": operatorID,
		"exp":         time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// AuthInput is embedded in every operator-only huma input.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie (auth_token)"`
	APIKey string `header:"X-API-KEY" doc:"Operator API key"`
}

// Authorize resolves the calling operator from an API key or the session
// cookie.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, error) {
	if id, ok := ctx.Value(OperatorIDKey).(uint); ok && id != 0 {
		return id, nil
	}

	if input.APIKey != "" {
		id, err := h.operatorFromAPIKey(ctx, input.APIKey)
		if err != nil {
			return 0, huma.Error401Unauthorized("Unauthorized: " + err.Error())
		}
		return id, nil
	}

	cookies, err := http.ParseCookie(input.Cookie)
	if err != nil || input.Cookie == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}
	for _, c := range cookies {
		if c.Name != CookieName {
			continue
		}
		id, _, err := h.parseToken(c.Value)
		if err != nil {
			return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
		}
		return id, nil
	}
	return 0, huma.Error401Unauthorized("Unauthorized: No token found")
}

var (
	errUnknownAPIKey = errors.New("unknown API key")
	errExpiredAPIKey = errors.New("API key expired")
)

func (h *AuthHandler) operatorFromAPIKey(ctx context.Context, key string) (uint, error) {
	if h.db == nil {
		return 0, errUnknownAPIKey
	}

	var keyModel models.APIKey
	if err := h.db.WithContext(ctx).Where("key_hash = ?", HashAPIKey(key)).First(&keyModel).Error; err != nil {
		return 0, errUnknownAPIKey
	}
	if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
		return 0, errExpiredAPIKey
	}

	h.db.WithContext(ctx).Model(&keyModel).Update("last_used_at", time.Now())
	return keyModel.OperatorID, nil
}

// HashAPIKey is the stored form of an API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

type MeResponse struct {
	Body struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeResponse, error) {
	operatorID, err := h.Authorize(ctx, *input)
	if err != nil {
		return nil, err
	}

	var operator models.Operator
	if err := h.db.WithContext(ctx).First(&operator, operatorID).Error; err != nil {
		return nil, huma.Error404NotFound("Operator not found")
	}

	res := &MeResponse{}
	res.Body.ID = operator.ID
	res.Body.Username = operator.Username
	res.Body.Email = operator.Email
	res.Body.Avatar = operator.Avatar
	return res, nil
}
