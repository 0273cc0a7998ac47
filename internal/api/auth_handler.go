package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/repository"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute
)

// OAuthClient is the slice of the SUAP client the auth flow needs.
type OAuthClient interface {
	AuthorizationURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
	UserProfile(ctx context.Context, token string) (*domain.UserProfile, error)
}

// CacheInvalidator drops everything a session cached. Satisfied by the
// dashboard service.
type CacheInvalidator interface {
	InvalidateSession(ctx context.Context, sessionID string)
}

// AuthHandler drives the OAuth2 authorization-code flow against SUAP and
// manages the resulting portal session.
type AuthHandler struct {
	client     OAuthClient
	sessions   repository.SessionRepository
	cache      CacheInvalidator
	sessionMW  *middleware.SessionMiddleware
	sessionCfg config.SessionConfig
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(
	client OAuthClient,
	sessions repository.SessionRepository,
	cache CacheInvalidator,
	sessionMW *middleware.SessionMiddleware,
	sessionCfg config.SessionConfig,
) *AuthHandler {
	return &AuthHandler{
		client:     client,
		sessions:   sessions,
		cache:      cache,
		sessionMW:  sessionMW,
		sessionCfg: sessionCfg,
	}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.GET("/login", h.Login)
		auth.GET("/callback", h.Callback)
		auth.POST("/logout", h.sessionMW.RequireSession(), h.Logout)
	}
}

// Login starts the OAuth2 flow: it stores an anti-forgery state token in a
// short-lived cookie and redirects the browser to the authorization URL.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		ErrorResponse(c, domain.NewInternalError("STATE_GENERATION_FAILED", "could not generate OAuth state", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, int(stateCookieTTL.Seconds()), "/auth",
		"", h.sessionCfg.CookieSecure, true)

	c.Redirect(http.StatusFound, h.client.AuthorizationURL(h.callbackURL(c), state))
}

// Callback finishes the OAuth2 flow: it validates the state token,
// exchanges the code for a bearer token, fetches the user profile, and
// creates the portal session.
func (h *AuthHandler) Callback(c *gin.Context) {
	if upstreamErr := c.Query("error"); upstreamErr != "" {
		ErrorResponse(c, domain.NewAuthenticationError("OAUTH_DENIED", "authorization was denied: "+upstreamErr))
		return
	}

	state := c.Query("state")
	storedState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != storedState {
		ErrorResponse(c, domain.NewAuthenticationError("OAUTH_STATE_MISMATCH", "invalid state parameter"))
		return
	}
	// One-shot: the state cookie is consumed either way.
	c.SetCookie(stateCookieName, "", -1, "/auth", "", h.sessionCfg.CookieSecure, true)

	token, err := h.client.ExchangeCode(c.Request.Context(), c.Query("code"), h.callbackURL(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	profile, err := h.client.UserProfile(c.Request.Context(), token)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.New().String(),
		AccessToken: token,
		Profile:     *profile,
		CreatedAt:   now,
		ExpiresAt:   now.Add(h.sessionCfg.TTL),
	}
	if err := h.sessions.Create(c.Request.Context(), session); err != nil {
		ErrorResponse(c, err)
		return
	}

	cookie, err := h.sessionMW.IssueCookie(session)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCfg.CookieName, cookie, int(h.sessionCfg.TTL.Seconds()), "/",
		"", h.sessionCfg.CookieSecure, true)
	c.Redirect(http.StatusFound, "/api/dashboard")
}

// Logout destroys the session, drops its cached data, and clears the
// session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		ErrorResponse(c, domain.NewAuthenticationError(domain.CodeSessionInvalid, "not authenticated"))
		return
	}

	if err := h.sessions.DeleteByID(c.Request.Context(), session.ID); err != nil {
		ErrorResponse(c, err)
		return
	}
	h.cache.InvalidateSession(c.Request.Context(), session.ID)

	c.SetCookie(h.sessionCfg.CookieName, "", -1, "/", "", h.sessionCfg.CookieSecure, true)
	SuccessResponse(c, gin.H{"logged_out": true})
}

func (h *AuthHandler) callbackURL(c *gin.Context) string {
	scheme := "https"
	if c.Request.TLS == nil && !h.sessionCfg.CookieSecure {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host + "/auth/callback"
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
