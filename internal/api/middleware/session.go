package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/repository"
)

const sessionContextKey = "portal_session"

// SessionMiddleware authenticates requests via the signed session cookie.
// The cookie carries only the session ID as an HS256 JWT; the bearer token
// and profile live in the session store.
type SessionMiddleware struct {
	sessions repository.SessionRepository
	cfg      config.SessionConfig
}

// NewSessionMiddleware creates a session middleware.
func NewSessionMiddleware(sessions repository.SessionRepository, cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cfg: cfg}
}

// RequireSession aborts with 401 unless the request carries a valid,
// unexpired session cookie pointing at a stored session.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(m.cfg.CookieName)
		if err != nil {
			abortUnauthenticated(c, "not authenticated")
			return
		}

		sessionID, err := m.parseCookie(cookie)
		if err != nil {
			abortUnauthenticated(c, "invalid session cookie")
			return
		}

		session, err := m.sessions.GetByID(c.Request.Context(), sessionID)
		if err != nil {
			abortUnauthenticated(c, "session expired or revoked")
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// IssueCookie signs a session cookie value for the given session.
func (m *SessionMiddleware) IssueCookie(session *domain.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   session.ID,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
	})
	signed, err := token.SignedString([]byte(m.cfg.SigningSecret))
	if err != nil {
		return "", domain.NewInternalError("COOKIE_SIGNING_FAILED", "could not sign session cookie", err)
	}
	return signed, nil
}

func (m *SessionMiddleware) parseCookie(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewAuthenticationError(domain.CodeSessionInvalid, "unexpected signing method")
		}
		return []byte(m.cfg.SigningSecret), nil
	})
	if err != nil || !token.Valid {
		return "", domain.NewAuthenticationError(domain.CodeSessionInvalid, "invalid session cookie")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.NewAuthenticationError(domain.CodeSessionInvalid, "session cookie missing subject")
	}
	return claims.Subject, nil
}

// GetSession extracts the authenticated session from a gin context.
func GetSession(c *gin.Context) (*domain.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"type":    string(domain.AuthenticationError),
			"code":    domain.CodeSessionInvalid,
			"message": message,
		},
	})
}
