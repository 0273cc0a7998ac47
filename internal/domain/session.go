package domain

import "time"

// UserProfile is the authenticated student's profile as assembled from the
// upstream basic profile call, optionally enriched with the course name
// from the secondary "meus-dados" call.
type UserProfile struct {
	ID           string `json:"id"`
	Name         string `json:"nome_usual"`
	FullName     string `json:"nome_registro"`
	Registration string `json:"matricula"`
	Email        string `json:"email"`
	PhotoURL     string `json:"foto"`
	Course       string `json:"curso,omitempty"`
}

// Session ties a bearer token obtained at the OAuth callback to the cached
// user profile. It lives only in the session store and is destroyed on
// logout or on any unrecoverable upstream failure during dashboard load.
type Session struct {
	ID          string      `json:"id"`
	AccessToken string      `json:"access_token"`
	Profile     UserProfile `json:"profile"`
	CreatedAt   time.Time   `json:"created_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// Validate checks the invariants a session must hold before storage.
func (s *Session) Validate() error {
	if s.ID == "" {
		return NewValidationError("INVALID_SESSION", "session ID cannot be empty", nil)
	}
	if s.AccessToken == "" {
		return NewValidationError("INVALID_SESSION", "session access token cannot be empty", nil)
	}
	if s.ExpiresAt.IsZero() {
		return NewValidationError("INVALID_SESSION", "session expiry cannot be zero", nil)
	}
	return nil
}

// IsExpired reports whether the session has outlived its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
