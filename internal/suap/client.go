// Package suap wraps outbound calls to the SUAP academic API: the OAuth2
// authorization-code exchange, authenticated GETs with a shared retry
// policy, and the two-endpoint academic-period discovery fallback.
//
// The client holds no per-user state. Bearer tokens are passed per call, so
// a single instance is safe for concurrent requests from different users.
package suap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/domain"
)

// Retry policy for every upstream call: up to 3 attempts, a 10-second
// per-attempt timeout, and a fixed 1-second delay between attempts.
// Transport errors and 5xx responses are retried; 4xx responses are not.
const (
	maxAttempts    = 3
	attemptTimeout = 10 * time.Second
	retryBackoff   = 1 * time.Second
)

// Client is the SUAP API client.
type Client struct {
	oauth      *oauth2.Config
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a SUAP client from the configured credentials.
func NewClient(cfg config.SUAPConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Endpoint paths under the API base URL.
func (c *Client) userDataURL() string      { return c.apiURL + "rh/eu/" }
func (c *Client) extraUserDataURL() string { return c.apiURL + "v2/minhas-informacoes/meus-dados/" }
func (c *Client) periodsV2URL() string {
	return c.apiURL + "v2/minhas-informacoes/meus-periodos-letivos/"
}
func (c *Client) periodsLegacyURL() string { return c.apiURL + "edu/periodos/" }
func (c *Client) gradesURL(p domain.AcademicPeriod) string {
	return fmt.Sprintf("%sv2/minhas-informacoes/boletim/%s/%s/", c.apiURL, p.Year, p.Term)
}
func (c *Client) studentURL(registration string) string {
	return fmt.Sprintf("%sedu/alunos/%s/", c.apiURL, registration)
}
func (c *Client) diariesURL(semester string) string {
	return fmt.Sprintf("%sv2/minhas-informacoes/meus-diarios/%s/", c.apiURL, semester)
}

// AuthorizationURL composes the browser redirect target for the OAuth2
// authorization-code flow. Pure function, no I/O. The state parameter is
// omitted when empty.
func (c *Client) AuthorizationURL(redirectURI, state string) string {
	cfg := *c.oauth
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a bearer token. The token
// endpoint is subject to the same retry policy as every other call.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	cfg := *c.oauth
	cfg.RedirectURL = redirectURI

	var accessToken string
	err := c.withRetry(ctx, "token exchange", func(attemptCtx context.Context) error {
		attemptCtx = context.WithValue(attemptCtx, oauth2.HTTPClient, c.httpClient)
		tok, err := cfg.Exchange(attemptCtx, code)
		if err != nil {
			var re *oauth2.RetrieveError
			if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
				return domain.NewExternalServiceError(domain.CodeUpstreamRejected,
					fmt.Sprintf("token endpoint rejected the exchange with status %d", re.Response.StatusCode), err)
			}
			return domain.NewExternalServiceError(domain.CodeUpstreamUnavailable,
				"token endpoint unreachable", err)
		}
		accessToken = tok.AccessToken
		return nil
	})
	if err != nil {
		de, ok := err.(*domain.DomainError)
		if !ok || de.Code != domain.CodeUpstreamRejected {
			return "", domain.NewExternalServiceError(domain.CodeTokenExchange,
				"could not obtain an access token", err)
		}
		return "", err
	}
	return accessToken, nil
}

// AcademicPeriods lists the student's academic periods, newest first. The
// v2 endpoint is tried first; on failure or an empty result the legacy
// endpoint is consulted. Only total failure of both endpoints is an error.
func (c *Client) AcademicPeriods(ctx context.Context, token string) ([]domain.AcademicPeriod, error) {
	periods, err := c.fetchPeriods(ctx, c.periodsV2URL(), token)
	if err == nil && len(periods) > 0 {
		return periods, nil
	}
	if err != nil {
		c.logger.Warn("primary periods endpoint failed, falling back to legacy",
			"error", err.Error())
	}

	periods, err = c.fetchPeriods(ctx, c.periodsLegacyURL(), token)
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (c *Client) fetchPeriods(ctx context.Context, url, token string) ([]domain.AcademicPeriod, error) {
	var raw []map[string]interface{}
	if err := c.getJSON(ctx, url, token, &raw); err != nil {
		return nil, err
	}
	periods := make([]domain.AcademicPeriod, 0, len(raw))
	for _, m := range raw {
		periods = append(periods, domain.UnmarshalPeriod(m))
	}
	return periods, nil
}

// UserGrades fetches the authenticated student's boletim for the given
// period. When the period is zero the most recent period reported by
// AcademicPeriods is used; without any resolvable period the result is the
// NO_PERIODS empty state.
func (c *Client) UserGrades(ctx context.Context, token string, period domain.AcademicPeriod) ([]domain.RawSubjectRecord, error) {
	if period.IsZero() {
		periods, err := c.AcademicPeriods(ctx, token)
		if err != nil {
			return nil, err
		}
		if len(periods) == 0 {
			return nil, domain.NewNotFoundError(domain.CodeNoPeriods,
				"no academic periods available to resolve a default selection")
		}
		period = periods[0]
	}

	var records []domain.RawSubjectRecord
	if err := c.getJSON(ctx, c.gradesURL(period), token, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UserProfile combines the basic profile with the secondary "meus-dados"
// call. The secondary call is best effort: only the basic call's failure
// is fatal, and the course name is merged in when the nested course link
// is present.
func (c *Client) UserProfile(ctx context.Context, token string) (*domain.UserProfile, error) {
	var raw map[string]interface{}
	if err := c.getJSON(ctx, c.userDataURL(), token, &raw); err != nil {
		return nil, err
	}

	profile := profileFromRaw(raw)

	var extra map[string]interface{}
	if err := c.getJSON(ctx, c.extraUserDataURL(), token, &extra); err != nil {
		c.logger.Warn("extra profile data unavailable", "error", err.Error())
		return profile, nil
	}
	if vinculo, ok := extra["vinculo"].(map[string]interface{}); ok {
		if curso, ok := vinculo["curso"].(string); ok {
			profile.Course = curso
		}
	}
	return profile, nil
}

// StudentRecord fetches a student's registration record (staff use case).
func (c *Client) StudentRecord(ctx context.Context, registration, token string) (domain.RawSubjectRecord, error) {
	var record domain.RawSubjectRecord
	if err := c.getJSON(ctx, c.studentURL(registration), token, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// StudentGrades fetches a student's boletim by registration (staff use case).
func (c *Client) StudentGrades(ctx context.Context, registration, token string) ([]domain.RawSubjectRecord, error) {
	var records []domain.RawSubjectRecord
	if err := c.getJSON(ctx, c.studentURL(registration)+"boletim/", token, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Diaries fetches the class-diary list for a "<year>/<term>" semester.
func (c *Client) Diaries(ctx context.Context, token, semester string) ([]map[string]interface{}, error) {
	var diaries []map[string]interface{}
	if err := c.getJSON(ctx, c.diariesURL(semester), token, &diaries); err != nil {
		return nil, err
	}
	return diaries, nil
}

// getJSON issues an authenticated GET under the shared retry policy and
// decodes the response body into dest.
func (c *Client) getJSON(ctx context.Context, url, token string, dest interface{}) error {
	return c.withRetry(ctx, url, func(attemptCtx context.Context) error {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			return domain.NewInternalError("REQUEST_BUILD_FAILED", "could not build upstream request", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.NewExternalServiceError(domain.CodeUpstreamUnavailable,
				fmt.Sprintf("GET %s failed", url), err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
				return domain.NewExternalServiceError(domain.CodeUpstreamUnavailable,
					fmt.Sprintf("GET %s returned an undecodable body", url), err)
			}
			return nil
		case resp.StatusCode >= 500:
			return domain.NewExternalServiceError(domain.CodeUpstreamUnavailable,
				fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode), nil)
		default:
			return domain.NewExternalServiceError(domain.CodeUpstreamRejected,
				fmt.Sprintf("GET %s returned status %d", url, resp.StatusCode), nil)
		}
	})
}

// withRetry runs fn under the retry policy. Rejected (4xx) failures and
// internal errors stop the loop immediately; the backoff wait is
// context-aware so a canceled request abandons the remaining attempts.
func (c *Client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if de, ok := err.(*domain.DomainError); ok && de.Code != domain.CodeUpstreamUnavailable {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		c.logger.Warn("upstream call failed, retrying",
			"operation", op,
			"attempt", attempt,
			"error", err.Error(),
		)

		timer := time.NewTimer(retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.NewExternalServiceError(domain.CodeUpstreamUnavailable,
				fmt.Sprintf("%s canceled while waiting to retry", op), ctx.Err())
		case <-timer.C:
		}
	}
	return lastErr
}

func profileFromRaw(raw map[string]interface{}) *domain.UserProfile {
	str := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := raw[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return &domain.UserProfile{
		ID:           str("id", "matricula"),
		Name:         str("nome_usual", "nome"),
		FullName:     str("nome_registro", "nome"),
		Registration: str("matricula"),
		Email:        str("email"),
		PhotoURL:     str("url_foto_75x100", "foto"),
	}
}
