package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ifportal/portal-estudante/internal/api"
	"github.com/ifportal/portal-estudante/internal/api/middleware"
	"github.com/ifportal/portal-estudante/internal/config"
	"github.com/ifportal/portal-estudante/internal/domain"
	"github.com/ifportal/portal-estudante/internal/repository"
	"github.com/ifportal/portal-estudante/internal/services"
	"github.com/ifportal/portal-estudante/internal/testutil"
)

// stubOAuth satisfies api.OAuthClient with canned responses.
type stubOAuth struct {
	token       string
	exchangeErr error
	profile     *domain.UserProfile
	profileErr  error
}

func (s *stubOAuth) AuthorizationURL(redirectURI, state string) string {
	return "https://suap.example/o/authorize/?redirect_uri=" + redirectURI + "&state=" + state
}

func (s *stubOAuth) ExchangeCode(_ context.Context, _, _ string) (string, error) {
	return s.token, s.exchangeErr
}

func (s *stubOAuth) UserProfile(_ context.Context, _ string) (*domain.UserProfile, error) {
	return s.profile, s.profileErr
}

// stubUpstream satisfies services.Upstream with canned responses.
type stubUpstream struct {
	periods    []domain.AcademicPeriod
	periodsErr error
	grades     []domain.RawSubjectRecord
	gradesErr  error
	diaries    []map[string]interface{}
	record     domain.RawSubjectRecord
	recordErr  error
}

func (s *stubUpstream) AcademicPeriods(_ context.Context, _ string) ([]domain.AcademicPeriod, error) {
	return s.periods, s.periodsErr
}

func (s *stubUpstream) UserGrades(_ context.Context, _ string, _ domain.AcademicPeriod) ([]domain.RawSubjectRecord, error) {
	return s.grades, s.gradesErr
}

func (s *stubUpstream) Diaries(_ context.Context, _, _ string) ([]map[string]interface{}, error) {
	return s.diaries, nil
}

func (s *stubUpstream) StudentRecord(_ context.Context, _, _ string) (domain.RawSubjectRecord, error) {
	return s.record, s.recordErr
}

func (s *stubUpstream) StudentGrades(_ context.Context, _, _ string) ([]domain.RawSubjectRecord, error) {
	return s.grades, s.gradesErr
}

// fixture wires the handlers against in-memory backends and stubbed
// upstreams the way the router does in production.
type fixture struct {
	t          *testing.T
	router     *gin.Engine
	helper     *testutil.HTTPTestHelper
	sessions   repository.SessionRepository
	sessionMW  *middleware.SessionMiddleware
	sessionCfg config.SessionConfig
	oauth      *stubOAuth
	upstream   *stubUpstream
	dashboards *services.DashboardService
}

func newFixture(t *testing.T) *fixture {
	sessionCfg := config.SessionConfig{
		TTL:           time.Hour,
		SigningSecret: "0123456789abcdef0123456789abcdef",
		CookieName:    "portal_session",
		CookieSecure:  false,
	}

	sessions := repository.NewMemorySessionRepository()
	sessionMW := middleware.NewSessionMiddleware(sessions, sessionCfg)
	cache := services.NewCacheManager(services.NewMemoryCacheBackend(), sessionCfg.TTL, nil)

	oauth := &stubOAuth{
		token:   "upstream-token",
		profile: &domain.UserProfile{Name: "Maria Silva", Registration: "20240012345"},
	}
	upstream := &stubUpstream{}
	dashboards := services.NewDashboardService(
		upstream, cache, services.NewClassifier(services.PolicyExtended), nil)

	router := testutil.NewTestRouter()
	api.NewAuthHandler(oauth, sessions, dashboards, sessionMW, sessionCfg).RegisterRoutes(router)
	api.NewDashboardHandler(dashboards, sessions, sessionMW, sessionCfg).RegisterRoutes(router)
	api.NewReportHandler(dashboards, sessionMW).RegisterRoutes(router)
	api.NewStudentHandler(dashboards, sessionMW).RegisterRoutes(router)
	api.NewHealthHandler("development").RegisterRoutes(router)

	return &fixture{
		t:          t,
		router:     router,
		helper:     testutil.NewHTTPTestHelper(t, router),
		sessions:   sessions,
		sessionMW:  sessionMW,
		sessionCfg: sessionCfg,
		oauth:      oauth,
		upstream:   upstream,
		dashboards: dashboards,
	}
}

// signIn stores a session and returns the Cookie header that authenticates
// requests as it.
func (f *fixture) signIn(sessionID string) map[string]string {
	f.t.Helper()
	session := testutil.MockSession(sessionID, "upstream-token")
	require.NoError(f.t, f.sessions.Create(context.Background(), session))

	cookie, err := f.sessionMW.IssueCookie(session)
	require.NoError(f.t, err)
	return map[string]string{"Cookie": f.sessionCfg.CookieName + "=" + cookie}
}
