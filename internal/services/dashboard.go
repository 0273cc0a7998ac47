package services

import (
	"context"
	"log/slog"

	"github.com/ifportal/portal-estudante/internal/domain"
)

// Upstream is the slice of the SUAP client the dashboard assembly needs.
type Upstream interface {
	AcademicPeriods(ctx context.Context, token string) ([]domain.AcademicPeriod, error)
	UserGrades(ctx context.Context, token string, period domain.AcademicPeriod) ([]domain.RawSubjectRecord, error)
	Diaries(ctx context.Context, token, semester string) ([]map[string]interface{}, error)
	StudentRecord(ctx context.Context, registration, token string) (domain.RawSubjectRecord, error)
	StudentGrades(ctx context.Context, registration, token string) ([]domain.RawSubjectRecord, error)
}

// DashboardData is everything one dashboard render needs, recomputed from
// upstream data on every request (or served from the session cache).
type DashboardData struct {
	Profile  domain.UserProfile       `json:"user_data"`
	Periods  []domain.AcademicPeriod  `json:"periods"`
	Selected domain.AcademicPeriod    `json:"selected"`
	Subjects []domain.SubjectReport   `json:"grades"`
	Diaries  []map[string]interface{} `json:"disciplines"`
	Totals   domain.PeriodTotals      `json:"totals"`
	Summary  domain.PeriodSummary     `json:"summary"`
	Empty    bool                     `json:"empty"`
}

// StudentInfo is the staff-facing view of one student by registration.
type StudentInfo struct {
	Student domain.RawSubjectRecord `json:"student"`
	Grades  []domain.SubjectReport  `json:"grades"`
	Summary domain.PeriodSummary    `json:"summary"`
}

// DashboardService assembles dashboard, report, and student-lookup data
// from the upstream client, the classifier policy, and the session cache.
type DashboardService struct {
	upstream Upstream
	cache    CacheManager
	classify ClassifyFunc
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(upstream Upstream, cache CacheManager, classify ClassifyFunc, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		upstream: upstream,
		cache:    cache,
		classify: classify,
		logger:   logger,
	}
}

// Assemble builds the dashboard for a session. Upstream failures propagate
// to the caller, which invalidates the session; an empty period list is not
// a failure and yields Empty data instead.
func (s *DashboardService) Assemble(
	ctx context.Context,
	session *domain.Session,
	requestedYear, requestedTerm string,
) (*DashboardData, error) {
	periods, err := s.periods(ctx, session)
	if err != nil {
		return nil, err
	}

	selected, ok := ResolvePeriod(periods, requestedYear, requestedTerm)
	if !ok {
		return &DashboardData{
			Profile: session.Profile,
			Periods: periods,
			Empty:   true,
		}, nil
	}

	key := CacheKey{Kind: KindDashboard, SessionID: session.ID, Period: selected}
	var cached DashboardData
	if err := s.cache.Fetch(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	records, err := s.upstream.UserGrades(ctx, session.AccessToken, selected)
	if err != nil {
		if domain.IsNoPeriods(err) {
			return &DashboardData{Profile: session.Profile, Periods: periods, Empty: true}, nil
		}
		return nil, err
	}

	diaries, err := s.upstream.Diaries(ctx, session.AccessToken, selected.Semester())
	if err != nil {
		return nil, err
	}

	subjects := BuildReportRows(records, s.classify)
	data := &DashboardData{
		Profile:  session.Profile,
		Periods:  periods,
		Selected: selected,
		Subjects: subjects,
		Diaries:  diaries,
		Totals:   AggregateTotals(subjects),
		Summary:  AggregateSummary(subjects),
	}

	_ = s.cache.Put(ctx, key, data)
	return data, nil
}

// Report builds the report rows for an explicitly selected period.
func (s *DashboardService) Report(
	ctx context.Context,
	session *domain.Session,
	period domain.AcademicPeriod,
) ([]domain.SubjectReport, error) {
	key := CacheKey{Kind: KindReport, SessionID: session.ID, Period: period}
	var cached []domain.SubjectReport
	if err := s.cache.Fetch(ctx, key, &cached); err == nil {
		return cached, nil
	}

	records, err := s.upstream.UserGrades(ctx, session.AccessToken, period)
	if err != nil {
		return nil, err
	}

	rows := BuildReportRows(records, s.classify)
	_ = s.cache.Put(ctx, key, rows)
	return rows, nil
}

// LookupStudent combines a student's record and boletim for the staff use
// case. Both calls are fatal on failure.
func (s *DashboardService) LookupStudent(
	ctx context.Context,
	session *domain.Session,
	registration string,
) (*StudentInfo, error) {
	record, err := s.upstream.StudentRecord(ctx, registration, session.AccessToken)
	if err != nil {
		return nil, err
	}

	records, err := s.upstream.StudentGrades(ctx, registration, session.AccessToken)
	if err != nil {
		return nil, err
	}

	grades := BuildReportRows(records, s.classify)
	return &StudentInfo{
		Student: record,
		Grades:  grades,
		Summary: AggregateSummary(grades),
	}, nil
}

// InvalidateSession drops everything the session cached.
func (s *DashboardService) InvalidateSession(ctx context.Context, sessionID string) {
	if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
		s.logger.Warn("session cache invalidation failed",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}
}

func (s *DashboardService) periods(ctx context.Context, session *domain.Session) ([]domain.AcademicPeriod, error) {
	key := CacheKey{Kind: KindPeriods, SessionID: session.ID}
	var cached []domain.AcademicPeriod
	if err := s.cache.Fetch(ctx, key, &cached); err == nil {
		return cached, nil
	}

	periods, err := s.upstream.AcademicPeriods(ctx, session.AccessToken)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Put(ctx, key, periods)
	return periods, nil
}
