package attendance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chulcheck/chulcheck/models"
)

const (
	// DefaultLeaderboardLimit matches the rankings the bot historically showed.
	DefaultLeaderboardLimit = 5
	// MaxLeaderboardLimit caps a single leaderboard read.
	MaxLeaderboardLimit = 50
)

// Metric selects the user_stats column a leaderboard ranks by.
type Metric string

const (
	MetricCurrentStreak Metric = "current_streak"
	MetricMaxStreak     Metric = "max_streak"
	MetricTotalDays     Metric = "total_days"
)

// column maps the metric to its whitelisted ORDER BY column. Only values from
// this switch ever reach SQL.
func (m Metric) column() (string, bool) {
	switch m {
	case MetricCurrentStreak, MetricMaxStreak, MetricTotalDays:
		return string(m), true
	}
	return "", false
}

// ParseMetric validates a metric name from the adapter.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := m.column(); !ok {
		return "", ErrInvalidMetric
	}
	return m, nil
}

// Member identifies the user checking in. Names are informational and are
// refreshed on every successful check-in; only ID participates in invariants.
type Member struct {
	ID          string
	UserName    string
	DisplayName string
}

// CheckInResult is the outcome of a check-in attempt. Accepted=false means
// the user already had an event for that date; Stats then reflects the
// unchanged stored aggregate.
type CheckInResult struct {
	Accepted bool             `json:"accepted"`
	Stats    models.UserStats `json:"stats"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	DisplayName string `json:"display_name,omitempty"`
	Value       int    `json:"value"`
}

// ServerStats is the community-wide summary as of a single civil date.
type ServerStats struct {
	TodayCount int               `json:"today_count"`
	TotalUsers int               `json:"total_users"`
	TopStreak  *LeaderboardEntry `json:"top_streak,omitempty"`
}

// Service is the narrow surface the command adapter consumes. It validates
// input before any storage access and otherwise delegates to the Ledger; it
// never produces user-facing text.
type Service struct {
	ledger Ledger
	log    *zap.SugaredLogger
}

func NewService(ledger Ledger, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{ledger: ledger, log: log}
}

// CheckIn records an attendance event for today and returns the updated
// aggregate. Calling it twice for the same date is safe: the second call
// returns Accepted=false and leaves stored state untouched.
func (s *Service) CheckIn(ctx context.Context, member Member, today Date) (CheckInResult, error) {
	if member.ID == "" {
		return CheckInResult{}, ErrEmptyUserID
	}
	if today.IsZero() {
		return CheckInResult{}, ErrInvalidDate
	}
	if member.UserName == "" {
		member.UserName = member.ID
	}

	// Fast path for the common duplicate: skip the write transaction
	// entirely. A race that slips past this check still loses on the unique
	// event index inside RecordCheckIn.
	already, err := s.ledger.HasEvent(ctx, member.ID, today)
	if err != nil {
		return CheckInResult{}, err
	}
	if already {
		stats, _, err := s.ledger.Stats(ctx, member.ID)
		if err != nil {
			return CheckInResult{}, err
		}
		s.log.Debugw("duplicate check-in ignored", "user_id", member.ID, "date", today.String())
		return CheckInResult{Accepted: false, Stats: stats}, nil
	}

	accepted, stats, err := s.ledger.RecordCheckIn(ctx, member, today)
	if err != nil {
		return CheckInResult{}, err
	}
	if accepted {
		s.log.Infow("check-in recorded",
			"user_id", member.ID, "date", today.String(),
			"streak", stats.CurrentStreak, "total_days", stats.TotalDays)
	} else {
		s.log.Debugw("duplicate check-in ignored", "user_id", member.ID, "date", today.String())
	}
	return CheckInResult{Accepted: accepted, Stats: stats}, nil
}

// GetStats returns the user's aggregate. found=false means no history.
func (s *Service) GetStats(ctx context.Context, userID string) (models.UserStats, bool, error) {
	if userID == "" {
		return models.UserStats{}, false, ErrEmptyUserID
	}
	return s.ledger.Stats(ctx, userID)
}

// GetMonthlyDays returns the user's attendance dates within the calendar
// month, ascending.
func (s *Service) GetMonthlyDays(ctx context.Context, userID string, year int, month time.Month) ([]Date, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}
	first, last := MonthRange(year, month)
	return s.ledger.DatesInRange(ctx, userID, first, last)
}

// GetServerStats returns the community summary as of the given date.
func (s *Service) GetServerStats(ctx context.Context, asOf Date) (ServerStats, error) {
	if asOf.IsZero() {
		return ServerStats{}, ErrInvalidDate
	}
	return s.ledger.ServerStats(ctx, asOf)
}

// GetLeaderboard returns up to limit ranked entries for the metric.
func (s *Service) GetLeaderboard(ctx context.Context, metric Metric, limit int) ([]LeaderboardEntry, error) {
	if _, ok := metric.column(); !ok {
		return nil, ErrInvalidMetric
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	return s.ledger.TopN(ctx, metric, limit)
}
