package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chulcheck/chulcheck/models"
)

// Ledger is the storage boundary of the attendance core. RecordCheckIn is
// the only mutating operation; everything else is a consistent read.
type Ledger interface {
	HasEvent(ctx context.Context, userID string, day Date) (bool, error)
	RecordCheckIn(ctx context.Context, member Member, day Date) (bool, models.UserStats, error)
	Stats(ctx context.Context, userID string) (models.UserStats, bool, error)
	DatesInRange(ctx context.Context, userID string, from, to Date) ([]Date, error)
	ServerStats(ctx context.Context, asOf Date) (ServerStats, error)
	TopN(ctx context.Context, metric Metric, limit int) ([]LeaderboardEntry, error)
}

// LedgerStore implements Ledger on a gorm MySQL handle. The handle is owned
// by the caller; the store never opens or closes connections itself.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore { return &LedgerStore{db: db} }

// HasEvent reports whether an event exists for the user on the given day.
func (s *LedgerStore) HasEvent(ctx context.Context, userID string, day Date) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.AttendanceEvent{}).
		Where("user_id = ? AND attendance_date = ?", userID, day.Time()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check event existence: %w", err)
	}
	return count > 0, nil
}

// RecordCheckIn records the event and updates the aggregate in one
// transaction. The stats row is locked FOR UPDATE before the streak is
// computed, so concurrent check-ins for the same user serialize; a second
// check-in for the same date loses on the unique event index and comes back
// accepted=false with the stored stats untouched. The aggregate is written
// only after the event insert succeeds, inside the same transaction, so the
// two can never diverge.
func (s *LedgerStore) RecordCheckIn(ctx context.Context, member Member, day Date) (bool, models.UserStats, error) {
	var out models.UserStats

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev models.UserStats
		var prevPtr *models.UserStats
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", member.ID).
			First(&prev).Error
		switch {
		case err == nil:
			prevPtr = &prev
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first-ever check-in
		default:
			return err
		}

		event := models.AttendanceEvent{UserID: member.ID, AttendanceDate: day.Time()}
		if err := tx.Create(&event).Error; err != nil {
			if isDuplicateKey(err) {
				return errDuplicateCheckIn
			}
			return err
		}

		next := nextStats(prevPtr, day)
		next.UserID = member.ID
		next.UserName = member.UserName
		if member.DisplayName != "" {
			next.DisplayName = member.DisplayName
		}

		if prevPtr == nil {
			if err := tx.Create(&next).Error; err != nil {
				return err
			}
		} else if err := tx.Model(&models.UserStats{}).
			Where("user_id = ?", member.ID).
			Updates(map[string]any{
				"user_name":            next.UserName,
				"display_name":         next.DisplayName,
				"current_streak":       next.CurrentStreak,
				"max_streak":           next.MaxStreak,
				"total_days":           next.TotalDays,
				"last_attendance_date": next.LastAttendanceDate,
			}).Error; err != nil {
			return err
		}

		out = next
		return nil
	})

	if errors.Is(err, errDuplicateCheckIn) {
		stats, _, statsErr := s.Stats(ctx, member.ID)
		if statsErr != nil {
			return false, models.UserStats{}, statsErr
		}
		return false, stats, nil
	}
	if err != nil {
		return false, models.UserStats{}, fmt.Errorf("record check-in: %w", err)
	}
	return true, out, nil
}

// Stats is a point read of the user's aggregate. Absence is not an error.
func (s *LedgerStore) Stats(ctx context.Context, userID string) (models.UserStats, bool, error) {
	var stats models.UserStats
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserStats{}, false, nil
	}
	if err != nil {
		return models.UserStats{}, false, fmt.Errorf("load user stats: %w", err)
	}
	return stats, true, nil
}

// DatesInRange returns the user's attendance dates in [from, to], ascending.
// The result is a one-shot snapshot, not a restartable cursor.
func (s *LedgerStore) DatesInRange(ctx context.Context, userID string, from, to Date) ([]Date, error) {
	var raw []time.Time
	err := s.db.WithContext(ctx).
		Model(&models.AttendanceEvent{}).
		Where("user_id = ? AND attendance_date BETWEEN ? AND ?", userID, from.Time(), to.Time()).
		Order("attendance_date ASC").
		Pluck("attendance_date", &raw).Error
	if err != nil {
		return nil, fmt.Errorf("load attendance dates: %w", err)
	}
	dates := make([]Date, 0, len(raw))
	for _, t := range raw {
		dates = append(dates, DateOf(t))
	}
	return dates, nil
}

// ServerStats reads today's distinct check-in count, the registered user
// count, and the current max-streak holder inside one transaction so the
// numbers describe a single snapshot.
func (s *LedgerStore) ServerStats(ctx context.Context, asOf Date) (ServerStats, error) {
	var out ServerStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var todayCount int64
		if err := tx.Model(&models.AttendanceEvent{}).
			Where("attendance_date = ?", asOf.Time()).
			Distinct("user_id").
			Count(&todayCount).Error; err != nil {
			return err
		}
		var totalUsers int64
		if err := tx.Model(&models.UserStats{}).Count(&totalUsers).Error; err != nil {
			return err
		}
		out.TodayCount = int(todayCount)
		out.TotalUsers = int(totalUsers)

		var top models.UserStats
		err := tx.Order("max_streak DESC, total_days DESC, created_at ASC, user_id ASC").
			First(&top).Error
		switch {
		case err == nil:
			out.TopStreak = &LeaderboardEntry{
				UserID:      top.UserID,
				UserName:    top.UserName,
				DisplayName: top.DisplayName,
				Value:       top.MaxStreak,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no users yet
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return ServerStats{}, fmt.Errorf("load server stats: %w", err)
	}
	return out, nil
}

// TopN returns the leaderboard for the metric. Ties break by total_days
// descending, then aggregate-row insertion order (created_at, then user_id as
// the final deterministic key).
func (s *LedgerStore) TopN(ctx context.Context, metric Metric, limit int) ([]LeaderboardEntry, error) {
	col, ok := metric.column()
	if !ok {
		return nil, ErrInvalidMetric
	}
	var rows []models.UserStats
	err := s.db.WithContext(ctx).
		Order(fmt.Sprintf("%s DESC, total_days DESC, created_at ASC, user_id ASC", col)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load %s leaderboard: %w", metric, err)
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:      r.UserID,
			UserName:    r.UserName,
			DisplayName: r.DisplayName,
			Value:       metricValue(r, metric),
		})
	}
	return entries, nil
}

func metricValue(s models.UserStats, m Metric) int {
	switch m {
	case MetricCurrentStreak:
		return s.CurrentStreak
	case MetricMaxStreak:
		return s.MaxStreak
	default:
		return s.TotalDays
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var my *mysqldrv.MySQLError
	return errors.As(err, &my) && my.Number == 1062
}
