package attendance

import "github.com/chulcheck/chulcheck/models"

// nextStats computes the aggregate that results from recording a check-in on
// today, given the user's previous aggregate (nil on first-ever check-in).
//
// Continuity requires the last attendance to be exactly yesterday; any other
// prior date — a gap of two days or a year, or an inconsistent future date —
// resets the streak to 1. There is no partial credit and no grace period.
// The duplicate case (last attendance == today) never reaches this function:
// the event insert fails on the unique index first.
func nextStats(prev *models.UserStats, today Date) models.UserStats {
	next := models.UserStats{
		CurrentStreak: 1,
		MaxStreak:     1,
		TotalDays:     1,
	}

	if prev != nil {
		next.UserID = prev.UserID
		next.UserName = prev.UserName
		next.DisplayName = prev.DisplayName
		next.CreatedAt = prev.CreatedAt

		if prev.LastAttendanceDate != nil && DateOf(*prev.LastAttendanceDate) == today.Prev() {
			next.CurrentStreak = prev.CurrentStreak + 1
		}
		next.MaxStreak = next.CurrentStreak
		if prev.MaxStreak > next.MaxStreak {
			next.MaxStreak = prev.MaxStreak
		}
		next.TotalDays = prev.TotalDays + 1
	}

	last := today.Time()
	next.LastAttendanceDate = &last
	return next
}
