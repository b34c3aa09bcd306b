package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chulcheck/chulcheck/models"
)

func statsWithLast(current, max, total int, last Date) *models.UserStats {
	lastT := last.Time()
	return &models.UserStats{
		UserID:             "u1",
		CurrentStreak:      current,
		MaxStreak:          max,
		TotalDays:          total,
		LastAttendanceDate: &lastT,
	}
}

func TestNextStats_FirstCheckIn(t *testing.T) {
	today := Date{2024, time.January, 1}
	next := nextStats(nil, today)

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.MaxStreak)
	assert.Equal(t, 1, next.TotalDays)
	require.NotNil(t, next.LastAttendanceDate)
	assert.Equal(t, today, DateOf(*next.LastAttendanceDate))
}

func TestNextStats_ConsecutiveDayExtendsStreak(t *testing.T) {
	today := Date{2024, time.January, 2}
	prev := statsWithLast(1, 1, 1, Date{2024, time.January, 1})

	next := nextStats(prev, today)

	assert.Equal(t, 2, next.CurrentStreak)
	assert.Equal(t, 2, next.MaxStreak)
	assert.Equal(t, 2, next.TotalDays)
}

func TestNextStats_GapResetsToOne(t *testing.T) {
	tests := []struct {
		name string
		last Date
	}{
		{"two day gap", Date{2024, time.January, 8}},
		{"one week gap", Date{2024, time.January, 3}},
		{"one year gap", Date{2023, time.January, 10}},
		{"inconsistent future date", Date{2024, time.February, 1}},
	}
	today := Date{2024, time.January, 10}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := statsWithLast(5, 5, 20, tt.last)
			next := nextStats(prev, today)

			assert.Equal(t, 1, next.CurrentStreak)
			assert.Equal(t, 5, next.MaxStreak, "max streak survives the reset")
			assert.Equal(t, 21, next.TotalDays)
		})
	}
}

func TestNextStats_MaxStreakFollowsNewRecord(t *testing.T) {
	today := Date{2024, time.January, 6}
	prev := statsWithLast(5, 5, 5, Date{2024, time.January, 5})

	next := nextStats(prev, today)

	assert.Equal(t, 6, next.CurrentStreak)
	assert.Equal(t, 6, next.MaxStreak)
}

func TestNextStats_NilLastDateResets(t *testing.T) {
	prev := &models.UserStats{UserID: "u1", CurrentStreak: 3, MaxStreak: 3, TotalDays: 3}
	next := nextStats(prev, Date{2024, time.January, 10})

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 4, next.TotalDays)
}

// TestNextStats_SequenceMatchesMaximalRun replays a date sequence and checks
// the streak always equals the length of the maximal run of consecutive
// dates ending at the last check-in, with max/total never decreasing.
func TestNextStats_SequenceMatchesMaximalRun(t *testing.T) {
	days := []int{1, 2, 3, 5, 6, 10, 11, 12, 13, 20}
	wantStreak := []int{1, 2, 3, 1, 2, 1, 2, 3, 4, 1}

	var prev *models.UserStats
	lastMax, lastTotal := 0, 0
	for i, day := range days {
		today := Date{2024, time.March, day}
		next := nextStats(prev, today)

		assert.Equal(t, wantStreak[i], next.CurrentStreak, "day %d", day)
		assert.GreaterOrEqual(t, next.MaxStreak, lastMax, "max streak must not decrease")
		assert.Greater(t, next.TotalDays, lastTotal, "total days must grow")
		assert.GreaterOrEqual(t, next.MaxStreak, next.CurrentStreak)

		lastMax, lastTotal = next.MaxStreak, next.TotalDays
		prev = &next
	}
	assert.Equal(t, 4, lastMax)
	assert.Equal(t, len(days), lastTotal)
}
