package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 31}, d)
		assert.Equal(t, "2024-01-31", d.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, in := range []string{"", "2024-1-1", "2024/01/01", "not-a-date", "2024-13-01", "2024-02-30"} {
			_, err := ParseDate(in)
			assert.ErrorIs(t, err, ErrInvalidDate, "input %q", in)
		}
	})
}

func TestDateArithmetic(t *testing.T) {
	t.Run("prev crosses month boundary", func(t *testing.T) {
		d := Date{Year: 2024, Month: time.March, Day: 1}
		assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d.Prev())
	})

	t.Run("prev crosses year boundary", func(t *testing.T) {
		d := Date{Year: 2024, Month: time.January, Day: 1}
		assert.Equal(t, Date{Year: 2023, Month: time.December, Day: 31}, d.Prev())
	})

	t.Run("add days", func(t *testing.T) {
		d := Date{Year: 2024, Month: time.January, Day: 30}
		assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 2}, d.AddDays(3))
	})
}

func TestDateOfKeepsCalendarDate(t *testing.T) {
	// The civil date must follow the instant's own location, not UTC.
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	// 2024-01-02 01:30 KST is still 2024-01-01 in UTC.
	instant := time.Date(2024, time.January, 2, 1, 30, 0, 0, seoul)
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 2}, DateOf(instant))
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		first Date
		last  Date
	}{
		{"january", 2024, time.January, Date{2024, time.January, 1}, Date{2024, time.January, 31}},
		{"leap february", 2024, time.February, Date{2024, time.February, 1}, Date{2024, time.February, 29}},
		{"plain february", 2023, time.February, Date{2023, time.February, 1}, Date{2023, time.February, 28}},
		{"december wraps year", 2024, time.December, Date{2024, time.December, 1}, Date{2024, time.December, 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := MonthRange(tt.year, tt.month)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}
