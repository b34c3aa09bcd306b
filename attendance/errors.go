package attendance

import "errors"

// Input validation errors, rejected before any storage access. A duplicate
// check-in is deliberately not in this list: it is a defined outcome
// (accepted=false), not an error.
var (
	ErrEmptyUserID   = errors.New("user id must not be empty")
	ErrInvalidDate   = errors.New("invalid civil date")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidMetric = errors.New("unknown leaderboard metric")
	ErrInvalidLimit  = errors.New("leaderboard limit must be positive")
)

// errDuplicateCheckIn aborts the check-in transaction when the unique
// (user_id, attendance_date) index rejects the event insert. It never leaves
// the store: callers see accepted=false.
var errDuplicateCheckIn = errors.New("already checked in on this date")
