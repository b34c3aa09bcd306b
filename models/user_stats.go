package models

import "time"

// UserStats is the mutable per-user aggregate derived from the attendance
// ledger. It is only ever written in the same transaction that records the
// event it was derived from, so it never drifts from the event history.
//
// CreatedAt doubles as the row's insertion order, which is the final
// leaderboard tie-break after total_days.
type UserStats struct {
	UserID             string     `gorm:"primaryKey;size:64" json:"user_id"`
	UserName           string     `gorm:"size:128;not null" json:"user_name"`
	DisplayName        string     `gorm:"size:128" json:"display_name"`
	CurrentStreak      int        `gorm:"not null;default:0" json:"current_streak"`
	MaxStreak          int        `gorm:"not null;default:0" json:"max_streak"`
	TotalDays          int        `gorm:"not null;default:0" json:"total_days"`
	LastAttendanceDate *time.Time `gorm:"type:date" json:"last_attendance_date"`
	CreatedAt          time.Time  `json:"created_at"`
}

// TableName keeps the table name aligned with the deployed schema.
func (UserStats) TableName() string { return "user_stats" }
