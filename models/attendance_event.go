package models

import "time"

// AttendanceEvent is one completed check-in. Rows are append-only: they are
// created exactly once per successful check-in and never updated or deleted.
// The composite unique index on (user_id, attendance_date) is the storage-level
// guarantee that a user can check in at most once per civil day.
type AttendanceEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"size:64;not null;uniqueIndex:uniq_user_date,priority:1" json:"user_id"`
	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:uniq_user_date,priority:2" json:"attendance_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the table name aligned with the deployed schema.
func (AttendanceEvent) TableName() string { return "attendance_events" }
