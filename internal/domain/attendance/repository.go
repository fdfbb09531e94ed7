package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates passed in are canonical days produced by the calendar package.
type AttendanceRepository interface {
	// GetByUserAndDate returns ErrAttendanceNotFound when the day has no record
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// Upsert inserts the record or overwrites the existing one with the same (user, date)
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByUser returns a user's records with from <= date < to, ordered by date
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// ListByPeriod returns every user's records with from <= date < to, ordered by date
	ListByPeriod(ctx context.Context, from, to time.Time) ([]Attendance, error)
}
