package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// Callers pass the authenticated user id explicitly.
type AttendanceService interface {
	// CheckIn records the first arrival of today
	CheckIn(ctx context.Context, userID string) (AttendanceResponse, error)

	// CheckOut closes today's record and computes the worked hours
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// Today returns today's record, ErrAttendanceNotFound when there is none
	Today(ctx context.Context, userID string) (AttendanceResponse, error)

	// SetStatus is the manager override of any (user, day)
	SetStatus(ctx context.Context, req SetStatusRequest) (AttendanceResponse, error)

	// Summary counts the month's records by status
	Summary(ctx context.Context, userID string, filter PeriodFilter) (SummaryResponse, error)

	// Details lists the month's records ordered by date
	Details(ctx context.Context, userID string, filter PeriodFilter) ([]AttendanceResponse, error)
}
