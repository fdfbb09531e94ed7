package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// ReportService defines the manager-facing read models over attendance
type ReportService interface {
	// MonthlyAnalytics returns present counts per day plus month status totals
	MonthlyAnalytics(ctx context.Context, filter attendance.PeriodFilter) (MonthlyAnalyticsResponse, error)

	// AttendanceOverview lists every employee-role user on date with status counts
	AttendanceOverview(ctx context.Context, date string) (AttendanceOverviewResponse, error)

	// DailyAttendance lists every user on date
	DailyAttendance(ctx context.Context, date string) (DailyAttendanceResponse, error)

	// ExportMonthly renders one user's month, one row per calendar day
	ExportMonthly(ctx context.Context, userID string, filter attendance.PeriodFilter, format ExportFormat) (ExportFile, error)
}
