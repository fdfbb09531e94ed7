package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	cal            *calendar.Calendar
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
}

func NewReportService(
	cal *calendar.Calendar,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
) report.ReportService {
	return &ReportServiceImpl{
		cal:            cal,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
	}
}

// normalizeStatus compares stored statuses case and whitespace insensitively.
func normalizeStatus(s attendance.Status) string {
	return strings.ToLower(strings.TrimSpace(string(s)))
}

var (
	present = normalizeStatus(attendance.StatusPresent)
	absent  = normalizeStatus(attendance.StatusAbsent)
	onLeave = normalizeStatus(attendance.StatusLeave)
)

// MonthlyAnalytics implements report.ReportService.
func (s *ReportServiceImpl) MonthlyAnalytics(ctx context.Context, filter attendance.PeriodFilter) (report.MonthlyAnalyticsResponse, error) {
	if err := filter.Validate(); err != nil {
		return report.MonthlyAnalyticsResponse{}, err
	}

	month := time.Month(filter.Month)
	from, to := s.cal.MonthWindow(filter.Year, month)
	records, err := s.attendanceRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return report.MonthlyAnalyticsResponse{}, fmt.Errorf("failed to list attendance for analytics: %w", err)
	}

	days := s.cal.DaysInMonth(filter.Year, month)
	daily := make([]report.DailyPresence, days)
	for i := range daily {
		daily[i].Day = i + 1
	}

	var summary report.StatusSummary
	for _, record := range records {
		switch normalizeStatus(record.Status) {
		case present:
			summary.Present++
			if d := record.Date.In(s.cal.Location()).Day(); d >= 1 && d <= days {
				daily[d-1].Present++
			}
		case absent:
			summary.Absent++
		case onLeave:
			summary.Leave++
		}
	}

	return report.MonthlyAnalyticsResponse{
		Year:          filter.Year,
		Month:         filter.Month,
		DailyData:     daily,
		StatusSummary: summary,
	}, nil
}

// AttendanceOverview implements report.ReportService.
func (s *ReportServiceImpl) AttendanceOverview(ctx context.Context, date string) (report.AttendanceOverviewResponse, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return report.AttendanceOverviewResponse{}, err
	}

	users, byUser, err := s.snapshot(ctx, day, user.RoleEmployee)
	if err != nil {
		return report.AttendanceOverviewResponse{}, err
	}

	resp := report.AttendanceOverviewResponse{
		Date:           s.cal.Format(day),
		TotalEmployees: len(users),
		Employees:      make([]report.DailyRecord, 0, len(users)),
	}
	for _, u := range users {
		rec := s.dailyRecord(u, byUser)
		rec.Role = ""
		resp.Employees = append(resp.Employees, rec)

		switch strings.ToLower(strings.TrimSpace(rec.Status)) {
		case present:
			resp.PresentCount++
		case onLeave:
			resp.LeaveCount++
		default:
			// Absent and No Record
			resp.AbsentCount++
		}
	}
	return resp, nil
}

// DailyAttendance implements report.ReportService.
func (s *ReportServiceImpl) DailyAttendance(ctx context.Context, date string) (report.DailyAttendanceResponse, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return report.DailyAttendanceResponse{}, err
	}

	users, byUser, err := s.snapshot(ctx, day, "")
	if err != nil {
		return report.DailyAttendanceResponse{}, err
	}

	resp := report.DailyAttendanceResponse{
		Date:    s.cal.Format(day),
		Records: make([]report.DailyRecord, 0, len(users)),
	}
	for _, u := range users {
		resp.Records = append(resp.Records, s.dailyRecord(u, byUser))
	}
	return resp, nil
}

func (s *ReportServiceImpl) parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, report.ErrDateRequired
	}
	day, err := s.cal.ParseDay(date)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be formatted as YYYY-MM-DD"}}
	}
	return day, nil
}

// snapshot loads users with the given role and their records of day concurrently.
func (s *ReportServiceImpl) snapshot(ctx context.Context, day time.Time, role user.Role) ([]user.User, map[string]attendance.Attendance, error) {
	var (
		users   []user.User
		records []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.userRepo.List(gCtx, role)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		users = list
		return nil
	})

	g.Go(func() error {
		list, err := s.attendanceRepo.ListByPeriod(gCtx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("failed to list attendance for %s: %w", s.cal.Format(day), err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	byUser := make(map[string]attendance.Attendance, len(records))
	for _, record := range records {
		byUser[record.UserID] = record
	}
	return users, byUser, nil
}

func (s *ReportServiceImpl) dailyRecord(u user.User, byUser map[string]attendance.Attendance) report.DailyRecord {
	rec := report.DailyRecord{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: attendance.StatusNoRecord,
	}
	if a, ok := byUser[u.ID]; ok {
		rec.Status = string(a.Status)
		rec.CheckInTime = s.cal.FormatInstant(a.CheckInTime)
		rec.CheckOutTime = s.cal.FormatInstant(a.CheckOutTime)
		rec.TotalHours = a.TotalHours.InexactFloat64()
	}
	return rec
}
