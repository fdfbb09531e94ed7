package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	cal            *calendar.Calendar
	now            func() time.Time
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
}

// NewAttendanceService wires the attendance lifecycle. now is the clock that decides "today".
func NewAttendanceService(
	tx database.Transactor,
	cal *calendar.Calendar,
	now func() time.Time,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		cal:            cal,
		now:            now,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
	}
}

// ToResponse renders a record with its day and instants in the calendar's timezone.
func ToResponse(cal *calendar.Calendar, a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         cal.Format(a.Date),
		Status:       string(a.Status),
		CheckInTime:  cal.FormatInstant(a.CheckInTime),
		CheckOutTime: cal.FormatInstant(a.CheckOutTime),
		TotalHours:   a.TotalHours.InexactFloat64(),
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.now()
	today := s.cal.Today(now)

	var saved attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
		switch {
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			record = attendance.Attendance{UserID: userID, Date: today}
		case err != nil:
			return fmt.Errorf("failed to get today's attendance: %w", err)
		case record.HasCheckedIn():
			return attendance.ErrAlreadyCheckedIn
		}

		// A record created earlier by a manager override is reused.
		record.Status = attendance.StatusPresent
		record.CheckInTime = &now
		record.CheckOutTime = nil
		record.TotalHours = decimal.Zero

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to save check-in: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return ToResponse(s.cal, saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	now := s.now()
	today := s.cal.Today(now)

	var saved attendance.Attendance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrNotCheckedIn
		}
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if !record.HasCheckedIn() {
			return attendance.ErrNotCheckedIn
		}
		if record.HasCheckedOut() {
			return attendance.ErrAlreadyCheckedOut
		}

		record.CheckOutTime = &now
		record.TotalHours = attendance.WorkedHours(*record.CheckInTime, now)

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to save check-out: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return ToResponse(s.cal, saved), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	record, err := s.attendanceRepo.GetByUserAndDate(ctx, userID, s.cal.Today(s.now()))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return ToResponse(s.cal, record), nil
}

// SetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetStatus(ctx context.Context, req attendance.SetStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, err := s.cal.ParseDay(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be formatted as YYYY-MM-DD"}}
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var saved attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.attendanceRepo.GetByUserAndDate(ctx, req.UserID, day)
		switch {
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			record = attendance.Attendance{UserID: req.UserID, Date: day, TotalHours: decimal.Zero}
		case err != nil:
			return fmt.Errorf("failed to get attendance: %w", err)
		}

		record.Status = status
		if status != attendance.StatusPresent {
			record.ClearTimes()
		}

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		if err != nil {
			return fmt.Errorf("failed to save attendance override: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return ToResponse(s.cal, saved), nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, userID string, filter attendance.PeriodFilter) (attendance.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	from, to := s.cal.MonthWindow(filter.Year, time.Month(filter.Month))
	records, err := s.attendanceRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance for summary: %w", err)
	}

	summary := attendance.SummaryResponse{
		UserID:    u.ID,
		UserName:  u.Name,
		UserEmail: u.Email,
		Year:      filter.Year,
		Month:     filter.Month,
	}
	for _, record := range records {
		switch record.Status {
		case attendance.StatusPresent:
			summary.PresentDays++
		case attendance.StatusAbsent:
			summary.AbsentDays++
		case attendance.StatusLeave:
			summary.LeaveDays++
		}
	}
	return summary, nil
}

// Details implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Details(ctx context.Context, userID string, filter attendance.PeriodFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from, to := s.cal.MonthWindow(filter.Year, time.Month(filter.Month))
	records, err := s.attendanceRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance details: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, ToResponse(s.cal, record))
	}
	return responses, nil
}
