package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx             database.Transactor
	cal            *calendar.Calendar
	leaveRepo      leave.LeaveRepository
	attendanceRepo attendance.AttendanceRepository
}

func NewLeaveService(
	tx database.Transactor,
	cal *calendar.Calendar,
	leaveRepo leave.LeaveRepository,
	attendanceRepo attendance.AttendanceRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:             tx,
		cal:            cal,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
	}
}

func (l *LeaveServiceImpl) toResponse(lv leave.Leave) leave.LeaveResponse {
	var createdAt string
	if s := l.cal.FormatInstant(&lv.CreatedAt); s != nil {
		createdAt = *s
	}
	return leave.LeaveResponse{
		ID:        lv.ID,
		UserID:    lv.UserID,
		UserName:  lv.UserName,
		UserEmail: lv.UserEmail,
		StartDate: l.cal.Format(lv.StartDate),
		EndDate:   l.cal.Format(lv.EndDate),
		Type:      string(lv.Type),
		Reason:    lv.Reason,
		Status:    string(lv.Status),
		CreatedAt: createdAt,
	}
}

func (l *LeaveServiceImpl) toResponses(leaves []leave.Leave) []leave.LeaveResponse {
	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, lv := range leaves {
		responses = append(responses, l.toResponse(lv))
	}
	return responses
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, userID string, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	var errs validator.ValidationErrors
	start, err := l.cal.ParseDay(req.StartDate)
	if err != nil {
		errs.Add("start_date", "start_date must be formatted as YYYY-MM-DD")
	}
	if err == nil && !validator.IsValidYear(start.Year()) {
		errs.Add("start_date", "start_date must fall between 1970 and 9999")
	}
	end, err := l.cal.ParseDay(req.EndDate)
	if err != nil {
		errs.Add("end_date", "end_date must be formatted as YYYY-MM-DD")
	}
	if err == nil && !validator.IsValidYear(end.Year()) {
		errs.Add("end_date", "end_date must fall between 1970 and 9999")
	}
	if err := errs.Err(); err != nil {
		return leave.LeaveResponse{}, err
	}

	if end.Before(start) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}
	if !end.Before(start.AddDate(0, 0, leave.MaxDays)) {
		return leave.LeaveResponse{}, leave.ErrLeaveTooLong
	}

	created, err := l.leaveRepo.Create(ctx, leave.Leave{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Type:      leave.Type(req.Type),
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return l.toResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMine(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
	leaves, err := l.leaveRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return l.toResponses(leaves), nil
}

// ListPending implements leave.LeaveService.
func (l *LeaveServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveResponse, error) {
	leaves, err := l.leaveRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return l.toResponses(leaves), nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, leaveID string) (leave.DecisionResponse, error) {
	var (
		approved leave.Leave
		days     int
	)
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		approved, err = l.leaveRepo.UpdateStatus(ctx, leaveID, leave.StatusApproved)
		if err != nil {
			return err
		}

		// Every covered day becomes Leave, overwriting Present or Absent.
		for _, d := range l.cal.Days(approved.StartDate, approved.EndDate) {
			record, err := l.attendanceRepo.GetByUserAndDate(ctx, approved.UserID, d)
			switch {
			case errors.Is(err, attendance.ErrAttendanceNotFound):
				record = attendance.Attendance{UserID: approved.UserID, Date: d}
			case err != nil:
				return fmt.Errorf("failed to get attendance for %s: %w", l.cal.Format(d), err)
			}
			record.Status = attendance.StatusLeave
			record.CheckInTime = nil
			record.CheckOutTime = nil
			record.TotalHours = decimal.Zero

			if _, err := l.attendanceRepo.Upsert(ctx, record); err != nil {
				return fmt.Errorf("failed to write leave attendance for %s: %w", l.cal.Format(d), err)
			}
			days++
		}
		return nil
	})
	if err != nil {
		return leave.DecisionResponse{}, err
	}

	return leave.DecisionResponse{Leave: l.toResponse(approved), AttendanceDays: days}, nil
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, leaveID string) (leave.DecisionResponse, error) {
	rejected, err := l.leaveRepo.UpdateStatus(ctx, leaveID, leave.StatusRejected)
	if err != nil {
		return leave.DecisionResponse{}, err
	}
	return leave.DecisionResponse{Leave: l.toResponse(rejected)}, nil
}
