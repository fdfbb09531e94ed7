package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	TotalHours   float64 `json:"total_hours"`
}

type SetStatusRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required"`
	Status string `json:"status" validate:"required"`
}

func (r *SetStatusRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Date = strings.TrimSpace(r.Date)

	return validator.Struct(r).Err()
}

// PeriodFilter selects one calendar month.
type PeriodFilter struct {
	Year  int
	Month int
}

func (f PeriodFilter) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidYear(f.Year) {
		errs.Add("year", "year must be a four-digit year")
	}
	if !validator.IsValidMonth(f.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	return errs.Err()
}

type SummaryResponse struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	PresentDays int    `json:"present_days"`
	AbsentDays  int    `json:"absent_days"`
	LeaveDays   int    `json:"leave_days"`
}
