package leave

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Type      string `json:"type"`
	Reason    string `json:"reason" validate:"required,max=1000"`
}

func (r *ApplyLeaveRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	r.Type = strings.TrimSpace(r.Type)
	if r.Type == "" {
		r.Type = string(TypeOther)
	}

	errs := validator.Struct(r)
	if !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	return errs.Err()
}

type LeaveResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	UserName  *string `json:"user_name,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// DecisionResponse is returned by approve and reject.
type DecisionResponse struct {
	Leave          LeaveResponse `json:"leave"`
	AttendanceDays int           `json:"attendance_days_updated"`
}
