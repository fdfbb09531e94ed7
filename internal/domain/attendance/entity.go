package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
)

// StatusNoRecord labels a (user, day) pair with no stored record. It is never persisted.
const StatusNoRecord = "No Record"

// ParseStatus accepts the exact enumerated spelling only.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLeave:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Attendance is the single record of one user on one canonical day.
// (UserID, Date) is unique.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	Status       Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	TotalHours   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}

// ClearTimes drops check-in/out data and zeroes the worked hours.
func (a *Attendance) ClearTimes() {
	a.CheckInTime = nil
	a.CheckOutTime = nil
	a.TotalHours = decimal.Zero
}

// WorkedHours is (out - in) in hours rounded half away from zero to two places.
// A checkout earlier than the check-in yields a negative value.
func WorkedHours(in, out time.Time) decimal.Decimal {
	ms := out.Sub(in).Milliseconds()
	return decimal.NewFromInt(ms).Div(decimal.NewFromInt(3_600_000)).Round(2)
}
