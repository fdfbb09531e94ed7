package leave

import "time"

type Type string

const (
	TypeSick   Type = "Sick"
	TypeCasual Type = "Casual"
	TypePaid   Type = "Paid"
	TypeUnpaid Type = "Unpaid"
	TypeOther  Type = "Other"
)

// MaxDays bounds one request; approval writes one attendance row per day.
const MaxDays = 366

var Types = []string{string(TypeSick), string(TypeCasual), string(TypePaid), string(TypeUnpaid), string(TypeOther)}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Leave is a request covering StartDate through EndDate inclusive.
// Status moves once, from Pending to Approved or Rejected.
type Leave struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Type      Type
	Reason    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	UserName  *string
	UserEmail *string
}

func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}
