package leave

import "errors"

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrLeaveNotPending  = errors.New("leave request already processed")
	ErrInvalidDateRange = errors.New("end date cannot be before start date")
	ErrLeaveTooLong     = errors.New("leave request cannot span more than 366 days")
)
