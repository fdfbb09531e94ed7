package leave

import "context"

type LeaveRepository interface {
	Create(ctx context.Context, leave Leave) (Leave, error)

	// GetByID returns ErrLeaveNotFound when absent
	GetByID(ctx context.Context, id string) (Leave, error)

	// ListByUser returns a user's requests, newest first
	ListByUser(ctx context.Context, userID string) ([]Leave, error)

	// ListPending returns pending requests oldest first with requester name and email
	ListPending(ctx context.Context) ([]Leave, error)

	// UpdateStatus moves a Pending request to status. It returns ErrLeaveNotPending
	// when the request has already been decided.
	UpdateStatus(ctx context.Context, id string, status Status) (Leave, error)
}
