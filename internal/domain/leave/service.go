package leave

import "context"

type LeaveService interface {
	Apply(ctx context.Context, userID string, req ApplyLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, userID string) ([]LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)

	// Approve marks the request Approved and writes a Leave attendance record
	// for every day of its range.
	Approve(ctx context.Context, leaveID string) (DecisionResponse, error)
	Reject(ctx context.Context, leaveID string) (DecisionResponse, error)
}
