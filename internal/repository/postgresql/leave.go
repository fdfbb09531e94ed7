package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `l.id, l.user_id, l.start_date, l.end_date, l.type, l.reason, l.status, l.created_at, l.updated_at, u.name, u.email`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.StartDate,
		&l.EndDate,
		&l.Type,
		&l.Reason,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.UserName,
		&l.UserEmail,
	)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, newLeave leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	if newLeave.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Leave{}, err
		}
		newLeave.ID = id
	}

	query := `
		WITH l AS (
			INSERT INTO leaves (id, user_id, start_date, end_date, type, reason, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + leaveColumns + `
		FROM l
		LEFT JOIN users u ON u.id = l.user_id
	`

	created, err := scanLeave(q.QueryRow(ctx, query,
		newLeave.ID,
		newLeave.UserID,
		newLeave.StartDate,
		newLeave.EndDate,
		string(newLeave.Type),
		newLeave.Reason,
		string(newLeave.Status),
	))
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leaves l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.id = $1
	`

	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return l, nil
}

// ListByUser implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leaves l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`
	return r.list(ctx, query, userID)
}

// ListPending implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListPending(ctx context.Context) ([]leave.Leave, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leaves l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE l.status = $1
		ORDER BY l.created_at ASC, l.id ASC
	`
	return r.list(ctx, query, string(leave.StatusPending))
}

// UpdateStatus implements leave.LeaveRepository.
// The WHERE clause on status makes the Pending check and the write one statement.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH l AS (
			UPDATE leaves
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING *
		)
		SELECT ` + leaveColumns + `
		FROM l
		LEFT JOIN users u ON u.id = l.user_id
	`

	updated, err := scanLeave(q.QueryRow(ctx, query, string(status), id, string(leave.StatusPending)))
	if err == nil {
		return updated, nil
	}
	if isInvalidID(err) {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.Leave{}, fmt.Errorf("failed to update leave status: %w", err)
	}

	// Nothing matched: either the request does not exist or it was already decided.
	if _, err := r.GetByID(ctx, id); err != nil {
		return leave.Leave{}, err
	}
	return leave.Leave{}, leave.ErrLeaveNotPending
}

func (r *leaveRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return leaves, nil
}
