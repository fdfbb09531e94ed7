package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"gorm.io/gorm"
)

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func (row leaveRow) toDomain() leave.Leave {
	return leave.Leave{
		ID:        row.ID,
		UserID:    row.UserID,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Type:      leave.Type(row.Type),
		Reason:    row.Reason,
		Status:    leave.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		UserName:  row.UserName,
		UserEmail: row.UserEmail,
	}
}

func (r *leaveRepository) joined(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Table("leaves AS l").
		Select("l.id, l.user_id, l.start_date, l.end_date, l.type, l.reason, l.status, l.created_at, l.updated_at, u.name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN users AS u ON u.id = l.user_id")
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, newLeave leave.Leave) (leave.Leave, error) {
	if newLeave.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Leave{}, err
		}
		newLeave.ID = id
	}

	m := leaveModel{
		ID:        newLeave.ID,
		UserID:    newLeave.UserID,
		StartDate: newLeave.StartDate.UTC(),
		EndDate:   newLeave.EndDate.UTC(),
		Type:      string(newLeave.Type),
		Reason:    newLeave.Reason,
		Status:    string(newLeave.Status),
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return r.GetByID(ctx, m.ID)
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	var rows []leaveRow
	if err := r.joined(ctx).Where("l.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return leave.Leave{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	if len(rows) == 0 {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return rows[0].toDomain(), nil
}

// ListByUser implements leave.LeaveRepository.
func (r *leaveRepository) ListByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	return r.list(r.joined(ctx).Where("l.user_id = ?", userID).Order("l.created_at DESC").Order("l.id DESC"))
}

// ListPending implements leave.LeaveRepository.
func (r *leaveRepository) ListPending(ctx context.Context) ([]leave.Leave, error) {
	return r.list(r.joined(ctx).Where("l.status = ?", string(leave.StatusPending)).Order("l.created_at ASC").Order("l.id ASC"))
}

// UpdateStatus implements leave.LeaveRepository.
func (r *leaveRepository) UpdateStatus(ctx context.Context, id string, status leave.Status) (leave.Leave, error) {
	res := conn(ctx, r.db).Model(&leaveModel{}).
		Where("id = ? AND status = ?", id, string(leave.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return leave.Leave{}, fmt.Errorf("failed to update leave status: %w", res.Error)
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return leave.Leave{}, err
	}
	if res.RowsAffected == 0 {
		return leave.Leave{}, leave.ErrLeaveNotPending
	}
	return updated, nil
}

func (r *leaveRepository) list(q *gorm.DB) ([]leave.Leave, error) {
	var rows []leaveRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	leaves := make([]leave.Leave, 0, len(rows))
	for _, row := range rows {
		leaves = append(leaves, row.toDomain())
	}
	return leaves, nil
}
