package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (m attendanceModel) toDomain() attendance.Attendance {
	return attendance.Attendance{
		ID:           m.ID,
		UserID:       m.UserID,
		Date:         m.Date,
		Status:       attendance.Status(m.Status),
		CheckInTime:  m.CheckInTime,
		CheckOutTime: m.CheckOutTime,
		TotalHours:   m.TotalHours,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// sqlite compares datetimes as text, so every stored instant is UTC.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	var m attendanceModel
	err := conn(ctx, r.db).
		Where("user_id = ? AND date = ?", userID, date.UTC()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return m.toDomain(), nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		a.ID = id
	}

	m := attendanceModel{
		ID:           a.ID,
		UserID:       a.UserID,
		Date:         a.Date.UTC(),
		Status:       string(a.Status),
		CheckInTime:  utcPtr(a.CheckInTime),
		CheckOutTime: utcPtr(a.CheckOutTime),
		TotalHours:   a.TotalHours.Round(2),
	}

	db := conn(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "check_in_time", "check_out_time", "total_hours", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	// On conflict the stored row keeps its original id; read it back.
	return r.GetByUserAndDate(ctx, a.UserID, a.Date)
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := conn(ctx, r.db).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
		Order("date ASC")
	return r.list(q)
}

// ListByPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	q := conn(ctx, r.db).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("date ASC").Order("user_id ASC")
	return r.list(q)
}

func (r *attendanceRepository) list(q *gorm.DB) ([]attendance.Attendance, error) {
	var models []attendanceModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	records := make([]attendance.Attendance, 0, len(models))
	for _, m := range models {
		records = append(records, m.toDomain())
	}
	return records, nil
}
