package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, date, status, check_in_time, check_out_time, total_hours, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Date,
		&a.Status,
		&a.CheckInTime,
		&a.CheckOutTime,
		&a.TotalHours,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND date = $2`
	// Inside a transaction the row stays locked until the caller's write commits.
	if inTransaction(ctx) {
		query += ` FOR UPDATE`
	}

	a, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return a, nil
}

// Upsert implements attendance.AttendanceRepository.
// The unique (user_id, date) constraint arbitrates concurrent writers.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		a.ID = id
	}

	query := `
		INSERT INTO attendances (id, user_id, date, status, check_in_time, check_out_time, total_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			status         = EXCLUDED.status,
			check_in_time  = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			total_hours    = EXCLUDED.total_hours,
			updated_at     = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.Date,
		string(a.Status),
		a.CheckInTime,
		a.CheckOutTime,
		a.TotalHours.StringFixed(2),
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`
	return r.list(ctx, query, userID, from, to)
}

// ListByPeriod implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByPeriod(ctx context.Context, from, to time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC, user_id ASC
	`
	return r.list(ctx, query, from, to)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return []attendance.Attendance{}, nil
		}
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		if isInvalidID(err) {
			return []attendance.Attendance{}, nil
		}
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}
