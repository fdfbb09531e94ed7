package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	service     leave.LeaveService
	attendances attendance.AttendanceRepository
	cal         *calendar.Calendar
	employee    user.User
}

func setup(t *testing.T) *fixture {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		attendances: sqlite.NewAttendanceRepository(db),
		cal:         calendar.New(wib),
	}
	f.service = NewLeaveService(sqlite.NewTransactor(db), f.cal, sqlite.NewLeaveRepository(db), f.attendances)

	f.employee, err = sqlite.NewUserRepository(db).Create(context.Background(), user.User{
		Name:         "Siti",
		Email:        "siti@example.com",
		PasswordHash: "hash",
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) apply(t *testing.T, start, end string) leave.LeaveResponse {
	resp, err := f.service.Apply(context.Background(), f.employee.ID, leave.ApplyLeaveRequest{
		StartDate: start,
		EndDate:   end,
		Type:      "Sick",
		Reason:    "flu",
	})
	require.NoError(t, err)
	return resp
}

func TestApply(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("creates pending request", func(t *testing.T) {
		resp := f.apply(t, "2024-03-10", "2024-03-12")
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "Pending", resp.Status)
		assert.Equal(t, "2024-03-10", resp.StartDate)
		assert.Equal(t, "2024-03-12", resp.EndDate)
		assert.Equal(t, "Sick", resp.Type)
	})

	t.Run("type defaults to other", func(t *testing.T) {
		resp, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "2024-04-01",
			EndDate:   "2024-04-01",
			Reason:    "errand",
		})
		require.NoError(t, err)
		assert.Equal(t, "Other", resp.Type)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "2024-03-12",
			EndDate:   "2024-03-10",
			Reason:    "flu",
		})
		assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
	})

	t.Run("malformed dates and type", func(t *testing.T) {
		_, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "tomorrow",
			EndDate:   "2024-03-10",
			Type:      "Holiday",
			Reason:    "trip",
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "type")

		_, err = f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "tomorrow",
			EndDate:   "2024-03-10",
			Reason:    "trip",
		})
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "start_date")
	})

	mine, err := f.service.ListMine(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestApplyBoundsDateRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("year outside 1970..9999", func(t *testing.T) {
		_, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "0001-01-01",
			EndDate:   "9999-12-31",
			Reason:    "forever",
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "start_date")
	})

	t.Run("longer than 366 days", func(t *testing.T) {
		_, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "2024-01-01",
			EndDate:   "2025-01-01",
			Reason:    "sabbatical",
		})
		assert.ErrorIs(t, err, leave.ErrLeaveTooLong)
	})

	t.Run("exactly 366 days", func(t *testing.T) {
		resp, err := f.service.Apply(ctx, f.employee.ID, leave.ApplyLeaveRequest{
			StartDate: "2024-01-01",
			EndDate:   "2024-12-31",
			Reason:    "sabbatical",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-12-31", resp.EndDate)
	})
}

func TestApprovePropagatesAttendance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// A day already worked is overwritten by the approved leave.
	checkIn := time.Date(2024, time.March, 11, 9, 0, 0, 0, wib)
	checkOut := checkIn.Add(8 * time.Hour)
	_, err := f.attendances.Upsert(ctx, attendance.Attendance{
		UserID:       f.employee.ID,
		Date:         f.cal.Today(checkIn),
		Status:       attendance.StatusPresent,
		CheckInTime:  &checkIn,
		CheckOutTime: &checkOut,
		TotalHours:   decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	req := f.apply(t, "2024-03-10", "2024-03-12")

	pending, err := f.service.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].UserName)
	assert.Equal(t, "Siti", *pending[0].UserName)

	decision, err := f.service.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Approved", decision.Leave.Status)
	assert.Equal(t, 3, decision.AttendanceDays)

	from, to := f.cal.MonthWindow(2024, time.March)
	records, err := f.attendances.ListByUser(ctx, f.employee.ID, from, to)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, want := range []string{"2024-03-10", "2024-03-11", "2024-03-12"} {
		assert.Equal(t, want, f.cal.Format(records[i].Date))
		assert.Equal(t, attendance.StatusLeave, records[i].Status)
		assert.Nil(t, records[i].CheckInTime)
		assert.Nil(t, records[i].CheckOutTime)
		assert.True(t, records[i].TotalHours.IsZero())
	}

	_, err = f.service.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
	_, err = f.service.Reject(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)

	pending, err = f.service.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRejectLeavesAttendanceUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := f.apply(t, "2024-03-10", "2024-03-12")

	decision, err := f.service.Reject(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", decision.Leave.Status)
	assert.Zero(t, decision.AttendanceDays)

	from, to := f.cal.MonthWindow(2024, time.March)
	records, err := f.attendances.ListByUser(ctx, f.employee.ID, from, to)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = f.service.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveNotPending)
}

func TestDecideUnknownLeave(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Approve(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)

	_, err = f.service.Reject(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}
