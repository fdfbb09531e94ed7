package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	service     report.ReportService
	cal         *calendar.Calendar
	users       user.UserRepository
	attendances attendance.AttendanceRepository
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
		cal:         calendar.New(time.UTC),
		users:       sqlite.NewUserRepository(db),
		attendances: sqlite.NewAttendanceRepository(db),
	}
	f.service = NewReportService(f.cal, f.attendances, f.users)
	return f
}

func (f *fixture) user(t *testing.T, name string, role user.Role) user.User {
	u, err := f.users.Create(context.Background(), user.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) record(t *testing.T, userID string, date string, status attendance.Status) {
	d, err := f.cal.ParseDay(date)
	require.NoError(t, err)
	_, err = f.attendances.Upsert(context.Background(), attendance.Attendance{
		UserID: userID,
		Date:   d,
		Status: status,
	})
	require.NoError(t, err)
}

func TestMonthlyAnalytics(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ana := f.user(t, "Ana", user.RoleEmployee)
	ben := f.user(t, "Ben", user.RoleEmployee)

	f.record(t, ana.ID, "2024-02-01", attendance.StatusPresent)
	f.record(t, ben.ID, "2024-02-01", attendance.StatusPresent)
	f.record(t, ana.ID, "2024-02-02", attendance.StatusAbsent)
	f.record(t, ben.ID, "2024-02-02", attendance.StatusLeave)
	f.record(t, ana.ID, "2024-02-29", attendance.StatusPresent)
	f.record(t, ana.ID, "2024-03-01", attendance.StatusPresent)

	got, err := f.service.MonthlyAnalytics(ctx, attendance.PeriodFilter{Year: 2024, Month: 2})
	require.NoError(t, err)

	require.Len(t, got.DailyData, 29)
	assert.Equal(t, report.DailyPresence{Day: 1, Present: 2}, got.DailyData[0])
	assert.Equal(t, report.DailyPresence{Day: 2, Present: 0}, got.DailyData[1])
	assert.Equal(t, report.DailyPresence{Day: 29, Present: 1}, got.DailyData[28])
	assert.Equal(t, report.StatusSummary{Present: 3, Absent: 1, Leave: 1}, got.StatusSummary)

	_, err = f.service.MonthlyAnalytics(ctx, attendance.PeriodFilter{Year: 24, Month: 0})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestStatusMatchingIgnoresCaseAndSpace(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ana := f.user(t, "Ana", user.RoleEmployee)
	ben := f.user(t, "Ben", user.RoleEmployee)

	f.record(t, ana.ID, "2024-02-01", attendance.Status(" present "))
	f.record(t, ben.ID, "2024-02-01", attendance.Status("LEAVE"))

	analytics, err := f.service.MonthlyAnalytics(ctx, attendance.PeriodFilter{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, report.DailyPresence{Day: 1, Present: 1}, analytics.DailyData[0])
	assert.Equal(t, report.StatusSummary{Present: 1, Absent: 0, Leave: 1}, analytics.StatusSummary)

	overview, err := f.service.AttendanceOverview(ctx, "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, 2, overview.TotalEmployees)
	assert.Equal(t, 1, overview.PresentCount)
	assert.Equal(t, 1, overview.LeaveCount)
	assert.Equal(t, 0, overview.AbsentCount)
}

func TestDailyViews(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	boss := f.user(t, "Boss", user.RoleAdmin)
	ana := f.user(t, "Ana", user.RoleEmployee)
	ben := f.user(t, "Ben", user.RoleEmployee)
	cara := f.user(t, "Cara", user.RoleEmployee)
	f.user(t, "Dian", user.RoleEmployee)

	in := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	_, err := f.attendances.Upsert(ctx, attendance.Attendance{
		UserID:       ana.ID,
		Date:         f.cal.Today(in),
		Status:       attendance.StatusPresent,
		CheckInTime:  &in,
		CheckOutTime: &out,
		TotalHours:   decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	f.record(t, ben.ID, "2024-03-10", attendance.StatusAbsent)
	f.record(t, cara.ID, "2024-03-10", attendance.StatusLeave)
	f.record(t, boss.ID, "2024-03-10", attendance.StatusPresent)
	f.record(t, cara.ID, "2024-03-11", attendance.StatusPresent)

	t.Run("overview counts employees only", func(t *testing.T) {
		got, err := f.service.AttendanceOverview(ctx, "2024-03-10")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", got.Date)
		assert.Equal(t, 4, got.TotalEmployees)
		assert.Equal(t, 1, got.PresentCount)
		assert.Equal(t, 1, got.LeaveCount)
		assert.Equal(t, 2, got.AbsentCount)

		statuses := map[string]string{}
		for _, e := range got.Employees {
			statuses[e.Name] = e.Status
		}
		assert.Equal(t, map[string]string{
			"Ana":  "Present",
			"Ben":  "Absent",
			"Cara": "Leave",
			"Dian": "No Record",
		}, statuses)

		require.NotNil(t, got.Employees[0].CheckInTime)
		assert.Equal(t, "2024-03-10T09:00:00Z", *got.Employees[0].CheckInTime)
		assert.Equal(t, 8.0, got.Employees[0].TotalHours)
	})

	t.Run("daily lists every user with role", func(t *testing.T) {
		got, err := f.service.DailyAttendance(ctx, "2024-03-10")
		require.NoError(t, err)
		require.Len(t, got.Records, 5)
		assert.Equal(t, "Boss", got.Records[2].Name)
		assert.Equal(t, "admin", got.Records[2].Role)
		assert.Equal(t, "Present", got.Records[2].Status)
		assert.Equal(t, "employee", got.Records[0].Role)
	})

	t.Run("date required", func(t *testing.T) {
		_, err := f.service.DailyAttendance(ctx, " ")
		assert.ErrorIs(t, err, report.ErrDateRequired)

		_, err = f.service.AttendanceOverview(ctx, "")
		assert.ErrorIs(t, err, report.ErrDateRequired)

		_, err = f.service.AttendanceOverview(ctx, "March 10")
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestExportMonthly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ana := f.user(t, "Ana Maria O'Neil", user.RoleEmployee)

	in := time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(7*time.Hour + 45*time.Minute)
	_, err := f.attendances.Upsert(ctx, attendance.Attendance{
		UserID:       ana.ID,
		Date:         f.cal.Today(in),
		Status:       attendance.StatusPresent,
		CheckInTime:  &in,
		CheckOutTime: &out,
		TotalHours:   attendance.WorkedHours(in, out),
	})
	require.NoError(t, err)
	f.record(t, ana.ID, "2024-02-05", attendance.StatusLeave)

	feb := attendance.PeriodFilter{Year: 2024, Month: 2}

	t.Run("csv", func(t *testing.T) {
		file, err := f.service.ExportMonthly(ctx, ana.ID, feb, report.ExportFormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "attendance_Ana_Maria_O_Neil_2024-02.csv", file.Filename)
		assert.Equal(t, "text/csv", file.ContentType)

		rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 30)
		assert.Equal(t, []string{"Date", "Status", "CheckInTime", "CheckOutTime", "TotalHours"}, rows[0])
		assert.Equal(t, []string{"2024-02-01", "No Record", "", "", ""}, rows[1])
		assert.Equal(t, []string{"2024-02-02", "Present", "2024-02-02T09:00:00Z", "2024-02-02T16:45:00Z", "7.75"}, rows[2])
		assert.Equal(t, []string{"2024-02-05", "Leave", "", "", "0"}, rows[5])
		assert.Equal(t, "2024-02-29", rows[29][0])
	})

	t.Run("xlsx", func(t *testing.T) {
		file, err := f.service.ExportMonthly(ctx, ana.ID, feb, report.ExportFormatXLSX)
		require.NoError(t, err)
		assert.Equal(t, "attendance_Ana_Maria_O_Neil_2024-02.xlsx", file.Filename)

		book, err := excelize.OpenReader(bytes.NewReader(file.Content))
		require.NoError(t, err)
		defer book.Close()

		rows, err := book.GetRows("Attendance")
		require.NoError(t, err)
		require.Len(t, rows, 30)
		assert.Equal(t, "Present", rows[2][1])
		assert.Equal(t, "7.75", rows[2][4])
	})

	t.Run("errors", func(t *testing.T) {
		_, err := f.service.ExportMonthly(ctx, ana.ID, feb, "pdf")
		assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

		_, err = f.service.ExportMonthly(ctx, "missing", feb, report.ExportFormatCSV)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
