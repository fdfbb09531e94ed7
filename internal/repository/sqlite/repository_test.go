package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, repo user.UserRepository, name, email string, role user.Role) user.User {
	u, err := repo.Create(context.Background(), user.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	zoe := createTestUser(t, repo, "Zoe", "zoe@example.com", user.RoleEmployee)
	adam := createTestUser(t, repo, "Adam", "adam@example.com", user.RoleAdmin)
	createTestUser(t, repo, "Mia", "mia@example.com", user.RoleEmployee)

	t.Run("generates ids", func(t *testing.T) {
		assert.NotEmpty(t, zoe.ID)
		assert.NotEqual(t, zoe.ID, adam.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Name: "Other", Email: "zoe@example.com", PasswordHash: "x", Role: user.RoleEmployee})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("get by email and id", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "adam@example.com")
		require.NoError(t, err)
		assert.Equal(t, adam.ID, got.ID)
		assert.Equal(t, user.RoleAdmin, got.Role)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Adam", "Mia", "Zoe"}, []string{all[0].Name, all[1].Name, all[2].Name})

		employees, err := repo.List(ctx, user.RoleEmployee)
		require.NoError(t, err)
		assert.Len(t, employees, 2)
	})

	t.Run("update", func(t *testing.T) {
		zoe.Name = "Zoe Q"
		zoe.Role = user.RoleAdmin
		updated, err := repo.Update(ctx, zoe)
		require.NoError(t, err)
		assert.Equal(t, "Zoe Q", updated.Name)
		assert.Equal(t, user.RoleAdmin, updated.Role)

		zoe.Email = "adam@example.com"
		_, err = repo.Update(ctx, zoe)
		assert.ErrorIs(t, err, user.ErrUserEmailExists)

		_, err = repo.Update(ctx, user.User{ID: "missing", Name: "x", Email: "x@example.com"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, adam.ID, "new-hash"))
		got, err := repo.GetByID(ctx, adam.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "x"), user.ErrUserNotFound)
	})
}

func TestAttendanceRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAttendanceRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "Ana", "ana@example.com", user.RoleEmployee)
	other := createTestUser(t, users, "Ben", "ben@example.com", user.RoleEmployee)

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByUserAndDate(ctx, u.ID, day(2024, 3, 1))
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})

	t.Run("upsert keeps one row per user and day", func(t *testing.T) {
		in := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
		out := time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)

		first, err := repo.Upsert(ctx, attendance.Attendance{
			UserID:      u.ID,
			Date:        day(2024, 3, 10),
			Status:      attendance.StatusPresent,
			CheckInTime: &in,
			TotalHours:  decimal.Zero,
		})
		require.NoError(t, err)
		require.NotNil(t, first.CheckInTime)
		assert.True(t, first.CheckInTime.Equal(in))

		second, err := repo.Upsert(ctx, attendance.Attendance{
			UserID:       u.ID,
			Date:         day(2024, 3, 10),
			Status:       attendance.StatusPresent,
			CheckInTime:  &in,
			CheckOutTime: &out,
			TotalHours:   decimal.RequireFromString("8.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.TotalHours.Equal(decimal.NewFromInt(8)))

		var count int64
		require.NoError(t, db.Model(&attendanceModel{}).Where("user_id = ?", u.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("fractional hours survive a round trip", func(t *testing.T) {
		saved, err := repo.Upsert(ctx, attendance.Attendance{
			UserID:     u.ID,
			Date:       day(2024, 3, 11),
			Status:     attendance.StatusPresent,
			TotalHours: decimal.RequireFromString("7.75"),
		})
		require.NoError(t, err)
		assert.Equal(t, "7.75", saved.TotalHours.StringFixed(2))
	})

	t.Run("list window", func(t *testing.T) {
		_, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: day(2024, 4, 1), Status: attendance.StatusAbsent})
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, attendance.Attendance{UserID: other.ID, Date: day(2024, 3, 5), Status: attendance.StatusLeave})
		require.NoError(t, err)

		mine, err := repo.ListByUser(ctx, u.ID, day(2024, 3, 1), day(2024, 4, 1))
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.True(t, mine[0].Date.Equal(day(2024, 3, 10)))
		assert.True(t, mine[1].Date.Equal(day(2024, 3, 11)))

		everyone, err := repo.ListByPeriod(ctx, day(2024, 3, 1), day(2024, 4, 1))
		require.NoError(t, err)
		require.Len(t, everyone, 3)
		assert.Equal(t, other.ID, everyone[0].UserID)
	})

	t.Run("non-UTC days match their UTC rows", func(t *testing.T) {
		wib := time.FixedZone("WIB", 7*60*60)
		localDay := time.Date(2024, 5, 1, 0, 0, 0, 0, wib)
		_, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: localDay, Status: attendance.StatusAbsent})
		require.NoError(t, err)

		got, err := repo.GetByUserAndDate(ctx, u.ID, localDay)
		require.NoError(t, err)
		assert.True(t, got.Date.Equal(localDay))
	})
}

func TestLeaveRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewLeaveRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "Ana", "ana@example.com", user.RoleEmployee)

	newLeave := func(start, end time.Time) leave.Leave {
		l, err := repo.Create(ctx, leave.Leave{
			UserID:    u.ID,
			StartDate: start,
			EndDate:   end,
			Type:      leave.TypeSick,
			Reason:    "flu",
			Status:    leave.StatusPending,
		})
		require.NoError(t, err)
		return l
	}

	first := newLeave(day(2024, 3, 10), day(2024, 3, 12))
	second := newLeave(day(2024, 4, 1), day(2024, 4, 1))

	t.Run("create joins requester", func(t *testing.T) {
		require.NotNil(t, first.UserName)
		assert.Equal(t, "Ana", *first.UserName)
		assert.Equal(t, "ana@example.com", *first.UserEmail)
		assert.True(t, first.StartDate.Equal(day(2024, 3, 10)))
	})

	t.Run("list by user newest first", func(t *testing.T) {
		mine, err := repo.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, second.ID, mine[0].ID)
		assert.Equal(t, first.ID, mine[1].ID)
	})

	t.Run("pending oldest first", func(t *testing.T) {
		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.ID, pending[0].ID)
	})

	t.Run("status moves once", func(t *testing.T) {
		approved, err := repo.UpdateStatus(ctx, first.ID, leave.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, approved.Status)

		_, err = repo.UpdateStatus(ctx, first.ID, leave.StatusRejected)
		assert.ErrorIs(t, err, leave.ErrLeaveNotPending)

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
		_, err = repo.UpdateStatus(ctx, "missing", leave.StatusApproved)
		assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
	})
}

func TestTransactorRollsBack(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAttendanceRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()

	u := createTestUser(t, users, "Ana", "ana@example.com", user.RoleEmployee)
	boom := errors.New("boom")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: day(2024, 3, 10), Status: attendance.StatusLeave}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: day(2024, 3, 11), Status: attendance.StatusLeave}); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	records, err := repo.ListByUser(ctx, u.ID, day(2024, 3, 1), day(2024, 4, 1))
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Upsert(ctx, attendance.Attendance{UserID: u.ID, Date: day(2024, 3, 10), Status: attendance.StatusLeave})
		return err
	}))
	records, err = repo.ListByUser(ctx, u.ID, day(2024, 3, 1), day(2024, 4, 1))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRefreshTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "Ana", "ana@example.com", user.RoleEmployee)
	session := auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"}

	require.NoError(t, repo.CreateRefreshToken(ctx, u.ID, "token-a", time.Now().Add(time.Hour).Unix(), session))

	revoked, err := repo.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRefreshTokenRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "token-a"))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, repo.CreateRefreshToken(ctx, u.ID, "token-old", time.Now().Add(-time.Hour).Unix(), session))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-old")
	require.NoError(t, err)
	assert.True(t, revoked)
}
