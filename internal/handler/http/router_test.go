package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	clock   time.Time
}

// newTestServer wires the full router over an in-memory sqlite database in UTC.
func newTestServer(t *testing.T) *testServer {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := &testServer{t: t, clock: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)}

	cal := calendar.New(time.UTC)
	tx := sqlite.NewTransactor(db)
	users := sqlite.NewUserRepository(db)
	attendances := sqlite.NewAttendanceRepository(db)
	leaves := sqlite.NewLeaveRepository(db)
	tokens := sqlite.NewRefreshTokenRepository(db)
	JWTService := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour)

	userSvc := userService.NewUserService(users)
	s.handler = NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		[]string{"http://localhost:3000"},
		JWTService,
		NewAuthHandler(JWTService, authService.NewAuthService(tx, users, tokens, JWTService)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(tx, cal, func() time.Time { return s.clock }, attendances, users)),
		NewLeaveHandler(leaveService.NewLeaveService(tx, cal, leaves, attendances)),
		NewReportHandler(reportService.NewReportService(cal, attendances, users)),
		NewEmployeeHandler(userSvc),
		NewUserHandler(userSvc),
	)
	return s
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), rec.Body.String())
	}
	return env
}

type account struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

func (s *testServer) register(name, email, role string) account {
	rec := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(s.t, rec, &tokens)
	return account{ID: tokens.User.ID, AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
}
