package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	reportHandler ReportHandler,
	employeeHandler EmployeeHandler,
	userHandler UserHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceRecordOwn))
					r.Post("/checkin", attendanceHandler.CheckIn)
					r.Post("/checkout", attendanceHandler.CheckOut)
					r.Get("/today", attendanceHandler.Today)
				})

				r.With(middleware.RequireSelfOrAdmin("userID")).Get("/summary/{userID}", attendanceHandler.Summary)
				r.With(middleware.RequireSelfOrAdmin("userID")).Get("/details/{userID}", attendanceHandler.Details)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApply))
					r.Post("/apply", leaveHandler.Apply)
					r.Get("/my", leaveHandler.ListMine)
				})

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Get("/pending", leaveHandler.ListPending)
					r.Put("/{leaveID}/approve", leaveHandler.Approve)
					r.Put("/{leaveID}/reject", leaveHandler.Reject)
				})
			})

			r.Route("/manager", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.With(middleware.RequirePermission(user.PermissionAttendanceOverride)).Post("/attendance/set", attendanceHandler.SetStatus)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/attendance", reportHandler.AttendanceOverview)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/daily", reportHandler.DailyAttendance)
				r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/attendance/export/{userID}", reportHandler.ExportMonthly)
				r.With(middleware.RequirePermission(user.PermissionReportsView)).Get("/analytics/monthly", reportHandler.MonthlyAnalytics)

				r.Route("/employees", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Get("/", employeeHandler.ListEmployees)
					r.Put("/{userID}", employeeHandler.UpdateEmployee)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionProfileManageOwn))
				r.Get("/profile", userHandler.GetProfile)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Put("/change-password", userHandler.ChangePassword)
			})
		})
	})
	return r
}
