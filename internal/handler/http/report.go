package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Monthly present-per-day series and status totals
	MonthlyAnalytics(w http.ResponseWriter, r *http.Request)

	// Employee statuses and counts on one date
	AttendanceOverview(w http.ResponseWriter, r *http.Request)

	// Every user's record on one date
	DailyAttendance(w http.ResponseWriter, r *http.Request)

	// One employee's month as CSV or XLSX
	ExportMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// MonthlyAnalytics handles GET /manager/analytics/monthly
func (h *reportHandlerImpl) MonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFrom(r)
	if !ok {
		response.BadRequest(w, "year and month must be numbers", nil)
		return
	}

	result, err := h.reportService.MonthlyAnalytics(r.Context(), filter)
	if err != nil {
		slog.Error("MonthlyAnalytics service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AttendanceOverview handles GET /manager/attendance
func (h *reportHandlerImpl) AttendanceOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceOverview(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		slog.Error("AttendanceOverview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DailyAttendance handles GET /manager/daily
func (h *reportHandlerImpl) DailyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.DailyAttendance(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		slog.Error("DailyAttendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthly handles GET /manager/attendance/export/{userID}
func (h *reportHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFrom(r)
	if !ok {
		response.BadRequest(w, "year and month must be numbers", nil)
		return
	}

	format := report.ExportFormat(r.URL.Query().Get("format"))
	file, err := h.reportService.ExportMonthly(r.Context(), chi.URLParam(r, "userID"), filter, format)
	if err != nil {
		slog.Error("ExportMonthly service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}
