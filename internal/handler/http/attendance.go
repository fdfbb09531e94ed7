package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Details(w http.ResponseWriter, r *http.Request)

	// Manager override
	SetStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// periodFrom reads ?year&month. Missing values are left zero for the filter to reject.
func periodFrom(r *http.Request) (attendance.PeriodFilter, bool) {
	var filter attendance.PeriodFilter
	var err error

	if y := r.URL.Query().Get("year"); y != "" {
		if filter.Year, err = strconv.Atoi(y); err != nil {
			return filter, false
		}
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if filter.Month, err = strconv.Atoi(m); err != nil {
			return filter, false
		}
	}
	return filter, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.CurrentUser(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), userID)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.CurrentUser(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), userID)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	userID, _, err := middleware.CurrentUser(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Today(r.Context(), userID)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		response.SuccessWithMessage(w, "No attendance recorded today", nil)
		return
	}
	if err != nil {
		slog.Error("Today service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFrom(r)
	if !ok {
		response.BadRequest(w, "year and month must be numbers", nil)
		return
	}

	result, err := h.attendanceService.Summary(r.Context(), chi.URLParam(r, "userID"), filter)
	if err != nil {
		slog.Error("Summary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Details implements AttendanceHandler.
func (h *attendanceHandlerImpl) Details(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFrom(r)
	if !ok {
		response.BadRequest(w, "year and month must be numbers", nil)
		return
	}

	result, err := h.attendanceService.Details(r.Context(), chi.URLParam(r, "userID"), filter)
	if err != nil {
		slog.Error("Details service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.SetStatus(r.Context(), req)
	if err != nil {
		slog.Error("SetStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", result)
}
