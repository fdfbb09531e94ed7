package report

// ========================================
// MONTHLY ANALYTICS
// ========================================

type DailyPresence struct {
	Day     int `json:"day"`
	Present int `json:"present"`
}

type StatusSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
}

type MonthlyAnalyticsResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	DailyData     []DailyPresence `json:"daily_data"`
	StatusSummary StatusSummary   `json:"status_summary"`
}

// ========================================
// DAILY VIEWS
// ========================================

// DailyRecord is one user's state on one day. Status is "No Record" when the day has no attendance row.
type DailyRecord struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role,omitempty"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	TotalHours   float64 `json:"total_hours"`
}

type DailyAttendanceResponse struct {
	Date    string        `json:"date"`
	Records []DailyRecord `json:"records"`
}

// AttendanceOverviewResponse counts employees only. AbsentCount includes employees without a record.
type AttendanceOverviewResponse struct {
	Date           string        `json:"date"`
	TotalEmployees int           `json:"total_employees"`
	PresentCount   int           `json:"present_count"`
	AbsentCount    int           `json:"absent_count"`
	LeaveCount     int           `json:"leave_count"`
	Employees      []DailyRecord `json:"employees"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
