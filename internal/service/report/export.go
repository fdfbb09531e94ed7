package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Attendance"
)

var (
	exportHeader   = []string{"Date", "Status", "CheckInTime", "CheckOutTime", "TotalHours"}
	unsafeFileChar = regexp.MustCompile(`(?i)[^a-z0-9]+`)
)

// ExportMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthly(ctx context.Context, userID string, filter attendance.PeriodFilter, format report.ExportFormat) (report.ExportFile, error) {
	if format == "" {
		format = report.ExportFormatCSV
	}
	if format != report.ExportFormatCSV && format != report.ExportFormatXLSX {
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
	if err := filter.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	month := time.Month(filter.Month)
	from, to := s.cal.MonthWindow(filter.Year, month)

	var (
		u       user.User
		records []attendance.Attendance
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = s.userRepo.GetByID(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByUser(gCtx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list attendance for export: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.ExportFile{}, err
	}

	rows := s.exportRows(records, filter.Year, month)
	base := fmt.Sprintf("attendance_%s_%04d-%02d", unsafeFileChar.ReplaceAllString(u.Name, "_"), filter.Year, filter.Month)

	switch format {
	case report.ExportFormatXLSX:
		content, err := writeXLSX(rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
		}
		return report.ExportFile{Filename: base + ".xlsx", ContentType: contentTypeXLSX, Content: content}, nil
	default:
		content, err := writeCSV(rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
		}
		return report.ExportFile{Filename: base + ".csv", ContentType: contentTypeCSV, Content: content}, nil
	}
}

// exportRows builds one row per calendar day. Days without a record read "No Record".
func (s *ReportServiceImpl) exportRows(records []attendance.Attendance, year int, month time.Month) [][]string {
	byDay := make(map[string]attendance.Attendance, len(records))
	for _, record := range records {
		byDay[s.cal.Format(record.Date)] = record
	}

	from, _ := s.cal.MonthWindow(year, month)
	last := time.Date(year, month, s.cal.DaysInMonth(year, month), 0, 0, 0, 0, s.cal.Location())

	var rows [][]string
	for _, d := range s.cal.Days(from, last) {
		key := s.cal.Format(d)
		record, ok := byDay[key]
		if !ok {
			rows = append(rows, []string{key, attendance.StatusNoRecord, "", "", ""})
			continue
		}
		rows = append(rows, []string{
			key,
			string(record.Status),
			deref(s.cal.FormatInstant(record.CheckInTime)),
			deref(s.cal.FormatInstant(record.CheckOutTime)),
			record.TotalHours.String(),
		})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, row := range append([][]string{exportHeader}, rows...) {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
