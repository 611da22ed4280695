package attendance

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadableFile is returned when the upload cannot be opened as a
// spreadsheet at all.
var ErrUnreadableFile = errors.New("unreadable spreadsheet")

// ParsedRow is one punch extracted from the upload, before employee
// matching.
type ParsedRow struct {
	Index   int    // 1-based sheet row, for the match report
	RawID   string // employee id or code column, verbatim
	RawName string
	Date    string // normalized YYYY-MM-DD
	Minutes int    // punch time as minutes since midnight
}

// ReadRows opens xlsx uploads with excelize, legacy xls with extrame/xls
// and csv with encoding/csv, returning the sheet as a string grid.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		csvReader := csv.NewReader(bytes.NewReader(data))
		csvReader.FieldsPerRecord = -1 // punch exports pad rows unevenly
		rows, err := csvReader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: worksheet is empty", ErrUnreadableFile)
		}
		return rows, nil
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableFile)
		}
		rows := workbook.ReadAllCells(100000)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: worksheet is empty", ErrUnreadableFile)
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadableFile)
		}

		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: worksheet is empty", ErrUnreadableFile)
		}
		return rows, nil
	}
}

// normalizeHeader strips everything but letters and digits so that
// "Employee ID", "employee_id" and "EmployeeID" all collapse to the same key.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	idHeaders   = []string{"employeeid", "empid", "id", "employeecode", "empcode", "badgeid", "userid", "acno"}
	nameHeaders = []string{"name", "employeename", "fullname", "empname"}
	dateHeaders = []string{"date", "attendancedate", "punchdate", "workdate"}
	timeHeaders = []string{"time", "punchtime", "clocktime", "timestamp", "datetime", "punch"}
)

type columnMap struct {
	id, name, date, clock int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{id: -1, name: -1, date: -1, clock: -1}
	match := func(normalized string, candidates []string) bool {
		for _, c := range candidates {
			if normalized == c {
				return true
			}
		}
		return false
	}
	for idx, cell := range header {
		normalized := normalizeHeader(cell)
		switch {
		case cols.id == -1 && match(normalized, idHeaders):
			cols.id = idx
		case cols.name == -1 && match(normalized, nameHeaders):
			cols.name = idx
		case cols.date == -1 && match(normalized, dateHeaders):
			cols.date = idx
		case cols.clock == -1 && match(normalized, timeHeaders):
			cols.clock = idx
		}
	}
	if cols.id == -1 && cols.name == -1 {
		return cols, errors.New("no employee id or name column found")
	}
	if cols.clock == -1 {
		return cols, errors.New("no time column found")
	}
	return cols, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"2/1/2006",
	"02/01/2006",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// parseDate accepts Excel serial dates and the usual string layouts.
func parseDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// plausible serial range: 1990..2100 roughly
		if serial >= 32874 && serial <= 73415 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return parsed.Format("2006-01-02"), true
			}
		}
		return "", false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return "", false
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"03:04:05 PM",
	"03:04 PM",
}

// parseClock accepts fractional-day serials ("0.385...") and clock strings,
// returning minutes since midnight.
func parseClock(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if frac, err := strconv.ParseFloat(value, 64); err == nil {
		if frac >= 1 {
			// datetime serial: keep only the day fraction
			frac -= float64(int64(frac))
		}
		if frac < 0 || frac >= 1 {
			return 0, false
		}
		return int(frac*24*60 + 0.5), true
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, strings.ToUpper(value)); err == nil {
			return parsed.Hour()*60 + parsed.Minute(), true
		}
	}

	// full datetime in the time column
	for _, layout := range []string{"2006-01-02 15:04:05", "02/01/2006 15:04", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Hour()*60 + parsed.Minute(), true
		}
	}
	return 0, false
}

// parseDateTimeCell splits a combined datetime cell into date and minutes.
func parseDateTimeCell(value string) (string, int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", 0, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 32874 && serial <= 73415 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.Format("2006-01-02"), parsed.Hour()*60 + parsed.Minute(), true
		}
	}

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "02/01/2006 15:04", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), parsed.Hour()*60 + parsed.Minute(), true
		}
	}
	return "", 0, false
}

// ParseRows turns a sheet grid into punches. The first row must be the
// header. Rows whose date or time cannot be parsed are skipped here; employee
// matching happens later and produces the per-row report.
func ParseRows(rows [][]string) ([]ParsedRow, error) {
	if len(rows) < 2 {
		return nil, errors.New("sheet has no data rows")
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []ParsedRow
	for i, row := range rows[1:] {
		parsed := ParsedRow{
			Index:   i + 2,
			RawID:   cell(row, cols.id),
			RawName: cell(row, cols.name),
		}
		if parsed.RawID == "" && parsed.RawName == "" {
			continue
		}

		clockCell := cell(row, cols.clock)
		if cols.date >= 0 {
			date, ok := parseDate(cell(row, cols.date))
			if !ok {
				continue
			}
			minutes, ok := parseClock(clockCell)
			if !ok {
				continue
			}
			parsed.Date = date
			parsed.Minutes = minutes
		} else {
			date, minutes, ok := parseDateTimeCell(clockCell)
			if !ok {
				continue
			}
			parsed.Date = date
			parsed.Minutes = minutes
		}

		out = append(out, parsed)
	}

	if len(out) == 0 {
		return nil, errors.New("no parsable punches found")
	}
	return out, nil
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseThreshold converts a "HH:MM" threshold into minutes since midnight.
func ParseThreshold(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", value, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
