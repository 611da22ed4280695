package attendance

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mfadhilr/office-management/internal/leave"
)

// BuildMonthlyReport fills one row per employee with a day-by-day status
// grid. Days with no record fall back to On Leave when an approved leave
// covers the date, otherwise Absent; future days are left blank.
func (s *Service) BuildMonthlyReport(year, month int) (*MonthlyReport, error) {
	employees, err := s.employees.List("", 0, 0)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	records, err := s.repo.List(RecordFilter{
		FromDate: first.Format("2006-01-02"),
		ToDate:   last.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	recordsByKey := make(map[string]*Record, len(records))
	for _, r := range records {
		recordsByKey[fmt.Sprintf("%d|%s", r.EmployeeID, r.Date)] = r
	}

	approved, err := s.leaves.List(leave.ListFilter{Status: leave.StatusApproved})
	if err != nil {
		return nil, err
	}

	onLeave := func(employeeID int64, day time.Time) bool {
		for _, req := range approved {
			if req.EmployeeID != employeeID {
				continue
			}
			if !day.Before(req.FromDate) && !day.After(req.ToDate) {
				return true
			}
		}
		return false
	}

	today := time.Now().Format("2006-01-02")
	report := &MonthlyReport{Year: year, Month: month}

	for _, emp := range employees {
		row := EmployeeMonth{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			FullName:     emp.FullName,
			Department:   emp.Department,
		}

		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			date := day.Format("2006-01-02")
			status := DayStatus{Date: date}

			if record, ok := recordsByKey[fmt.Sprintf("%d|%s", emp.ID, date)]; ok {
				status.Status = record.Status
				status.TimeIn = record.TimeIn
				status.TimeOut = record.TimeOut
				if record.Status == StatusLate {
					row.LateDays++
				} else {
					row.PresentDays++
				}
			} else if onLeave(emp.ID, day) {
				status.Status = StatusOnLeave
				row.LeaveDays++
			} else if date <= today {
				status.Status = StatusAbsent
				row.AbsentDays++
			}

			row.Days = append(row.Days, status)
		}

		report.Employees = append(report.Employees, row)
	}

	return report, nil
}

// WriteMonthlyWorkbook renders the report as an xlsx workbook: one row per
// employee, one column per day, plus the summary counters.
func (s *Service) WriteMonthlyWorkbook(report *MonthlyReport, w io.Writer) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	sheet := fmt.Sprintf("%04d-%02d", report.Year, report.Month)
	file.SetSheetName(file.GetSheetName(0), sheet)

	header := []interface{}{"Code", "Name", "Department"}
	if len(report.Employees) > 0 {
		for _, day := range report.Employees[0].Days {
			header = append(header, day.Date[8:])
		}
	}
	header = append(header, "Present", "Late", "Absent", "On Leave")
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, emp := range report.Employees {
		row := []interface{}{emp.EmployeeCode, emp.FullName, emp.Department}
		for _, day := range emp.Days {
			cell := day.Status
			if day.TimeIn != "" {
				cell = day.Status + " " + day.TimeIn
			}
			row = append(row, cell)
		}
		row = append(row, emp.PresentDays, emp.LateDays, emp.AbsentDays, emp.LeaveDays)

		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cellRef, &row); err != nil {
			return err
		}
	}

	return file.Write(w)
}
