package attendance

import "time"

const (
	StatusPresent = "Present"
	StatusLate    = "Late"

	// report-only statuses, never stored
	StatusAbsent  = "Absent"
	StatusOnLeave = "On Leave"
)

type Record struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Date       string    `json:"date"`
	TimeIn     string    `json:"time_in"`
	TimeOut    string    `json:"time_out,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MatchResult is the per-row outcome of employee matching. Unmatched rows
// are reported, not silently dropped; the matched subset still commits.
type MatchResult struct {
	Row        int    `json:"row"`
	RawID      string `json:"raw_id,omitempty"`
	RawName    string `json:"raw_name,omitempty"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	Matched    bool   `json:"matched"`
	Reason     string `json:"reason,omitempty"`
}

type ImportReport struct {
	TotalRows       int           `json:"total_rows"`
	MatchedRows     int           `json:"matched_rows"`
	UnmatchedRows   int           `json:"unmatched_rows"`
	RecordsUpserted int           `json:"records_upserted"`
	Results         []MatchResult `json:"results"`
}

type RecordFilter struct {
	EmployeeID int64
	FromDate   string
	ToDate     string
	Status     string
	Limit      int
	Offset     int
}

// DayStatus is one cell of the monthly report grid.
type DayStatus struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	TimeIn  string `json:"time_in,omitempty"`
	TimeOut string `json:"time_out,omitempty"`
}

type EmployeeMonth struct {
	EmployeeID   int64       `json:"employee_id"`
	EmployeeCode string      `json:"employee_code"`
	FullName     string      `json:"full_name"`
	Department   string      `json:"department"`
	Days         []DayStatus `json:"days"`
	PresentDays  int         `json:"present_days"`
	LateDays     int         `json:"late_days"`
	AbsentDays   int         `json:"absent_days"`
	LeaveDays    int         `json:"leave_days"`
}

type MonthlyReport struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Employees []EmployeeMonth `json:"employees"`
}
