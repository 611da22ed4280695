package attendance

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/leave"
)

type Repository interface {
	// UpsertRecords writes one row per (employee, date), replacing the
	// times and status on conflict so re-uploads are idempotent.
	UpsertRecords(records []*Record) error
	List(filter RecordFilter) ([]*Record, error)
}

type EmployeeDirectory interface {
	List(department string, limit, offset int) ([]*employee.Employee, error)
}

// LeaveDirectory feeds the monthly report's On Leave days.
type LeaveDirectory interface {
	List(filter leave.ListFilter) ([]*leave.Request, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo          Repository
	employees     EmployeeDirectory
	leaves        LeaveDirectory
	bus           EventPublisher
	lateThreshold int // minutes since midnight
	logger        *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, leaves LeaveDirectory, bus EventPublisher, lateThreshold int, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		employees:     employees,
		leaves:        leaves,
		bus:           bus,
		lateThreshold: lateThreshold,
		logger:        logger,
	}
}

// Import runs the whole pipeline: read, parse, match, aggregate, upsert.
// Unmatched rows land in the report; the matched subset still commits. Zero
// matches is an error.
func (s *Service) Import(ctx context.Context, reader io.Reader, filename string) (*ImportReport, error) {
	rows, err := ReadRows(reader, filename)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeUnreadableFile)
	}

	punches, err := ParseRows(rows)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeUnreadableFile)
	}

	index, err := s.buildEmployeeIndex()
	if err != nil {
		return nil, err
	}

	report := &ImportReport{TotalRows: len(punches)}

	// punch minutes per (employee, date)
	type key struct {
		employeeID int64
		date       string
	}
	grouped := make(map[key][]int)

	for _, punch := range punches {
		emp, reason := index.match(punch)
		result := MatchResult{
			Row:     punch.Index,
			RawID:   punch.RawID,
			RawName: punch.RawName,
		}
		if emp == nil {
			result.Reason = reason
			report.UnmatchedRows++
			report.Results = append(report.Results, result)
			continue
		}

		result.Matched = true
		result.EmployeeID = emp.ID
		report.MatchedRows++
		report.Results = append(report.Results, result)

		k := key{employeeID: emp.ID, date: punch.Date}
		grouped[k] = append(grouped[k], punch.Minutes)
	}

	if report.MatchedRows == 0 {
		return nil, internal.NewValidationError("no rows matched any employee", internal.ErrCodeNoRowsMatched)
	}

	now := time.Now()
	records := make([]*Record, 0, len(grouped))
	for k, minutes := range grouped {
		timeIn, timeOut := aggregatePunches(minutes)
		record := &Record{
			EmployeeID: k.employeeID,
			Date:       k.date,
			TimeIn:     FormatMinutes(timeIn),
			Status:     StatusPresent,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if timeOut >= 0 {
			record.TimeOut = FormatMinutes(timeOut)
		}
		if timeIn > s.lateThreshold {
			record.Status = StatusLate
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].EmployeeID < records[j].EmployeeID
	})

	if err := s.repo.UpsertRecords(records); err != nil {
		s.logger.Error("failed to upsert attendance records", "error", err)
		return nil, err
	}
	report.RecordsUpserted = len(records)

	s.bus.Publish(ctx, events.NewAttendanceImportedEvent(report.MatchedRows, report.UnmatchedRows))
	s.logger.Info("attendance import finished",
		"file", filename,
		"rows", report.TotalRows,
		"matched", report.MatchedRows,
		"unmatched", report.UnmatchedRows,
		"records", report.RecordsUpserted)

	return report, nil
}

// aggregatePunches dedupes and sorts a day's punches. The first is time-in;
// the last is time-out only when there is more than one distinct punch.
func aggregatePunches(minutes []int) (timeIn, timeOut int) {
	distinct := make(map[int]bool, len(minutes))
	for _, m := range minutes {
		distinct[m] = true
	}
	sorted := make([]int, 0, len(distinct))
	for m := range distinct {
		sorted = append(sorted, m)
	}
	sort.Ints(sorted)

	timeIn = sorted[0]
	timeOut = -1
	if len(sorted) > 1 {
		timeOut = sorted[len(sorted)-1]
	}
	return timeIn, timeOut
}

type employeeIndex struct {
	byCode map[string]*employee.Employee
	byID   map[string]*employee.Employee
	byName map[string]*employee.Employee
}

func (s *Service) buildEmployeeIndex() (*employeeIndex, error) {
	list, err := s.employees.List("", 0, 0)
	if err != nil {
		return nil, err
	}

	index := &employeeIndex{
		byCode: make(map[string]*employee.Employee),
		byID:   make(map[string]*employee.Employee),
		byName: make(map[string]*employee.Employee),
	}
	for _, emp := range list {
		index.byCode[strings.ToLower(emp.EmployeeCode)] = emp
		index.byID[strconv.FormatInt(emp.ID, 10)] = emp
		index.byName[normalizeName(emp.FullName)] = emp
	}
	return index, nil
}

// match resolves a punch to an employee: code or numeric id first, exact
// case-insensitive full name second.
func (idx *employeeIndex) match(punch ParsedRow) (*employee.Employee, string) {
	if punch.RawID != "" {
		if emp, ok := idx.byCode[strings.ToLower(punch.RawID)]; ok {
			return emp, ""
		}
		if emp, ok := idx.byID[punch.RawID]; ok {
			return emp, ""
		}
	}
	if punch.RawName != "" {
		if emp, ok := idx.byName[normalizeName(punch.RawName)]; ok {
			return emp, ""
		}
	}
	if punch.RawID != "" {
		return nil, "no employee with code or id " + punch.RawID
	}
	return nil, "no employee named " + punch.RawName
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (s *Service) ListRecords(filter RecordFilter) ([]*Record, error) {
	return s.repo.List(filter)
}
