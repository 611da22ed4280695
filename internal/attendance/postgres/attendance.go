package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mfadhilr/office-management/internal/attendance"

	attendanceDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/attendance"
)

// The domain carries dates as "2006-01-02" strings; the table stores a
// DATE column, which the driver hands back as time.Time. Conversion
// happens here so report keys and JSON never see timestamps.
const dateLayout = "2006-01-02"

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &AttendanceRepository{db: db}
}

// UpsertRecords writes one row per (employee, date). On conflict the times
// and status are replaced, so re-uploading a corrected sheet is idempotent.
func (r *AttendanceRepository) UpsertRecords(records []*attendance.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]attendanceDatamodel.Record, len(records))
	for i, record := range records {
		date, err := time.Parse(dateLayout, record.Date)
		if err != nil {
			return fmt.Errorf("invalid attendance date %q: %w", record.Date, err)
		}
		rows[i] = attendanceDatamodel.Record{
			EmployeeID: record.EmployeeID,
			Date:       date,
			TimeIn:     record.TimeIn,
			TimeOut:    record.TimeOut,
			Status:     record.Status,
			CreatedAt:  record.CreatedAt,
			UpdatedAt:  record.UpdatedAt,
		}
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"time_in", "time_out", "status", "updated_at"}),
	}).Create(&rows).Error
}

func (r *AttendanceRepository) List(filter attendance.RecordFilter) ([]*attendance.Record, error) {
	query := r.db.Model(&attendanceDatamodel.Record{}).Order("date ASC, employee_id ASC")
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.FromDate != "" {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("date <= ?", filter.ToDate)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []attendanceDatamodel.Record
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]*attendance.Record, len(rows))
	for i, row := range rows {
		records[i] = &attendance.Record{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			Date:       row.Date.Format(dateLayout),
			TimeIn:     row.TimeIn,
			TimeOut:    row.TimeOut,
			Status:     row.Status,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		}
	}
	return records, nil
}
