package postgres_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mfadhilr/office-management/internal/attendance"
	attendancePostgres "github.com/mfadhilr/office-management/internal/attendance/postgres"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/leave"
)

func TestAttendancePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Postgres Suite")
}

// SQLite-compatible model for testing
type SQLiteRecord struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;uniqueIndex:idx_attendance_employee_date;not null"`
	Date       time.Time `gorm:"uniqueIndex:idx_attendance_employee_date;not null"`
	TimeIn     string    `gorm:"column:time_in"`
	TimeOut    string    `gorm:"column:time_out"`
	Status     string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (SQLiteRecord) TableName() string {
	return "attendance_records"
}

type staffDirectory struct{ employees []*employee.Employee }

func (d *staffDirectory) List(department string, limit, offset int) ([]*employee.Employee, error) {
	return d.employees, nil
}

type emptyLeaves struct{}

func (emptyLeaves) List(filter leave.ListFilter) ([]*leave.Request, error) {
	return nil, nil
}

var _ = Describe("Attendance PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo attendance.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRecord{})
		Expect(err).NotTo(HaveOccurred())

		repo = attendancePostgres.NewAttendanceRepository(db)
	})

	newRecord := func(employeeID int64, date, timeIn string) *attendance.Record {
		return &attendance.Record{
			EmployeeID: employeeID,
			Date:       date,
			TimeIn:     timeIn,
			Status:     attendance.StatusPresent,
		}
	}

	Describe("UpsertRecords and List", func() {
		It("should hand dates back in the same calendar form they were stored with", func() {
			err := repo.UpsertRecords([]*attendance.Record{newRecord(1, "2026-07-06", "08:58")})
			Expect(err).NotTo(HaveOccurred())

			records, err := repo.List(attendance.RecordFilter{EmployeeID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].Date).To(Equal("2026-07-06"))
			Expect(records[0].TimeIn).To(Equal("08:58"))
		})

		It("should reject a date that is not a plain calendar day", func() {
			err := repo.UpsertRecords([]*attendance.Record{newRecord(1, "2026-07-06T00:00:00Z", "08:58")})
			Expect(err).To(HaveOccurred())
		})

		It("should replace times on re-upload instead of duplicating the day", func() {
			Expect(repo.UpsertRecords([]*attendance.Record{newRecord(1, "2026-07-06", "09:02")})).To(Succeed())
			Expect(repo.UpsertRecords([]*attendance.Record{newRecord(1, "2026-07-06", "08:47")})).To(Succeed())

			records, err := repo.List(attendance.RecordFilter{EmployeeID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].TimeIn).To(Equal("08:47"))
		})

		It("should filter by date range", func() {
			Expect(repo.UpsertRecords([]*attendance.Record{
				newRecord(1, "2026-06-28", "09:00"),
				newRecord(1, "2026-07-01", "09:00"),
				newRecord(1, "2026-07-30", "09:00"),
				newRecord(1, "2026-08-02", "09:00"),
			})).To(Succeed())

			records, err := repo.List(attendance.RecordFilter{
				FromDate: "2026-07-01",
				ToDate:   "2026-07-31",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Date).To(Equal("2026-07-01"))
			Expect(records[1].Date).To(Equal("2026-07-30"))
		})
	})

	Describe("monthly report over stored rows", func() {
		It("should count a stored punch as Present, not Absent", func() {
			Expect(repo.UpsertRecords([]*attendance.Record{newRecord(7, "2026-07-06", "08:58")})).To(Succeed())

			directory := &staffDirectory{employees: []*employee.Employee{{
				ID:           7,
				EmployeeCode: "EMP-007",
				FullName:     "Ayesha Khan",
				Department:   "Finance",
			}}}
			service := attendance.NewService(repo, directory, emptyLeaves{}, nil, 555,
				slog.New(slog.NewTextHandler(io.Discard, nil)))

			report, err := service.BuildMonthlyReport(2026, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Employees).To(HaveLen(1))

			row := report.Employees[0]
			Expect(row.PresentDays).To(Equal(1))

			var attended attendance.DayStatus
			for _, day := range row.Days {
				if day.Date == "2026-07-06" {
					attended = day
				}
			}
			Expect(attended.Status).To(Equal(attendance.StatusPresent))
			Expect(attended.TimeIn).To(Equal("08:58"))
		})
	})
})
