package attendance

import (
	"time"
)

// Record represents the attendance_records table. One row per
// (employee, date); re-uploads upsert against that key.
type Record struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;uniqueIndex:idx_attendance_employee_date;not null"`
	Date       time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_attendance_employee_date;not null"`
	TimeIn     string    `json:"time_in" gorm:"column:time_in"`
	TimeOut    string    `json:"time_out" gorm:"column:time_out"`
	Status     string    `json:"status" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Record) TableName() string {
	return "attendance_records"
}
