package leave

import (
	"time"
)

// LeaveRequest represents the leave_requests table.
type LeaveRequest struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	EmployeeID      int64      `json:"employee_id" gorm:"column:employee_id;not null;index"`
	Department      string     `json:"department" gorm:"not null"`
	LeaveType       string     `json:"leave_type" gorm:"column:leave_type;not null"`
	FromDate        time.Time  `json:"from_date" gorm:"column:from_date;type:date;not null"`
	ToDate          time.Time  `json:"to_date" gorm:"column:to_date;type:date;not null"`
	Days            int        `json:"days" gorm:"not null"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status" gorm:"not null;index"`
	HODActionBy     *int64     `json:"hod_action_by,omitempty" gorm:"column:hod_action_by"`
	HRActionBy      *int64     `json:"hr_action_by,omitempty" gorm:"column:hr_action_by"`
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" gorm:"column:processed_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
