package employee

import (
	"time"
)

// Employee represents the employees table.
type Employee struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	EmployeeCode   string     `json:"employee_code" gorm:"column:employee_code;uniqueIndex;not null"`
	FullName       string     `json:"full_name" gorm:"column:full_name;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Department     string     `json:"department" gorm:"not null"`
	Designation    string     `json:"designation"`
	Role           string     `json:"role" gorm:"default:employee"`
	EmploymentType string     `json:"employment_type" gorm:"column:employment_type;default:permanent"`
	Status         string     `json:"status" gorm:"default:active"`
	JoinedAt       time.Time  `json:"joined_at" gorm:"column:joined_at;type:date"`
	ResignedAt     *time.Time `json:"resigned_at,omitempty" gorm:"column:resigned_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

// LeaveBalance is one per (employee, leave type) counter pair.
type LeaveBalance struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;uniqueIndex:idx_balance_employee_type;not null"`
	LeaveType  string    `json:"leave_type" gorm:"column:leave_type;uniqueIndex:idx_balance_employee_type;not null"`
	Total      int       `json:"total" gorm:"not null"`
	Used       int       `json:"used" gorm:"not null;default:0"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
