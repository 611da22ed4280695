package employee

import (
	"time"

	employeeDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/employee"
)

const (
	EmploymentProbation = "probation"
	EmploymentPermanent = "permanent"
	EmploymentContract  = "contract"

	StatusActive   = "active"
	StatusResigned = "resigned"
)

// Leave types and their default annual entitlement. "Others" is unpaid and
// never counted against a balance.
const (
	LeaveTypeCasual = "Casual Leave"
	LeaveTypeSick   = "Sick Leave"
	LeaveTypeAnnual = "Annual Leave"
	LeaveTypeOthers = "Others"
)

var DefaultEntitlements = map[string]int{
	LeaveTypeCasual: 6,
	LeaveTypeSick:   8,
	LeaveTypeAnnual: 14,
}

type Employee struct {
	ID             int64      `json:"id"`
	EmployeeCode   string     `json:"employee_code"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Department     string     `json:"department"`
	Designation    string     `json:"designation"`
	Role           string     `json:"role"`
	EmploymentType string     `json:"employment_type"`
	Status         string     `json:"status"`
	JoinedAt       time.Time  `json:"joined_at"`
	ResignedAt     *time.Time `json:"resigned_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e *Employee) OnProbation() bool {
	return e.EmploymentType == EmploymentProbation
}

func (e *Employee) Resign() {
	now := time.Now()
	e.Status = StatusResigned
	e.ResignedAt = &now
	e.UpdatedAt = now
}

// Balance is the per-type leave counter pair exposed to callers.
type Balance struct {
	LeaveType string `json:"leave_type"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
}

func (b Balance) Remaining() int {
	return b.Total - b.Used
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		Email:          e.Email,
		Department:     e.Department,
		Designation:    e.Designation,
		Role:           e.Role,
		EmploymentType: e.EmploymentType,
		Status:         e.Status,
		JoinedAt:       e.JoinedAt,
		ResignedAt:     e.ResignedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		Email:          e.Email,
		Department:     e.Department,
		Designation:    e.Designation,
		Role:           e.Role,
		EmploymentType: e.EmploymentType,
		Status:         e.Status,
		JoinedAt:       e.JoinedAt,
		ResignedAt:     e.ResignedAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModelSlice(records []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(records))
	for i, e := range records {
		result[i] = FromDataModel(e)
	}
	return result
}
