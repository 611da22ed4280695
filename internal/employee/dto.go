package employee

import (
	"errors"
	"time"

	"github.com/mfadhilr/office-management/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	EmployeeCode   string    `json:"employee_code"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	Designation    string    `json:"designation"`
	Role           string    `json:"role"`
	EmploymentType string    `json:"employment_type"`
	JoinedAt       time.Time `json:"joined_at"`
}

func (dto CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_code", dto.EmployeeCode).Required()
	v.Field("full_name", dto.FullName).Required()
	v.Field("email", dto.Email).Required()
	v.Field("department", dto.Department).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	switch dto.EmploymentType {
	case "", EmploymentProbation, EmploymentPermanent, EmploymentContract:
	default:
		return errors.New("invalid employment type")
	}
	return nil
}

type UpdateEmployeeDTO struct {
	FullName       *string `json:"full_name,omitempty"`
	Department     *string `json:"department,omitempty"`
	Designation    *string `json:"designation,omitempty"`
	Role           *string `json:"role,omitempty"`
	EmploymentType *string `json:"employment_type,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	if dto.EmploymentType != nil {
		switch *dto.EmploymentType {
		case EmploymentProbation, EmploymentPermanent, EmploymentContract:
		default:
			return errors.New("invalid employment type")
		}
	}
	return nil
}

type BalancesResponse struct {
	EmployeeID int64     `json:"employee_id"`
	Balances   []Balance `json:"balances"`
}
