package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal/leave"

	employeeDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/employee"
	leaveDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/leave"
)

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(req *leave.Request) error {
	record := leave.ToDataModel(req)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	req.ID = record.ID
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.Request, error) {
	var record leaveDatamodel.LeaveRequest
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return leave.FromDataModel(&record), nil
}

func (r *LeaveRepository) List(filter leave.ListFilter) ([]*leave.Request, error) {
	query := r.db.Model(&leaveDatamodel.LeaveRequest{}).Order("created_at DESC")
	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
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

	var records []*leaveDatamodel.LeaveRequest
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(records), nil
}

func (r *LeaveRepository) Update(req *leave.Request) error {
	return r.db.Save(leave.ToDataModel(req)).Error
}

// ApproveWithBalance flips the request status and charges the days against
// the employee's balance in one transaction. The balance update is guarded so
// a stale approval cannot push used past total.
func (r *LeaveRepository) ApproveWithBalance(req *leave.Request, decrementBalance bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(leave.ToDataModel(req)).Error; err != nil {
			return err
		}

		if !decrementBalance {
			return nil
		}

		result := tx.Model(&employeeDatamodel.LeaveBalance{}).
			Where("employee_id = ? AND leave_type = ? AND used + ? <= total", req.EmployeeID, req.LeaveType, req.Days).
			Update("used", gorm.Expr("used + ?", req.Days))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("insufficient %s balance for employee %d", req.LeaveType, req.EmployeeID)
		}
		return nil
	})
}
