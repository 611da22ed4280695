package postgres

import (
	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal/employee"

	employeeDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

// Create stores the employee and its initial leave balances in one
// transaction so a partially-provisioned employee never exists.
func (r *EmployeeRepository) Create(emp *employee.Employee, balances []employee.Balance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		record := employee.ToDataModel(emp)
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		emp.ID = record.ID

		for _, b := range balances {
			row := employeeDatamodel.LeaveBalance{
				EmployeeID: record.ID,
				LeaveType:  b.LeaveType,
				Total:      b.Total,
				Used:       b.Used,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var record employeeDatamodel.Employee
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModel(&record), nil
}

func (r *EmployeeRepository) GetByCode(code string) (*employee.Employee, error) {
	var record employeeDatamodel.Employee
	if err := r.db.Where("employee_code = ?", code).First(&record).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModel(&record), nil
}

func (r *EmployeeRepository) List(department string, limit, offset int) ([]*employee.Employee, error) {
	query := r.db.Model(&employeeDatamodel.Employee{}).Order("employee_code ASC")
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var records []*employeeDatamodel.Employee
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(records), nil
}

func (r *EmployeeRepository) Update(emp *employee.Employee) error {
	return r.db.Save(employee.ToDataModel(emp)).Error
}

func (r *EmployeeRepository) GetBalances(employeeID int64) ([]employee.Balance, error) {
	var rows []employeeDatamodel.LeaveBalance
	err := r.db.Where("employee_id = ?", employeeID).Order("leave_type ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make([]employee.Balance, len(rows))
	for i, row := range rows {
		balances[i] = employee.Balance{LeaveType: row.LeaveType, Total: row.Total, Used: row.Used}
	}
	return balances, nil
}
