package employee

import (
	"context"
	"log/slog"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/core/events"
)

// Repository defines the data access methods for employees and their leave
// balances.
type Repository interface {
	Create(emp *Employee, balances []Balance) error
	GetByID(id int64) (*Employee, error)
	GetByCode(code string) (*Employee, error)
	List(department string, limit, offset int) ([]*Employee, error)
	Update(emp *Employee) error
	GetBalances(employeeID int64) ([]Balance, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByCode(dto.EmployeeCode); err == nil && existing != nil {
		return nil, internal.NewConflictError("employee code already exists", internal.ErrCodeValidationFailed)
	}

	employmentType := dto.EmploymentType
	if employmentType == "" {
		employmentType = EmploymentPermanent
	}
	role := dto.Role
	if role == "" {
		role = "employee"
	}
	joined := dto.JoinedAt
	if joined.IsZero() {
		joined = time.Now()
	}

	now := time.Now()
	emp := &Employee{
		EmployeeCode:   dto.EmployeeCode,
		FullName:       dto.FullName,
		Email:          dto.Email,
		Department:     dto.Department,
		Designation:    dto.Designation,
		Role:           role,
		EmploymentType: employmentType,
		Status:         StatusActive,
		JoinedAt:       joined,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	balances := make([]Balance, 0, len(DefaultEntitlements))
	for leaveType, total := range DefaultEntitlements {
		balances = append(balances, Balance{LeaveType: leaveType, Total: total})
	}

	if err := s.repo.Create(emp, balances); err != nil {
		s.logger.Error("failed to create employee", "error", err, "employee_code", dto.EmployeeCode)
		return nil, err
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"employee_code", emp.EmployeeCode,
		"department", emp.Department)

	return emp, nil
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	return emp, nil
}

func (s *Service) ListEmployees(department string, limit, offset int) ([]*Employee, error) {
	return s.repo.List(department, limit, offset)
}

func (s *Service) UpdateEmployee(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	if dto.FullName != nil {
		emp.FullName = *dto.FullName
	}
	if dto.Department != nil {
		emp.Department = *dto.Department
	}
	if dto.Designation != nil {
		emp.Designation = *dto.Designation
	}
	if dto.Role != nil {
		emp.Role = *dto.Role
	}
	if dto.EmploymentType != nil {
		emp.EmploymentType = *dto.EmploymentType
	}
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	return emp, nil
}

// ResignEmployee marks the employee resigned; the record is kept for
// reporting and history lookups.
func (s *Service) ResignEmployee(ctx context.Context, id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	if !emp.IsActive() {
		return nil, internal.NewConflictError("employee is not active", internal.ErrCodeValidationFailed)
	}

	emp.Resign()
	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to resign employee", "error", err, "employee_id", id)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewEmployeeResignedEvent(emp.ID))
	s.logger.Info("employee resigned", "employee_id", emp.ID)

	return emp, nil
}

func (s *Service) GetBalances(employeeID int64) (*BalancesResponse, error) {
	if _, err := s.repo.GetByID(employeeID); err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}

	balances, err := s.repo.GetBalances(employeeID)
	if err != nil {
		s.logger.Error("failed to load balances", "error", err, "employee_id", employeeID)
		return nil, err
	}

	return &BalancesResponse{EmployeeID: employeeID, Balances: balances}, nil
}
