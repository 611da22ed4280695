package inventory

import (
	"log/slog"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/employee"
)

type Repository interface {
	CreateItem(item *Item) error
	GetItemByID(id int64) (*Item, error)
	ListItems(filter ItemFilter) ([]*Item, error)
	UpdateItem(item *Item) error
	DeactivateItem(id int64) error

	ListToners() ([]*Toner, error)

	// AdjustToner moves delta cartridges from one (model, status) counter
	// to the other in one transaction, creating missing counter rows.
	AdjustToner(model, fromStatus, toStatus string, delta int) error
}

type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

type Service struct {
	repo      Repository
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		logger:    logger,
	}
}

func (s *Service) CreateItem(dto CreateItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	status := dto.Status
	if status == "" {
		status = StatusInStock
	}

	now := time.Now()
	item := &Item{
		Category:     dto.Category,
		Name:         dto.Name,
		Model:        dto.Model,
		SerialNumber: dto.SerialNumber,
		Status:       status,
		Consumable:   dto.Consumable,
		Quantity:     dto.Quantity,
		Unit:         dto.Unit,
		Location:     dto.Location,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateItem(item); err != nil {
		s.logger.Error("failed to create inventory item", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("inventory item created", "item_id", item.ID, "category", item.Category)
	return item, nil
}

func (s *Service) GetItem(id int64) (*Item, error) {
	item, err := s.repo.GetItemByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("inventory item not found", internal.ErrCodeItemNotFound)
	}
	return item, nil
}

func (s *Service) ListItems(filter ItemFilter) ([]*Item, error) {
	return s.repo.ListItems(filter)
}

func (s *Service) UpdateItem(id int64, dto UpdateItemDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		item.Name = *dto.Name
	}
	if dto.Model != nil {
		item.Model = *dto.Model
	}
	if dto.SerialNumber != nil {
		item.SerialNumber = dto.SerialNumber
	}
	if dto.Status != nil {
		item.Status = *dto.Status
	}
	if dto.Quantity != nil {
		item.Quantity = dto.Quantity
	}
	if dto.Unit != nil {
		item.Unit = *dto.Unit
	}
	if dto.Location != nil {
		item.Location = *dto.Location
	}
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// AssignItem hands a discrete asset to an employee and marks it in use.
func (s *Service) AssignItem(id int64, dto AssignItemDTO) (*Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}
	if item.Consumable {
		return nil, internal.NewValidationError("consumable items cannot be assigned", internal.ErrCodeValidationFailed)
	}

	emp, err := s.employees.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	if !emp.IsActive() {
		return nil, internal.NewValidationError("cannot assign to a resigned employee", internal.ErrCodeValidationFailed)
	}

	item.AssignedTo = &dto.EmployeeID
	item.Status = StatusInUse
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(item); err != nil {
		return nil, err
	}

	s.logger.Info("inventory item assigned", "item_id", item.ID, "employee_id", dto.EmployeeID)
	return item, nil
}

// UnassignItem returns an asset to stock.
func (s *Service) UnassignItem(id int64) (*Item, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	item.AssignedTo = nil
	item.Status = StatusInStock
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem soft-deletes: the row stays for request and order history.
func (s *Service) DeactivateItem(id int64) error {
	if _, err := s.GetItem(id); err != nil {
		return err
	}
	return s.repo.DeactivateItem(id)
}

func (s *Service) ListToners() ([]*Toner, error) {
	return s.repo.ListToners()
}

// FillToner moves refilled cartridges from the Empty to the Filled counter.
func (s *Service) FillToner(dto TonerAdjustDTO) error {
	return s.adjustToner(dto, TonerEmpty, TonerFilled)
}

// ConsumeToner moves used cartridges from the Filled to the Empty counter.
func (s *Service) ConsumeToner(dto TonerAdjustDTO) error {
	return s.adjustToner(dto, TonerFilled, TonerEmpty)
}

func (s *Service) adjustToner(dto TonerAdjustDTO, from, to string) error {
	if err := dto.Validate(); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if err := s.repo.AdjustToner(dto.Model, from, to, dto.Delta); err != nil {
		s.logger.Error("failed to adjust toner stock",
			"error", err,
			"model", dto.Model,
			"from", from,
			"to", to)
		return internal.NewConflictError("not enough "+from+" cartridges for model "+dto.Model, internal.ErrCodeInsufficientStock)
	}

	s.logger.Info("toner stock adjusted", "model", dto.Model, "from", from, "to", to, "delta", dto.Delta)
	return nil
}
