package procurement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
)

// ErrInsufficientStock is returned by the repository when a store issue
// would drive an inventory quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrItemNotStocked is returned when a request line has no inventory item
// reference, so the store cannot issue it.
var ErrItemNotStocked = errors.New("item not held in inventory")

type Repository interface {
	// CreateRequest assigns the sequential MRF number in the same
	// transaction as the insert.
	CreateRequest(req *Request) error
	GetRequestByID(id int64) (*Request, error)
	ListRequests(filter RequestFilter) ([]*Request, error)
	UpdateRequest(req *Request) error

	// IssueRequest persists the issued request and deducts each line's
	// quantity from inventory in one transaction.
	IssueRequest(req *Request) error

	// ConvertRequest creates the purchase order and links it to the
	// request in one transaction.
	ConvertRequest(req *Request, order *Order) error

	// CreateOrder assigns the sequential PO number in the same
	// transaction as the insert; ConvertRequest does the same for the
	// order it creates.
	CreateOrder(order *Order) error
	GetOrderByID(id int64) (*Order, error)
	ListOrders(filter OrderFilter) ([]*Order, error)
	UpdateOrder(order *Order) error

	// ReceiveOrder persists the received order and increments inventory
	// stock for each line in one transaction.
	ReceiveOrder(order *Order) error
}

type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	employees EmployeeDirectory
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		bus:       bus,
		logger:    logger,
	}
}

func (s *Service) CreateRequest(ctx context.Context, requesterID int64, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	requester, err := s.employees.GetByID(requesterID)
	if err != nil {
		return nil, internal.NewNotFoundError("requester employee not found", internal.ErrCodeEmployeeNotFound)
	}

	now := time.Now()
	req := &Request{
		RequesterID: requesterID,
		Department:  requester.Department,
		Purpose:     dto.Purpose,
		Status:      RequestStatusPendingAM,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range dto.Items {
		req.Items = append(req.Items, RequestItem{
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
		})
	}

	if err := s.repo.CreateRequest(req); err != nil {
		s.logger.Error("failed to create supply request", "error", err, "requester_id", requesterID)
		return nil, err
	}

	s.logger.Info("supply request created",
		"request_id", req.ID,
		"request_number", req.RequestNumber,
		"items", len(req.Items))

	return req, nil
}

func (s *Service) GetRequest(id int64) (*Request, error) {
	req, err := s.repo.GetRequestByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("supply request not found", internal.ErrCodeRequestNotFound)
	}
	return req, nil
}

func (s *Service) ListRequests(filter RequestFilter) ([]*Request, error) {
	return s.repo.ListRequests(filter)
}

func (s *Service) AMApproveRequest(ctx context.Context, id int64) (*Request, error) {
	req, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	machine := NewRequestMachine(req.Status)
	if err := machine.Fire(ctx, TriggerAMApprove); err != nil {
		return nil, s.requestTransitionError(req.Status)
	}

	req.Status = machine.State().String()
	req.UpdatedAt = time.Now()
	if err := s.repo.UpdateRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("supply request approved by account manager", "request_id", req.ID)
	return req, nil
}

func (s *Service) AMRejectRequest(ctx context.Context, id int64, dto RejectDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	req, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	machine := NewRequestMachine(req.Status)
	if err := machine.Fire(ctx, TriggerAMReject); err != nil {
		return nil, s.requestTransitionError(req.Status)
	}

	req.Status = machine.State().String()
	req.RejectionReason = &dto.Reason
	req.UpdatedAt = time.Now()
	if err := s.repo.UpdateRequest(req); err != nil {
		return nil, err
	}

	return req, nil
}

// IssueRequest hands stock over directly from the store. Every line must
// reference an inventory item, and the deduction happens in the same
// transaction as the status change so partial issues cannot occur.
func (s *Service) IssueRequest(ctx context.Context, id int64) (*Request, error) {
	req, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	machine := NewRequestMachine(req.Status)
	if err := machine.Fire(ctx, TriggerStoreIssue); err != nil {
		return nil, s.requestTransitionError(req.Status)
	}

	for _, item := range req.Items {
		if item.InventoryItemID == nil {
			return nil, internal.NewValidationError(
				ErrItemNotStocked.Error()+": "+item.Name,
				internal.ErrCodeValidationFailed)
		}
	}

	req.Status = machine.State().String()
	req.UpdatedAt = time.Now()

	if err := s.repo.IssueRequest(req); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return nil, internal.NewConflictError(err.Error(), internal.ErrCodeInsufficientStock)
		}
		s.logger.Error("failed to issue supply request", "error", err, "request_id", req.ID)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewRequestIssuedEvent(req.ID, len(req.Items)))
	s.logger.Info("supply request issued from store", "request_id", req.ID)
	return req, nil
}

func (s *Service) ForwardRequest(ctx context.Context, id int64) (*Request, error) {
	req, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}

	machine := NewRequestMachine(req.Status)
	if err := machine.Fire(ctx, TriggerStoreForward); err != nil {
		return nil, s.requestTransitionError(req.Status)
	}

	req.Status = machine.State().String()
	req.UpdatedAt = time.Now()
	if err := s.repo.UpdateRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info("supply request forwarded to purchase", "request_id", req.ID)
	return req, nil
}

// ConvertRequest raises a purchase order from a forwarded request and marks
// the request converted, linking the two in one transaction.
func (s *Service) ConvertRequest(ctx context.Context, requestID int64, dto CreateOrderDTO) (*Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	req, err := s.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	machine := NewRequestMachine(req.Status)
	if err := machine.Fire(ctx, TriggerConvertToPO); err != nil {
		return nil, s.requestTransitionError(req.Status)
	}

	order := s.buildOrder(dto)
	order.SupplyRequestID = &req.ID

	req.Status = machine.State().String()
	req.UpdatedAt = time.Now()

	if err := s.repo.ConvertRequest(req, order); err != nil {
		s.logger.Error("failed to convert request to purchase order", "error", err, "request_id", req.ID)
		return nil, err
	}

	s.logger.Info("supply request converted to purchase order",
		"request_id", req.ID,
		"order_id", order.ID,
		"order_number", order.OrderNumber)

	return order, nil
}

// CreateOrder raises a purchase order that is not backed by a supply
// request, for direct vendor purchases.
func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO) (*Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	order := s.buildOrder(dto)

	if err := s.repo.CreateOrder(order); err != nil {
		s.logger.Error("failed to create purchase order", "error", err)
		return nil, err
	}

	s.logger.Info("purchase order created", "order_id", order.ID, "order_number", order.OrderNumber)
	return order, nil
}

func (s *Service) GetOrder(id int64) (*Order, error) {
	order, err := s.repo.GetOrderByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("purchase order not found", internal.ErrCodeOrderNotFound)
	}
	return order, nil
}

func (s *Service) ListOrders(filter OrderFilter) ([]*Order, error) {
	return s.repo.ListOrders(filter)
}

func (s *Service) ApproveOrder(ctx context.Context, id int64) (*Order, error) {
	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	machine := NewOrderMachine(order.Status)
	if err := machine.Fire(ctx, TriggerOrderApprove); err != nil {
		return nil, s.orderTransitionError(order.Status)
	}

	order.Status = machine.State().String()
	order.UpdatedAt = time.Now()
	if err := s.repo.UpdateOrder(order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order approved", "order_id", order.ID)
	return order, nil
}

func (s *Service) RejectOrder(ctx context.Context, id int64, dto RejectDTO) (*Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	machine := NewOrderMachine(order.Status)
	if err := machine.Fire(ctx, TriggerOrderReject); err != nil {
		return nil, s.orderTransitionError(order.Status)
	}

	order.Status = machine.State().String()
	order.RejectionReason = &dto.Reason
	order.UpdatedAt = time.Now()
	if err := s.repo.UpdateOrder(order); err != nil {
		return nil, err
	}

	return order, nil
}

// ReceiveOrder records the goods received note and restocks inventory for
// every line that references an inventory item, in one transaction.
func (s *Service) ReceiveOrder(ctx context.Context, id int64, dto ReceiveDTO) (*Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return nil, err
	}

	machine := NewOrderMachine(order.Status)
	if err := machine.Fire(ctx, TriggerOrderReceive); err != nil {
		return nil, s.orderTransitionError(order.Status)
	}

	now := time.Now()
	order.Status = machine.State().String()
	order.GRNNumber = &dto.GRNNumber
	if dto.Remarks != "" {
		order.GRNRemarks = &dto.Remarks
	}
	order.ReceivedAt = &now
	order.UpdatedAt = now

	if err := s.repo.ReceiveOrder(order); err != nil {
		s.logger.Error("failed to receive purchase order", "error", err, "order_id", order.ID)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewOrderReceivedEvent(order.ID, dto.GRNNumber))
	s.logger.Info("purchase order received",
		"order_id", order.ID,
		"grn_number", dto.GRNNumber)

	return order, nil
}

func (s *Service) buildOrder(dto CreateOrderDTO) *Order {
	now := time.Now()
	order := &Order{
		Vendor:          dto.Vendor,
		SupplyRequestID: dto.SupplyRequestID,
		Status:          OrderStatusPendingAM,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range dto.Items {
		order.Items = append(order.Items, OrderItem{
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
		})
	}
	order.TotalAmount = order.Total()
	return order
}

func (s *Service) requestTransitionError(status string) error {
	return internal.NewConflictError("action not allowed in status "+status, internal.ErrCodeInvalidTransition)
}

func (s *Service) orderTransitionError(status string) error {
	return internal.NewConflictError("action not allowed in status "+status, internal.ErrCodeInvalidTransition)
}
