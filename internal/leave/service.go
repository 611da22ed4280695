package leave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/workflow"
)

type Repository interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	List(filter ListFilter) ([]*Request, error)
	Update(req *Request) error

	// ApproveWithBalance persists the approved request and, when
	// decrementBalance is set, adds the request's days to the employee's
	// used balance in the same transaction.
	ApproveWithBalance(req *Request, decrementBalance bool) error
}

// EmployeeDirectory is the slice of the employee repository the leave
// service needs.
type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
	GetBalances(employeeID int64) ([]employee.Balance, error)
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

// Apply files a leave request for the employee. Probationers may only take
// unpaid leave, and paid leave must fit the remaining balance.
func (s *Service) Apply(ctx context.Context, employeeID int64, dto ApplyLeaveDTO) (*Request, error) {
	from, to, err := dto.Parse()
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDateRange)
	}

	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	}
	if !emp.IsActive() {
		return nil, internal.NewForbiddenError("resigned employees cannot apply for leave", internal.ErrCodeValidationFailed)
	}
	if emp.OnProbation() && dto.LeaveType != employee.LeaveTypeOthers {
		return nil, internal.NewForbiddenError("employees on probation may only apply for unpaid leave", internal.ErrCodeEmployeeOnProbation)
	}

	days := DaysBetween(from, to)

	if dto.LeaveType != employee.LeaveTypeOthers {
		balances, err := s.employees.GetBalances(employeeID)
		if err != nil {
			return nil, err
		}
		remaining, found := -1, false
		for _, b := range balances {
			if b.LeaveType == dto.LeaveType {
				remaining, found = b.Remaining(), true
				break
			}
		}
		if !found {
			return nil, internal.NewValidationError("unknown leave type", internal.ErrCodeValidationFailed)
		}
		if remaining < days {
			return nil, internal.NewValidationError("insufficient leave balance", internal.ErrCodeInsufficientBalance)
		}
	}

	now := time.Now()
	req := &Request{
		EmployeeID: employeeID,
		Department: emp.Department,
		LeaveType:  dto.LeaveType,
		FromDate:   from,
		ToDate:     to,
		Days:       days,
		Reason:     dto.Reason,
		Status:     StatusPendingHOD,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "employee_id", employeeID)
		return nil, err
	}

	s.logger.Info("leave request created",
		"request_id", req.ID,
		"employee_id", employeeID,
		"leave_type", req.LeaveType,
		"days", days)

	return req, nil
}

func (s *Service) Get(id int64) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
	}
	return req, nil
}

func (s *Service) List(filter ListFilter) ([]*Request, error) {
	return s.repo.List(filter)
}

// HODApprove moves a pending request to HR review. Only the head of the
// requester's own department may act; a superadmin may act on any
// department.
func (s *Service) HODApprove(ctx context.Context, id int64, actor *auth.User) (*Request, error) {
	req, fireCtx, err := s.loadForHODAction(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	machine := NewMachine(req.Status)
	if err := machine.Fire(fireCtx, TriggerHODApprove); err != nil {
		return nil, s.transitionError(err, req.Status)
	}

	req.Status = machine.State().String()
	req.HODActionBy = actor.EmployeeID
	req.UpdatedAt = time.Now()

	if err := s.repo.Update(req); err != nil {
		return nil, err
	}

	s.logger.Info("leave request forwarded to hr", "request_id", req.ID, "actor_id", actor.ID)
	return req, nil
}

func (s *Service) HODReject(ctx context.Context, id int64, actor *auth.User, dto RejectDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	req, fireCtx, err := s.loadForHODAction(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	machine := NewMachine(req.Status)
	if err := machine.Fire(fireCtx, TriggerHODReject); err != nil {
		return nil, s.transitionError(err, req.Status)
	}

	now := time.Now()
	req.Status = machine.State().String()
	req.HODActionBy = actor.EmployeeID
	req.RejectionReason = &dto.Reason
	req.ProcessedAt = &now
	req.UpdatedAt = now

	if err := s.repo.Update(req); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewLeaveRejectedEvent(req.ID, req.EmployeeID, "hod", dto.Reason))
	return req, nil
}

// HRApprove finalizes the request. Paid leave days are charged against the
// employee's balance in the same transaction that flips the status, so the
// request can never be approved without its balance being deducted.
func (s *Service) HRApprove(ctx context.Context, id, actorUserID int64) (*Request, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	machine := NewMachine(req.Status)
	if err := machine.Fire(ctx, TriggerHRApprove); err != nil {
		return nil, s.transitionError(err, req.Status)
	}

	now := time.Now()
	req.Status = machine.State().String()
	req.HRActionBy = &actorUserID
	req.ProcessedAt = &now
	req.UpdatedAt = now

	decrement := req.LeaveType != employee.LeaveTypeOthers
	if err := s.repo.ApproveWithBalance(req, decrement); err != nil {
		s.logger.Error("failed to approve leave request", "error", err, "request_id", req.ID)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewLeaveApprovedEvent(req.ID, req.EmployeeID, req.LeaveType, req.Days))
	s.logger.Info("leave request approved",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"days", req.Days,
		"balance_charged", decrement)

	return req, nil
}

func (s *Service) HRReject(ctx context.Context, id, actorUserID int64, dto RejectDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	machine := NewMachine(req.Status)
	if err := machine.Fire(ctx, TriggerHRReject); err != nil {
		return nil, s.transitionError(err, req.Status)
	}

	now := time.Now()
	req.Status = machine.State().String()
	req.HRActionBy = &actorUserID
	req.RejectionReason = &dto.Reason
	req.ProcessedAt = &now
	req.UpdatedAt = now

	if err := s.repo.Update(req); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewLeaveRejectedEvent(req.ID, req.EmployeeID, "hr", dto.Reason))
	return req, nil
}

// loadForHODAction resolves the approver's department for the workflow
// guard. A superadmin passes the guard regardless of department and needs
// no linked employee record.
func (s *Service) loadForHODAction(ctx context.Context, id int64, actor *auth.User) (*Request, context.Context, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}

	if actor.IsSuperAdmin() {
		return req, WithApproval(ctx, req.Department, req.Department), nil
	}

	if actor.EmployeeID == nil {
		return nil, nil, internal.NewForbiddenError("no employee record linked to this account", internal.ErrCodeUnauthorizedAccess)
	}
	emp, err := s.employees.GetByID(*actor.EmployeeID)
	if err != nil {
		return nil, nil, internal.NewNotFoundError("approver employee record not found", internal.ErrCodeEmployeeNotFound)
	}

	return req, WithApproval(ctx, emp.Department, req.Department), nil
}

func (s *Service) transitionError(err error, status string) error {
	if errors.Is(err, workflow.ErrGuardFailed) {
		return internal.NewForbiddenError("approver department does not match the request", internal.ErrCodeUnauthorizedAccess)
	}
	return internal.NewConflictError("action not allowed in status "+status, internal.ErrCodeInvalidTransition)
}
