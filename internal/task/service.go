package task

import (
	"context"
	"log/slog"
	"time"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/workflow"
)

type Repository interface {
	Create(t *Task) error
	GetByID(id int64) (*Task, error)
	List(filter ListFilter) ([]*Task, error)

	// Transition persists the task and appends the history entry in one
	// transaction. History rows are never updated or deleted.
	Transition(t *Task, entry HistoryEntry) error
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

func (s *Service) Create(ctx context.Context, creatorID int64, dto CreateTaskDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	t := &Task{
		Title:       dto.Title,
		Description: dto.Description,
		AssignedTo:  dto.AssignedTo,
		CreatedBy:   creatorID,
		Priority:    priority,
		Category:    dto.Category,
		StartDate:   dto.StartDate,
		DueDate:     dto.DueDate,
		Status:      StatusAssigned,
		History: []HistoryEntry{{
			Action:   ActionCreated,
			ActorID:  creatorID,
			LoggedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "creator_id", creatorID)
		return nil, err
	}

	s.logger.Info("task created", "task_id", t.ID, "assigned_to", t.AssignedTo)
	return t, nil
}

func (s *Service) Get(id int64) (*Task, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("task not found", internal.ErrCodeTaskNotFound)
	}
	return t, nil
}

func (s *Service) List(filter ListFilter) ([]*Task, error) {
	return s.repo.List(filter)
}

// Accept moves the task into progress. Only the assignee may accept.
func (s *Service) Accept(ctx context.Context, id int64, actor *auth.User) (*Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor.ID != t.AssignedTo {
		return nil, internal.NewForbiddenError("only the assignee can accept this task", internal.ErrCodeNotAssignee)
	}

	return s.transition(ctx, t, TriggerAccept, ActionAccepted, actor.ID, "")
}

// Complete submits the task for review. Only the assignee may complete, and
// remarks are mandatory.
func (s *Service) Complete(ctx context.Context, id int64, actor *auth.User, dto RemarksDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor.ID != t.AssignedTo {
		return nil, internal.NewForbiddenError("only the assignee can complete this task", internal.ErrCodeNotAssignee)
	}

	return s.transition(ctx, t, TriggerComplete, ActionCompleted, actor.ID, dto.Remarks)
}

// ApproveReview closes a completed task. Only the creator, a head of
// department or a superadmin may review.
func (s *Service) ApproveReview(ctx context.Context, id int64, actor *auth.User) (*Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReviewer(t, actor); err != nil {
		return nil, err
	}

	return s.transition(ctx, t, TriggerApprove, ActionClosed, actor.ID, "")
}

// RejectReview reopens a completed task with mandatory remarks.
func (s *Service) RejectReview(ctx context.Context, id int64, actor *auth.User, dto RemarksDTO) (*Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeRemarksRequired)
	}

	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReviewer(t, actor); err != nil {
		return nil, err
	}

	return s.transition(ctx, t, TriggerReject, ActionReopened, actor.ID, dto.Remarks)
}

func (s *Service) checkReviewer(t *Task, actor *auth.User) error {
	if actor.ID == t.CreatedBy || actor.HasRole(auth.RoleHOD) || actor.IsSuperAdmin() {
		return nil
	}
	return internal.NewForbiddenError("only the task creator or a manager can review this task", internal.ErrCodeNotReviewer)
}

func (s *Service) transition(ctx context.Context, t *Task, trigger workflow.Trigger, action string, actorID int64, details string) (*Task, error) {
	machine := NewMachine(t.Status)
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, internal.NewConflictError("action not allowed in status "+t.Status, internal.ErrCodeInvalidTransition)
	}

	now := time.Now()
	t.Status = machine.State().String()
	t.UpdatedAt = now

	entry := HistoryEntry{
		Action:   action,
		ActorID:  actorID,
		Details:  details,
		LoggedAt: now,
	}

	if err := s.repo.Transition(t, entry); err != nil {
		s.logger.Error("failed to persist task transition", "error", err, "task_id", t.ID, "action", action)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewTaskTransitionedEvent(t.ID, actorID, action, t.Status))
	s.logger.Info("task transitioned", "task_id", t.ID, "action", action, "status", t.Status)

	t.History = append(t.History, entry)
	return t, nil
}
