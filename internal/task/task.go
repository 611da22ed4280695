package task

import (
	"time"

	taskDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/task"
	"github.com/mfadhilr/office-management/internal/workflow"
)

const (
	StatusNew           = "New"
	StatusAssigned      = "Assigned"
	StatusInProgress    = "In Progress"
	StatusPendingReview = "Completed - Pending Review"
	StatusClosed        = "Closed"
	StatusReopened      = "Reopened"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	TriggerAccept   workflow.Trigger = "accept"
	TriggerComplete workflow.Trigger = "complete"
	TriggerApprove  workflow.Trigger = "approve"
	TriggerReject   workflow.Trigger = "reject"
)

// History actions, one per workflow transition plus creation.
const (
	ActionCreated   = "Created"
	ActionAccepted  = "Accepted"
	ActionCompleted = "Completed"
	ActionClosed    = "Closed"
	ActionReopened  = "Reopened"
)

var machineBuilder = func() *workflow.Builder {
	b := workflow.NewBuilder()
	for _, s := range []string{StatusNew, StatusAssigned, StatusReopened} {
		b.Configure(workflow.State(s)).
			Permit(TriggerAccept, workflow.State(StatusInProgress))
	}
	b.Configure(workflow.State(StatusInProgress)).
		Permit(TriggerComplete, workflow.State(StatusPendingReview))
	b.Configure(workflow.State(StatusPendingReview)).
		Permit(TriggerApprove, workflow.State(StatusClosed)).
		Permit(TriggerReject, workflow.State(StatusReopened))
	b.Configure(workflow.State(StatusClosed))
	return b
}()

// NewMachine returns a state machine positioned at the task's current status.
func NewMachine(status string) *workflow.Machine {
	return machineBuilder.Build(workflow.State(status))
}

type HistoryEntry struct {
	ID       int64     `json:"id"`
	Action   string    `json:"action"`
	ActorID  int64     `json:"actor_id"`
	Details  string    `json:"details"`
	LoggedAt time.Time `json:"logged_at"`
}

type Task struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AssignedTo  int64          `json:"assigned_to"`
	CreatedBy   int64          `json:"created_by"`
	Priority    string         `json:"priority"`
	Category    string         `json:"category"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Status      string         `json:"status"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func ToDataModel(t *Task) *taskDatamodel.Task {
	history := make([]taskDatamodel.HistoryEntry, len(t.History))
	for i, h := range t.History {
		history[i] = taskDatamodel.HistoryEntry{
			ID:       h.ID,
			TaskID:   t.ID,
			Action:   h.Action,
			ActorID:  h.ActorID,
			Details:  h.Details,
			LoggedAt: h.LoggedAt,
		}
	}
	return &taskDatamodel.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		Priority:    t.Priority,
		Category:    t.Category,
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Status:      t.Status,
		History:     history,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	history := make([]HistoryEntry, len(t.History))
	for i, h := range t.History {
		history[i] = HistoryEntry{
			ID:       h.ID,
			Action:   h.Action,
			ActorID:  h.ActorID,
			Details:  h.Details,
			LoggedAt: h.LoggedAt,
		}
	}
	return &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		Priority:    t.Priority,
		Category:    t.Category,
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		Status:      t.Status,
		History:     history,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModelSlice(records []*taskDatamodel.Task) []*Task {
	result := make([]*Task, len(records))
	for i, t := range records {
		result[i] = FromDataModel(t)
	}
	return result
}
