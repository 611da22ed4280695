package task

import (
	"errors"
	"time"
)

type CreateTaskDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  int64      `json:"assigned_to"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (dto CreateTaskDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.AssignedTo == 0 {
		return errors.New("assignee is required")
	}
	switch dto.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return errors.New("invalid priority")
	}
	if dto.StartDate != nil && dto.DueDate != nil && dto.DueDate.Before(*dto.StartDate) {
		return errors.New("due date must not be before start date")
	}
	return nil
}

// RemarksDTO carries the mandatory note for complete and reject actions.
type RemarksDTO struct {
	Remarks string `json:"remarks"`
}

func (dto RemarksDTO) Validate() error {
	if dto.Remarks == "" {
		return errors.New("remarks are required")
	}
	return nil
}

type ListFilter struct {
	AssignedTo int64
	CreatedBy  int64
	Status     string
	Limit      int
	Offset     int
}
