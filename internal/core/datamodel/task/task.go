package task

import (
	"time"
)

// Task represents the tasks table.
type Task struct {
	ID          int64          `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	AssignedTo  int64          `json:"assigned_to" gorm:"column:assigned_to;not null;index"`
	CreatedBy   int64          `json:"created_by" gorm:"column:created_by;not null"`
	Priority    string         `json:"priority" gorm:"default:'Medium'"`
	Category    string         `json:"category"`
	StartDate   *time.Time     `json:"start_date,omitempty" gorm:"column:start_date;type:date"`
	DueDate     *time.Time     `json:"due_date,omitempty" gorm:"column:due_date;type:date"`
	Status      string         `json:"status" gorm:"not null;index"`
	History     []HistoryEntry `json:"history" gorm:"foreignKey:TaskID"`
	CreatedAt   time.Time      `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Task) TableName() string {
	return "tasks"
}

// HistoryEntry rows are append-only: they are inserted alongside each
// workflow action and never updated or deleted.
type HistoryEntry struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	TaskID   int64     `json:"task_id" gorm:"column:task_id;not null;index"`
	Action   string    `json:"action" gorm:"not null"`
	ActorID  int64     `json:"actor_id" gorm:"column:actor_id;not null"`
	Details  string    `json:"details"`
	LoggedAt time.Time `json:"logged_at" gorm:"column:logged_at;not null"`
}

func (HistoryEntry) TableName() string {
	return "task_history"
}
