package postgres

import (
	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal/task"

	taskDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/task"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) task.Repository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(t *task.Task) error {
	record := task.ToDataModel(t)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	t.ID = record.ID
	for i := range record.History {
		t.History[i].ID = record.History[i].ID
	}
	return nil
}

func (r *TaskRepository) GetByID(id int64) (*task.Task, error) {
	var record taskDatamodel.Task
	err := r.db.Preload("History", func(db *gorm.DB) *gorm.DB {
		return db.Order("logged_at ASC")
	}).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return task.FromDataModel(&record), nil
}

func (r *TaskRepository) List(filter task.ListFilter) ([]*task.Task, error) {
	query := r.db.Model(&taskDatamodel.Task{}).Order("created_at DESC")
	if filter.AssignedTo != 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.CreatedBy != 0 {
		query = query.Where("created_by = ?", filter.CreatedBy)
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

	var records []*taskDatamodel.Task
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return task.FromDataModelSlice(records), nil
}

// Transition saves the task and appends the history row in one transaction.
func (r *TaskRepository) Transition(t *task.Task, entry task.HistoryEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History").Save(task.ToDataModel(t)).Error; err != nil {
			return err
		}
		row := taskDatamodel.HistoryEntry{
			TaskID:   t.ID,
			Action:   entry.Action,
			ActorID:  entry.ActorID,
			Details:  entry.Details,
			LoggedAt: entry.LoggedAt,
		}
		return tx.Create(&row).Error
	})
}
