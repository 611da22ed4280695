package postgres

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mfadhilr/office-management/internal/inventory"

	inventoryDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/inventory"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) CreateItem(item *inventory.Item) error {
	record := inventory.ItemToDataModel(item)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	item.ID = record.ID
	return nil
}

func (r *InventoryRepository) GetItemByID(id int64) (*inventory.Item, error) {
	var record inventoryDatamodel.Item
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return inventory.ItemFromDataModel(&record), nil
}

func (r *InventoryRepository) ListItems(filter inventory.ItemFilter) ([]*inventory.Item, error) {
	query := r.db.Model(&inventoryDatamodel.Item{}).Order("category ASC, name ASC")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var records []*inventoryDatamodel.Item
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return inventory.ItemFromDataModelSlice(records), nil
}

func (r *InventoryRepository) UpdateItem(item *inventory.Item) error {
	return r.db.Save(inventory.ItemToDataModel(item)).Error
}

func (r *InventoryRepository) DeactivateItem(id int64) error {
	return r.db.Model(&inventoryDatamodel.Item{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *InventoryRepository) ListToners() ([]*inventory.Toner, error) {
	var records []*inventoryDatamodel.Toner
	if err := r.db.Order("model ASC, status ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return inventory.TonerFromDataModelSlice(records), nil
}

// AdjustToner moves delta cartridges between the two counters of a model in
// one transaction. The source decrement is guarded against going negative;
// the destination row is upserted.
func (r *InventoryRepository) AdjustToner(model, fromStatus, toStatus string, delta int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&inventoryDatamodel.Toner{}).
			Where("model = ? AND status = ? AND count >= ?", model, fromStatus, delta).
			Update("count", gorm.Expr("count - ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("not enough %s cartridges for model %s", fromStatus, model)
		}

		row := inventoryDatamodel.Toner{Model: model, Status: toStatus, Count: delta}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model"}, {Name: "status"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("toners.count + ?", delta)}),
		}).Create(&row).Error
	})
}
