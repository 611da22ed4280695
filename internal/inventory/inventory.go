package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	inventoryDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/inventory"
)

const (
	StatusInUse       = "In Use"
	StatusInStock     = "In Stock"
	StatusMaintenance = "Maintenance"

	TonerFilled = "Filled"
	TonerEmpty  = "Empty"
)

var itemStatuses = map[string]bool{
	StatusInUse:       true,
	StatusInStock:     true,
	StatusMaintenance: true,
}

func ValidItemStatus(status string) bool {
	return itemStatuses[status]
}

func ValidTonerStatus(status string) bool {
	return status == TonerFilled || status == TonerEmpty
}

type Item struct {
	ID           int64            `json:"id"`
	Category     string           `json:"category"`
	Name         string           `json:"name"`
	Model        string           `json:"model"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	Status       string           `json:"status"`
	AssignedTo   *int64           `json:"assigned_to,omitempty"`
	Consumable   bool             `json:"consumable"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Unit         string           `json:"unit"`
	Location     string           `json:"location"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Toner struct {
	ID        int64     `json:"id"`
	Model     string    `json:"model"`
	Status    string    `json:"status"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ItemToDataModel(i *Item) *inventoryDatamodel.Item {
	return &inventoryDatamodel.Item{
		ID:           i.ID,
		Category:     i.Category,
		Name:         i.Name,
		Model:        i.Model,
		SerialNumber: i.SerialNumber,
		Status:       i.Status,
		AssignedTo:   i.AssignedTo,
		Consumable:   i.Consumable,
		Quantity:     i.Quantity,
		Unit:         i.Unit,
		Location:     i.Location,
		IsActive:     i.IsActive,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func ItemFromDataModel(i *inventoryDatamodel.Item) *Item {
	return &Item{
		ID:           i.ID,
		Category:     i.Category,
		Name:         i.Name,
		Model:        i.Model,
		SerialNumber: i.SerialNumber,
		Status:       i.Status,
		AssignedTo:   i.AssignedTo,
		Consumable:   i.Consumable,
		Quantity:     i.Quantity,
		Unit:         i.Unit,
		Location:     i.Location,
		IsActive:     i.IsActive,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func ItemFromDataModelSlice(records []*inventoryDatamodel.Item) []*Item {
	result := make([]*Item, len(records))
	for i, r := range records {
		result[i] = ItemFromDataModel(r)
	}
	return result
}

func TonerFromDataModel(t *inventoryDatamodel.Toner) *Toner {
	return &Toner{
		ID:        t.ID,
		Model:     t.Model,
		Status:    t.Status,
		Count:     t.Count,
		UpdatedAt: t.UpdatedAt,
	}
}

func TonerFromDataModelSlice(records []*inventoryDatamodel.Toner) []*Toner {
	result := make([]*Toner, len(records))
	for i, r := range records {
		result[i] = TonerFromDataModel(r)
	}
	return result
}
