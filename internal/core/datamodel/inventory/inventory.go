package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents the inventory_items table. Discrete assets (laptops,
// printers, furniture) track serial/model and an optional assignee; kitchen
// consumables track a NUMERIC quantity and unit instead.
type Item struct {
	ID           int64            `json:"id" gorm:"primaryKey"`
	Category     string           `json:"category" gorm:"not null;index"`
	Name         string           `json:"name" gorm:"not null"`
	Model        string           `json:"model"`
	SerialNumber *string          `json:"serial_number,omitempty" gorm:"column:serial_number"`
	Status       string           `json:"status" gorm:"not null;default:'In Stock'"`
	AssignedTo   *int64           `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	Consumable   bool             `json:"consumable" gorm:"not null;default:false"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty" gorm:"type:numeric(12,3)"`
	Unit         string           `json:"unit"`
	Location     string           `json:"location"`
	IsActive     bool             `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time        `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Item) TableName() string {
	return "inventory_items"
}

// Toner stock is split per (model, status) into separate count rows.
type Toner struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Model     string    `json:"model" gorm:"uniqueIndex:idx_toner_model_status;not null"`
	Status    string    `json:"status" gorm:"uniqueIndex:idx_toner_model_status;not null"`
	Count     int       `json:"count" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Toner) TableName() string {
	return "toners"
}
