package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CreateItemDTO struct {
	Category     string           `json:"category"`
	Name         string           `json:"name"`
	Model        string           `json:"model"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	Status       string           `json:"status"`
	Consumable   bool             `json:"consumable"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Unit         string           `json:"unit"`
	Location     string           `json:"location"`
}

func (dto CreateItemDTO) Validate() error {
	if dto.Category == "" {
		return errors.New("category is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Status != "" && !ValidItemStatus(dto.Status) {
		return errors.New("invalid item status")
	}
	if dto.Consumable {
		if dto.Quantity == nil || dto.Quantity.IsNegative() {
			return errors.New("consumable items require a non-negative quantity")
		}
		if dto.Unit == "" {
			return errors.New("consumable items require a unit")
		}
	}
	return nil
}

type UpdateItemDTO struct {
	Name         *string          `json:"name,omitempty"`
	Model        *string          `json:"model,omitempty"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	Location     *string          `json:"location,omitempty"`
}

func (dto UpdateItemDTO) Validate() error {
	if dto.Status != nil && !ValidItemStatus(*dto.Status) {
		return errors.New("invalid item status")
	}
	if dto.Quantity != nil && dto.Quantity.IsNegative() {
		return errors.New("quantity must not be negative")
	}
	return nil
}

type AssignItemDTO struct {
	EmployeeID int64 `json:"employee_id"`
}

// TonerAdjustDTO moves delta cartridges between the two (model, status)
// counters. Fill moves Empty to Filled, consume the other way.
type TonerAdjustDTO struct {
	Model string `json:"model"`
	Delta int    `json:"delta"`
}

func (dto TonerAdjustDTO) Validate() error {
	if dto.Model == "" {
		return errors.New("toner model is required")
	}
	if dto.Delta <= 0 {
		return errors.New("delta must be positive")
	}
	return nil
}

type ItemFilter struct {
	Category   string
	Status     string
	ActiveOnly bool
	Limit      int
	Offset     int
}
