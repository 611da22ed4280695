package procurement

import (
	"errors"

	"github.com/shopspring/decimal"
)

type RequestItemDTO struct {
	InventoryItemID *int64          `json:"inventory_item_id,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

type CreateRequestDTO struct {
	Purpose string           `json:"purpose"`
	Items   []RequestItemDTO `json:"items"`
}

func (dto CreateRequestDTO) Validate() error {
	if len(dto.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range dto.Items {
		if item.Name == "" {
			return errors.New("item name is required")
		}
		if !item.Quantity.IsPositive() {
			return errors.New("item quantity must be positive")
		}
	}
	return nil
}

type RejectDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("rejection reason is required")
	}
	return nil
}

type OrderItemDTO struct {
	InventoryItemID *int64          `json:"inventory_item_id,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

type CreateOrderDTO struct {
	Vendor          string         `json:"vendor"`
	SupplyRequestID *int64         `json:"supply_request_id,omitempty"`
	Items           []OrderItemDTO `json:"items"`
}

func (dto CreateOrderDTO) Validate() error {
	if dto.Vendor == "" {
		return errors.New("vendor is required")
	}
	if len(dto.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, item := range dto.Items {
		if item.Name == "" {
			return errors.New("item name is required")
		}
		if !item.Quantity.IsPositive() {
			return errors.New("item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("unit price must not be negative")
		}
	}
	return nil
}

type ReceiveDTO struct {
	GRNNumber string `json:"grn_number"`
	Remarks   string `json:"remarks"`
}

func (dto ReceiveDTO) Validate() error {
	if dto.GRNNumber == "" {
		return errors.New("grn number is required")
	}
	return nil
}

type RequestFilter struct {
	RequesterID int64
	Department  string
	Status      string
	Limit       int
	Offset      int
}

type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}
