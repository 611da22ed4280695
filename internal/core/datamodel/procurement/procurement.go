package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyRequest represents the supply_requests table (MRFs raised by
// departments for stock or consumables).
type SupplyRequest struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	RequestNumber   string              `json:"request_number" gorm:"column:request_number;uniqueIndex;not null"`
	RequesterID     int64               `json:"requester_id" gorm:"column:requester_id;not null;index"`
	Department      string              `json:"department" gorm:"not null"`
	Purpose         string              `json:"purpose"`
	Status          string              `json:"status" gorm:"not null;index"`
	RejectionReason *string             `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	PurchaseOrderID *int64              `json:"purchase_order_id,omitempty" gorm:"column:purchase_order_id"`
	Items           []SupplyRequestItem `json:"items" gorm:"foreignKey:RequestID"`
	CreatedAt       time.Time           `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time           `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (SupplyRequest) TableName() string {
	return "supply_requests"
}

// SupplyRequestItem quantities are NUMERIC: kitchen consumables are measured
// in fractional kg/liters.
type SupplyRequestItem struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	RequestID       int64           `json:"request_id" gorm:"column:request_id;not null;index"`
	InventoryItemID *int64          `json:"inventory_item_id,omitempty" gorm:"column:inventory_item_id"`
	Name            string          `json:"name" gorm:"not null"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	Unit            string          `json:"unit"`
}

func (SupplyRequestItem) TableName() string {
	return "supply_request_items"
}

// PurchaseOrder represents the purchase_orders table.
type PurchaseOrder struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	OrderNumber     string              `json:"order_number" gorm:"column:order_number;uniqueIndex;not null"`
	Vendor          string              `json:"vendor" gorm:"not null"`
	SupplyRequestID *int64              `json:"supply_request_id,omitempty" gorm:"column:supply_request_id"`
	TotalAmount     decimal.Decimal     `json:"total_amount" gorm:"type:numeric(14,2);not null"`
	Status          string              `json:"status" gorm:"not null;index"`
	RejectionReason *string             `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	GRNNumber       *string             `json:"grn_number,omitempty" gorm:"column:grn_number"`
	GRNRemarks      *string             `json:"grn_remarks,omitempty" gorm:"column:grn_remarks"`
	ReceivedAt      *time.Time          `json:"received_at,omitempty" gorm:"column:received_at"`
	Items           []PurchaseOrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time           `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time           `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

type PurchaseOrderItem struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	OrderID         int64           `json:"order_id" gorm:"column:order_id;not null;index"`
	InventoryItemID *int64          `json:"inventory_item_id,omitempty" gorm:"column:inventory_item_id"`
	Name            string          `json:"name" gorm:"not null"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3);not null"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:numeric(14,2);not null"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
