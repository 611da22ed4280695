package procurement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	procurementDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/procurement"
	"github.com/mfadhilr/office-management/internal/workflow"
)

const (
	OrderStatusPendingAM = "Pending Account Manager"
	OrderStatusApproved  = "Approved"
	OrderStatusRejected  = "Rejected"
	OrderStatusReceived  = "Received"
)

const (
	TriggerOrderApprove workflow.Trigger = "order_approve"
	TriggerOrderReject  workflow.Trigger = "order_reject"
	TriggerOrderReceive workflow.Trigger = "order_receive"
)

var orderMachineBuilder = func() *workflow.Builder {
	b := workflow.NewBuilder()
	b.Configure(workflow.State(OrderStatusPendingAM)).
		Permit(TriggerOrderApprove, workflow.State(OrderStatusApproved)).
		Permit(TriggerOrderReject, workflow.State(OrderStatusRejected))
	b.Configure(workflow.State(OrderStatusApproved)).
		Permit(TriggerOrderReceive, workflow.State(OrderStatusReceived))
	b.Configure(workflow.State(OrderStatusRejected))
	b.Configure(workflow.State(OrderStatusReceived))
	return b
}()

// NewOrderMachine returns a state machine positioned at the order's current
// status.
func NewOrderMachine(status string) *workflow.Machine {
	return orderMachineBuilder.Build(workflow.State(status))
}

type OrderItem struct {
	ID              int64           `json:"id"`
	InventoryItemID *int64          `json:"inventory_item_id,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// Amount is the line total.
func (i OrderItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Vendor          string          `json:"vendor"`
	SupplyRequestID *int64          `json:"supply_request_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	GRNNumber       *string         `json:"grn_number,omitempty"`
	GRNRemarks      *string         `json:"grn_remarks,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Total sums the line amounts.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// NextOrderNumber formats a sequential PO number like PO-2026-00042.
func NextOrderNumber(year int, seq int64) string {
	return fmt.Sprintf("PO-%d-%05d", year, seq)
}

func OrderToDataModel(o *Order) *procurementDatamodel.PurchaseOrder {
	items := make([]procurementDatamodel.PurchaseOrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = procurementDatamodel.PurchaseOrderItem{
			ID:              item.ID,
			OrderID:         o.ID,
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
		}
	}
	return &procurementDatamodel.PurchaseOrder{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Vendor:          o.Vendor,
		SupplyRequestID: o.SupplyRequestID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		RejectionReason: o.RejectionReason,
		GRNNumber:       o.GRNNumber,
		GRNRemarks:      o.GRNRemarks,
		ReceivedAt:      o.ReceivedAt,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func OrderFromDataModel(o *procurementDatamodel.PurchaseOrder) *Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ID:              item.ID,
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
		}
	}
	return &Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Vendor:          o.Vendor,
		SupplyRequestID: o.SupplyRequestID,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		RejectionReason: o.RejectionReason,
		GRNNumber:       o.GRNNumber,
		GRNRemarks:      o.GRNRemarks,
		ReceivedAt:      o.ReceivedAt,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func OrderFromDataModelSlice(records []*procurementDatamodel.PurchaseOrder) []*Order {
	result := make([]*Order, len(records))
	for i, o := range records {
		result[i] = OrderFromDataModel(o)
	}
	return result
}
