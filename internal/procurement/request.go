package procurement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	procurementDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/procurement"
	"github.com/mfadhilr/office-management/internal/workflow"
)

// Supply request lifecycle. "Converted to PO" and "Issued" are the two
// terminal success states: one ends in a purchase order, the other in stock
// handed over directly from the store.
const (
	RequestStatusPendingAM  = "Pending Account Manager"
	RequestStatusPendingStr = "Pending Store"
	RequestStatusForwarded  = "Forwarded to Purchase"
	RequestStatusConverted  = "Converted to PO"
	RequestStatusIssued     = "Issued"
	RequestStatusRejected   = "Rejected"
)

const (
	TriggerAMApprove    workflow.Trigger = "am_approve"
	TriggerAMReject     workflow.Trigger = "am_reject"
	TriggerStoreIssue   workflow.Trigger = "store_issue"
	TriggerStoreForward workflow.Trigger = "store_forward"
	TriggerConvertToPO  workflow.Trigger = "convert_to_po"
)

var requestMachineBuilder = func() *workflow.Builder {
	b := workflow.NewBuilder()
	b.Configure(workflow.State(RequestStatusPendingAM)).
		Permit(TriggerAMApprove, workflow.State(RequestStatusPendingStr)).
		Permit(TriggerAMReject, workflow.State(RequestStatusRejected))
	b.Configure(workflow.State(RequestStatusPendingStr)).
		Permit(TriggerStoreIssue, workflow.State(RequestStatusIssued)).
		Permit(TriggerStoreForward, workflow.State(RequestStatusForwarded))
	b.Configure(workflow.State(RequestStatusForwarded)).
		Permit(TriggerConvertToPO, workflow.State(RequestStatusConverted))
	b.Configure(workflow.State(RequestStatusConverted))
	b.Configure(workflow.State(RequestStatusIssued))
	b.Configure(workflow.State(RequestStatusRejected))
	return b
}()

// NewRequestMachine returns a state machine positioned at the request's
// current status.
func NewRequestMachine(status string) *workflow.Machine {
	return requestMachineBuilder.Build(workflow.State(status))
}

type RequestItem struct {
	ID              int64           `json:"id"`
	InventoryItemID *int64          `json:"inventory_item_id,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
}

type Request struct {
	ID              int64         `json:"id"`
	RequestNumber   string        `json:"request_number"`
	RequesterID     int64         `json:"requester_id"`
	Department      string        `json:"department"`
	Purpose         string        `json:"purpose"`
	Status          string        `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	PurchaseOrderID *int64        `json:"purchase_order_id,omitempty"`
	Items           []RequestItem `json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NextRequestNumber formats a sequential MRF number like MRF-2026-00042.
func NextRequestNumber(year int, seq int64) string {
	return fmt.Sprintf("MRF-%d-%05d", year, seq)
}

func RequestToDataModel(r *Request) *procurementDatamodel.SupplyRequest {
	items := make([]procurementDatamodel.SupplyRequestItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = procurementDatamodel.SupplyRequestItem{
			ID:              item.ID,
			RequestID:       r.ID,
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
		}
	}
	return &procurementDatamodel.SupplyRequest{
		ID:              r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		Department:      r.Department,
		Purpose:         r.Purpose,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		PurchaseOrderID: r.PurchaseOrderID,
		Items:           items,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func RequestFromDataModel(r *procurementDatamodel.SupplyRequest) *Request {
	items := make([]RequestItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = RequestItem{
			ID:              item.ID,
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
		}
	}
	return &Request{
		ID:              r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		Department:      r.Department,
		Purpose:         r.Purpose,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		PurchaseOrderID: r.PurchaseOrderID,
		Items:           items,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func RequestFromDataModelSlice(records []*procurementDatamodel.SupplyRequest) []*Request {
	result := make([]*Request, len(records))
	for i, r := range records {
		result[i] = RequestFromDataModel(r)
	}
	return result
}
