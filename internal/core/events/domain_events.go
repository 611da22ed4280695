package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventLeaveApproved    = "leave.approved"
	EventLeaveRejected    = "leave.rejected"
	EventRequestIssued    = "procurement.request_issued"
	EventOrderReceived    = "procurement.order_received"
	EventTaskTransitioned = "task.transitioned"
	EventAttendanceImport = "attendance.imported"
	EventEmployeeResigned = "employee.resigned"
)

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewLeaveApprovedEvent(requestID, employeeID int64, leaveType string, days int) BaseEvent {
	return newEvent(EventLeaveApproved, map[string]interface{}{
		"request_id":  requestID,
		"employee_id": employeeID,
		"leave_type":  leaveType,
		"days":        days,
	})
}

func NewLeaveRejectedEvent(requestID, employeeID int64, stage, reason string) BaseEvent {
	return newEvent(EventLeaveRejected, map[string]interface{}{
		"request_id":  requestID,
		"employee_id": employeeID,
		"stage":       stage,
		"reason":      reason,
	})
}

func NewRequestIssuedEvent(requestID int64, itemCount int) BaseEvent {
	return newEvent(EventRequestIssued, map[string]interface{}{
		"request_id": requestID,
		"item_count": itemCount,
	})
}

func NewOrderReceivedEvent(orderID int64, grnNumber string) BaseEvent {
	return newEvent(EventOrderReceived, map[string]interface{}{
		"order_id":   orderID,
		"grn_number": grnNumber,
	})
}

func NewTaskTransitionedEvent(taskID, actorID int64, action, newStatus string) BaseEvent {
	return newEvent(EventTaskTransitioned, map[string]interface{}{
		"task_id":    taskID,
		"actor_id":   actorID,
		"action":     action,
		"new_status": newStatus,
	})
}

func NewAttendanceImportedEvent(processed, unmatched int) BaseEvent {
	return newEvent(EventAttendanceImport, map[string]interface{}{
		"processed": processed,
		"unmatched": unmatched,
	})
}

func NewEmployeeResignedEvent(employeeID int64) BaseEvent {
	return newEvent(EventEmployeeResigned, map[string]interface{}{
		"employee_id": employeeID,
	})
}
