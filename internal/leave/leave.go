package leave

import (
	"context"
	"time"

	leaveDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/leave"
	"github.com/mfadhilr/office-management/internal/workflow"
)

const (
	StatusPendingHOD = "Pending HOD"
	StatusPendingHR  = "Pending HR"
	StatusApproved   = "Approved"
	StatusRejected   = "Rejected"
)

const (
	TriggerHODApprove workflow.Trigger = "hod_approve"
	TriggerHODReject  workflow.Trigger = "hod_reject"
	TriggerHRApprove  workflow.Trigger = "hr_approve"
	TriggerHRReject   workflow.Trigger = "hr_reject"
)

type approvalContextKey struct{}

type approvalContext struct {
	actorDepartment   string
	requestDepartment string
}

// WithApproval carries the acting approver's department so the HOD guard can
// compare it against the request's department at fire time.
func WithApproval(ctx context.Context, actorDepartment, requestDepartment string) context.Context {
	return context.WithValue(ctx, approvalContextKey{}, approvalContext{
		actorDepartment:   actorDepartment,
		requestDepartment: requestDepartment,
	})
}

func departmentMatches(ctx context.Context) bool {
	ac, ok := ctx.Value(approvalContextKey{}).(approvalContext)
	return ok && ac.actorDepartment == ac.requestDepartment
}

var machineBuilder = func() *workflow.Builder {
	b := workflow.NewBuilder()
	b.Configure(workflow.State(StatusPendingHOD)).
		PermitIf(TriggerHODApprove, workflow.State(StatusPendingHR), departmentMatches).
		PermitIf(TriggerHODReject, workflow.State(StatusRejected), departmentMatches)
	b.Configure(workflow.State(StatusPendingHR)).
		Permit(TriggerHRApprove, workflow.State(StatusApproved)).
		Permit(TriggerHRReject, workflow.State(StatusRejected))
	b.Configure(workflow.State(StatusApproved))
	b.Configure(workflow.State(StatusRejected))
	return b
}()

// NewMachine returns a state machine positioned at the request's current
// status.
func NewMachine(status string) *workflow.Machine {
	return machineBuilder.Build(workflow.State(status))
}

type Request struct {
	ID              int64      `json:"id"`
	EmployeeID      int64      `json:"employee_id"`
	Department      string     `json:"department"`
	LeaveType       string     `json:"leave_type"`
	FromDate        time.Time  `json:"from_date"`
	ToDate          time.Time  `json:"to_date"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	HODActionBy     *int64     `json:"hod_action_by,omitempty"`
	HRActionBy      *int64     `json:"hr_action_by,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPendingHOD || r.Status == StatusPendingHR
}

// DaysBetween counts calendar days from from to to, inclusive of both ends.
func DaysBetween(from, to time.Time) int {
	from = from.Truncate(24 * time.Hour)
	to = to.Truncate(24 * time.Hour)
	return int(to.Sub(from).Hours()/24) + 1
}

func ToDataModel(r *Request) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Department:      r.Department,
		LeaveType:       r.LeaveType,
		FromDate:        r.FromDate,
		ToDate:          r.ToDate,
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          r.Status,
		HODActionBy:     r.HODActionBy,
		HRActionBy:      r.HRActionBy,
		RejectionReason: r.RejectionReason,
		ProcessedAt:     r.ProcessedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModel(r *leaveDatamodel.LeaveRequest) *Request {
	return &Request{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Department:      r.Department,
		LeaveType:       r.LeaveType,
		FromDate:        r.FromDate,
		ToDate:          r.ToDate,
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          r.Status,
		HODActionBy:     r.HODActionBy,
		HRActionBy:      r.HRActionBy,
		RejectionReason: r.RejectionReason,
		ProcessedAt:     r.ProcessedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModelSlice(records []*leaveDatamodel.LeaveRequest) []*Request {
	result := make([]*Request, len(records))
	for i, r := range records {
		result[i] = FromDataModel(r)
	}
	return result
}
