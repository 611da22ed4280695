package leave_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/auth"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/leave"
)

func TestLeaveService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Service Suite")
}

type mockLeaveRepo struct {
	requests map[int64]*leave.Request
	nextID   int64

	approvedWithBalance bool
	lastDecrement       bool
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{requests: make(map[int64]*leave.Request), nextID: 1}
}

func (m *mockLeaveRepo) Create(req *leave.Request) error {
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockLeaveRepo) GetByID(id int64) (*leave.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *req
	return &copied, nil
}

func (m *mockLeaveRepo) List(filter leave.ListFilter) ([]*leave.Request, error) {
	var result []*leave.Request
	for _, req := range m.requests {
		if filter.EmployeeID != 0 && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Department != "" && req.Department != filter.Department {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

func (m *mockLeaveRepo) Update(req *leave.Request) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockLeaveRepo) ApproveWithBalance(req *leave.Request, decrementBalance bool) error {
	m.requests[req.ID] = req
	m.approvedWithBalance = true
	m.lastDecrement = decrementBalance
	return nil
}

type mockDirectory struct {
	employees map[int64]*employee.Employee
	balances  map[int64][]employee.Balance
}

func (m *mockDirectory) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return emp, nil
}

func (m *mockDirectory) GetBalances(employeeID int64) ([]employee.Balance, error) {
	return m.balances[employeeID], nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Leave Service", func() {
	var (
		repo      *mockLeaveRepo
		directory *mockDirectory
		bus       *mockPublisher
		service   *leave.Service
		ctx       context.Context
	)

	const (
		requesterID = int64(1)
		hodSameDept = int64(2)
		hodOtherDpt = int64(3)
		hrUserID    = int64(10)
	)

	hodUser := func(employeeID int64) *auth.User {
		id := employeeID
		return &auth.User{ID: employeeID + 100, Role: auth.RoleHOD, EmployeeID: &id}
	}
	financeHOD := hodUser(hodSameDept)
	itHOD := hodUser(hodOtherDpt)
	admin := &auth.User{ID: 99, Role: auth.RoleSuperAdmin}

	BeforeEach(func() {
		repo = newMockLeaveRepo()
		directory = &mockDirectory{
			employees: map[int64]*employee.Employee{
				requesterID: {ID: requesterID, Department: "Finance", Status: employee.StatusActive, EmploymentType: employee.EmploymentPermanent},
				hodSameDept: {ID: hodSameDept, Department: "Finance", Status: employee.StatusActive, EmploymentType: employee.EmploymentPermanent},
				hodOtherDpt: {ID: hodOtherDpt, Department: "IT", Status: employee.StatusActive, EmploymentType: employee.EmploymentPermanent},
			},
			balances: map[int64][]employee.Balance{
				requesterID: {
					{LeaveType: employee.LeaveTypeCasual, Total: 6, Used: 0},
					{LeaveType: employee.LeaveTypeSick, Total: 8, Used: 6},
				},
			},
		}
		bus = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = leave.NewService(repo, directory, bus, logger)
		ctx = context.Background()
	})

	apply := func(leaveType, from, to string) (*leave.Request, error) {
		return service.Apply(ctx, requesterID, leave.ApplyLeaveDTO{
			LeaveType: leaveType,
			FromDate:  from,
			ToDate:    to,
			Reason:    "personal",
		})
	}

	Describe("Apply", func() {
		It("should create a request in Pending HOD with inclusive day count", func() {
			req, err := apply(employee.LeaveTypeCasual, "2026-09-07", "2026-09-09")
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusPendingHOD))
			Expect(req.Days).To(Equal(3))
			Expect(req.Department).To(Equal("Finance"))
		})

		It("should reject when the remaining balance cannot cover the range", func() {
			// Sick balance has 2 days remaining, the range needs 3
			_, err := apply(employee.LeaveTypeSick, "2026-09-07", "2026-09-09")
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientBalance))
		})

		It("should allow unpaid leave regardless of balances", func() {
			req, err := apply(employee.LeaveTypeOthers, "2026-09-07", "2026-09-30")
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusPendingHOD))
		})

		It("should restrict probationers to unpaid leave", func() {
			directory.employees[requesterID].EmploymentType = employee.EmploymentProbation

			_, err := apply(employee.LeaveTypeCasual, "2026-09-07", "2026-09-08")
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmployeeOnProbation))

			_, err = apply(employee.LeaveTypeOthers, "2026-09-07", "2026-09-08")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject an inverted date range", func() {
			_, err := apply(employee.LeaveTypeCasual, "2026-09-09", "2026-09-07")
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDateRange))
		})
	})

	Describe("two-stage approval", func() {
		var reqID int64

		BeforeEach(func() {
			req, err := apply(employee.LeaveTypeCasual, "2026-09-07", "2026-09-08")
			Expect(err).NotTo(HaveOccurred())
			reqID = req.ID
		})

		It("should route HOD approval to HR, then HR approval to Approved", func() {
			req, err := service.HODApprove(ctx, reqID, financeHOD)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusPendingHR))
			Expect(*req.HODActionBy).To(Equal(hodSameDept))

			req, err = service.HRApprove(ctx, reqID, hrUserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusApproved))
			Expect(req.ProcessedAt).NotTo(BeNil())
		})

		It("should refuse HOD approval from a different department", func() {
			_, err := service.HODApprove(ctx, reqID, itHOD)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should let a superadmin act at the HOD stage without a linked employee record", func() {
			req, err := service.HODApprove(ctx, reqID, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusPendingHR))
			Expect(req.HODActionBy).To(BeNil())
		})

		It("should refuse an approver with no linked employee record", func() {
			unlinked := &auth.User{ID: 50, Role: auth.RoleHOD}
			_, err := service.HODApprove(ctx, reqID, unlinked)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should refuse HR approval before HOD approval", func() {
			_, err := service.HRApprove(ctx, reqID, hrUserID)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("should refuse any action on an already approved request", func() {
			_, err := service.HODApprove(ctx, reqID, financeHOD)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.HRApprove(ctx, reqID, hrUserID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.HRApprove(ctx, reqID, hrUserID)
			Expect(err).To(HaveOccurred())
			_, err = service.HODApprove(ctx, reqID, financeHOD)
			Expect(err).To(HaveOccurred())
		})

		It("should require a reason to reject", func() {
			_, err := service.HODReject(ctx, reqID, financeHOD, leave.RejectDTO{})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemarksRequired))
		})

		It("should record the rejection reason and publish an event", func() {
			req, err := service.HODReject(ctx, reqID, financeHOD, leave.RejectDTO{Reason: "project deadline"})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusRejected))
			Expect(*req.RejectionReason).To(Equal("project deadline"))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventLeaveRejected))
		})
	})

	Describe("balance decrement on HR approval", func() {
		It("should charge paid leave against the balance in the approval write", func() {
			req, err := apply(employee.LeaveTypeCasual, "2026-09-07", "2026-09-08")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.HODApprove(ctx, req.ID, financeHOD)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.HRApprove(ctx, req.ID, hrUserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.approvedWithBalance).To(BeTrue())
			Expect(repo.lastDecrement).To(BeTrue())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventLeaveApproved))
		})

		It("should not charge unpaid leave", func() {
			req, err := apply(employee.LeaveTypeOthers, "2026-09-07", "2026-09-08")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.HODApprove(ctx, req.ID, financeHOD)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.HRApprove(ctx, req.ID, hrUserID)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastDecrement).To(BeFalse())
		})
	})

	Describe("DaysBetween", func() {
		It("should count both endpoints", func() {
			day := func(s string) time.Time {
				t, err := time.Parse("2006-01-02", s)
				Expect(err).NotTo(HaveOccurred())
				return t
			}
			Expect(leave.DaysBetween(day("2026-09-07"), day("2026-09-07"))).To(Equal(1))
			Expect(leave.DaysBetween(day("2026-09-07"), day("2026-09-11"))).To(Equal(5))
		})
	})
})
