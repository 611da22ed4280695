package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
)

func TestEmployeeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Service Suite")
}

type mockEmployeeRepo struct {
	employees     map[int64]*employee.Employee
	balances      map[int64][]employee.Balance
	nextID        int64
	createErr     error
	lastCreatedID int64
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees: make(map[int64]*employee.Employee),
		balances:  make(map[int64][]employee.Balance),
		nextID:    1,
	}
}

func (m *mockEmployeeRepo) Create(emp *employee.Employee, balances []employee.Balance) error {
	if m.createErr != nil {
		return m.createErr
	}
	emp.ID = m.nextID
	m.nextID++
	m.employees[emp.ID] = emp
	m.balances[emp.ID] = balances
	m.lastCreatedID = emp.ID
	return nil
}

func (m *mockEmployeeRepo) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return emp, nil
}

func (m *mockEmployeeRepo) GetByCode(code string) (*employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.EmployeeCode == code {
			return emp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockEmployeeRepo) List(department string, limit, offset int) ([]*employee.Employee, error) {
	var result []*employee.Employee
	for _, emp := range m.employees {
		if department == "" || emp.Department == department {
			result = append(result, emp)
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(emp *employee.Employee) error {
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetBalances(employeeID int64) ([]employee.Balance, error) {
	return m.balances[employeeID], nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Employee Service", func() {
	var (
		repo    *mockEmployeeRepo
		bus     *mockPublisher
		service *employee.Service
	)

	BeforeEach(func() {
		repo = newMockEmployeeRepo()
		bus = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = employee.NewService(repo, bus, logger)
	})

	Describe("CreateEmployee", func() {
		It("should create the employee with default leave balances", func() {
			// Given: a valid create request
			dto := employee.CreateEmployeeDTO{
				EmployeeCode: "EMP-001",
				FullName:     "Ayesha Khan",
				Email:        "ayesha@example.com",
				Department:   "Finance",
			}

			// When: the employee is created
			emp, err := service.CreateEmployee(dto)

			// Then: defaults are applied and balances provisioned
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Status).To(Equal(employee.StatusActive))
			Expect(emp.EmploymentType).To(Equal(employee.EmploymentPermanent))

			balances := repo.balances[emp.ID]
			Expect(balances).To(HaveLen(3))
			totals := make(map[string]int)
			for _, b := range balances {
				totals[b.LeaveType] = b.Total
				Expect(b.Used).To(Equal(0))
			}
			Expect(totals[employee.LeaveTypeCasual]).To(Equal(6))
			Expect(totals[employee.LeaveTypeSick]).To(Equal(8))
			Expect(totals[employee.LeaveTypeAnnual]).To(Equal(14))
		})

		It("should reject a duplicate employee code", func() {
			dto := employee.CreateEmployeeDTO{
				EmployeeCode: "EMP-001",
				FullName:     "Ayesha Khan",
				Email:        "ayesha@example.com",
				Department:   "Finance",
			}
			_, err := service.CreateEmployee(dto)
			Expect(err).NotTo(HaveOccurred())

			dto.Email = "other@example.com"
			_, err = service.CreateEmployee(dto)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should reject missing required fields", func() {
			_, err := service.CreateEmployee(employee.CreateEmployeeDTO{FullName: "No Code"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ResignEmployee", func() {
		It("should mark an active employee resigned and publish an event", func() {
			emp, err := service.CreateEmployee(employee.CreateEmployeeDTO{
				EmployeeCode: "EMP-002",
				FullName:     "Bilal Ahmed",
				Email:        "bilal@example.com",
				Department:   "IT",
			})
			Expect(err).NotTo(HaveOccurred())

			resigned, err := service.ResignEmployee(context.Background(), emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resigned.Status).To(Equal(employee.StatusResigned))
			Expect(resigned.ResignedAt).NotTo(BeNil())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventEmployeeResigned))
		})

		It("should refuse to resign an already resigned employee", func() {
			emp, err := service.CreateEmployee(employee.CreateEmployeeDTO{
				EmployeeCode: "EMP-003",
				FullName:     "Sana Tariq",
				Email:        "sana@example.com",
				Department:   "HR",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ResignEmployee(context.Background(), emp.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ResignEmployee(context.Background(), emp.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetBalances", func() {
		It("should return the provisioned balances", func() {
			emp, err := service.CreateEmployee(employee.CreateEmployeeDTO{
				EmployeeCode: "EMP-004",
				FullName:     "Omar Farooq",
				Email:        "omar@example.com",
				Department:   "Store",
			})
			Expect(err).NotTo(HaveOccurred())

			resp, err := service.GetBalances(emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.EmployeeID).To(Equal(emp.ID))
			Expect(resp.Balances).To(HaveLen(3))
		})

		It("should return not found for an unknown employee", func() {
			_, err := service.GetBalances(999)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})
})
