package procurement_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	internal "github.com/mfadhilr/office-management/internal"
	"github.com/mfadhilr/office-management/internal/core/events"
	"github.com/mfadhilr/office-management/internal/employee"
	"github.com/mfadhilr/office-management/internal/procurement"
)

func TestProcurementService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Procurement Service Suite")
}

type mockProcurementRepo struct {
	requests map[int64]*procurement.Request
	orders   map[int64]*procurement.Order
	nextID   int64

	// stock maps inventory item id to its quantity; IssueRequest and
	// ReceiveOrder mutate it the way the SQL repository would.
	stock map[int64]decimal.Decimal
}

func newMockProcurementRepo() *mockProcurementRepo {
	return &mockProcurementRepo{
		requests: make(map[int64]*procurement.Request),
		orders:   make(map[int64]*procurement.Order),
		stock:    make(map[int64]decimal.Decimal),
		nextID:   1,
	}
}

func (m *mockProcurementRepo) CreateRequest(req *procurement.Request) error {
	req.ID = m.nextID
	m.nextID++
	req.RequestNumber = procurement.NextRequestNumber(time.Now().Year(), int64(len(m.requests)+1))
	m.requests[req.ID] = req
	return nil
}

func (m *mockProcurementRepo) GetRequestByID(id int64) (*procurement.Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *req
	return &copied, nil
}

func (m *mockProcurementRepo) ListRequests(filter procurement.RequestFilter) ([]*procurement.Request, error) {
	var result []*procurement.Request
	for _, req := range m.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

func (m *mockProcurementRepo) UpdateRequest(req *procurement.Request) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockProcurementRepo) IssueRequest(req *procurement.Request) error {
	// all-or-nothing: check every line before mutating anything
	for _, item := range req.Items {
		if item.InventoryItemID == nil {
			return fmt.Errorf("%w: %s", procurement.ErrItemNotStocked, item.Name)
		}
		if m.stock[*item.InventoryItemID].LessThan(item.Quantity) {
			return fmt.Errorf("%w: %s", procurement.ErrInsufficientStock, item.Name)
		}
	}
	for _, item := range req.Items {
		m.stock[*item.InventoryItemID] = m.stock[*item.InventoryItemID].Sub(item.Quantity)
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockProcurementRepo) ConvertRequest(req *procurement.Request, order *procurement.Order) error {
	if err := m.CreateOrder(order); err != nil {
		return err
	}
	req.PurchaseOrderID = &order.ID
	m.requests[req.ID] = req
	return nil
}

func (m *mockProcurementRepo) CreateOrder(order *procurement.Order) error {
	order.ID = m.nextID
	m.nextID++
	order.OrderNumber = procurement.NextOrderNumber(time.Now().Year(), int64(len(m.orders)+1))
	m.orders[order.ID] = order
	return nil
}

func (m *mockProcurementRepo) GetOrderByID(id int64) (*procurement.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *order
	return &copied, nil
}

func (m *mockProcurementRepo) ListOrders(filter procurement.OrderFilter) ([]*procurement.Order, error) {
	var result []*procurement.Order
	for _, order := range m.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (m *mockProcurementRepo) UpdateOrder(order *procurement.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockProcurementRepo) ReceiveOrder(order *procurement.Order) error {
	for _, item := range order.Items {
		if item.InventoryItemID == nil {
			continue
		}
		m.stock[*item.InventoryItemID] = m.stock[*item.InventoryItemID].Add(item.Quantity)
	}
	m.orders[order.ID] = order
	return nil
}

type mockDirectory struct {
	employees map[int64]*employee.Employee
}

func (m *mockDirectory) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return emp, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Procurement Service", func() {
	var (
		repo    *mockProcurementRepo
		bus     *mockPublisher
		service *procurement.Service
		ctx     context.Context
	)

	const requesterID = int64(1)
	riceItemID := int64(100)
	oilItemID := int64(101)

	BeforeEach(func() {
		repo = newMockProcurementRepo()
		repo.stock[riceItemID] = decimal.RequireFromString("25.5")
		repo.stock[oilItemID] = decimal.RequireFromString("4")
		directory := &mockDirectory{
			employees: map[int64]*employee.Employee{
				requesterID: {ID: requesterID, Department: "Kitchen", Status: employee.StatusActive},
			},
		}
		bus = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = procurement.NewService(repo, directory, bus, logger)
		ctx = context.Background()
	})

	createRequest := func(items ...procurement.RequestItemDTO) *procurement.Request {
		req, err := service.CreateRequest(ctx, requesterID, procurement.CreateRequestDTO{
			Purpose: "monthly kitchen restock",
			Items:   items,
		})
		Expect(err).NotTo(HaveOccurred())
		return req
	}

	stockedItem := func(id int64, name, qty string) procurement.RequestItemDTO {
		return procurement.RequestItemDTO{
			InventoryItemID: &id,
			Name:            name,
			Quantity:        decimal.RequireFromString(qty),
			Unit:            "kg",
		}
	}

	Describe("CreateRequest", func() {
		It("should start in Pending Account Manager with a sequential number", func() {
			req := createRequest(stockedItem(riceItemID, "Rice", "10"))
			Expect(req.Status).To(Equal(procurement.RequestStatusPendingAM))
			Expect(req.RequestNumber).To(MatchRegexp(`^MRF-\d{4}-\d{5}$`))
			Expect(req.Department).To(Equal("Kitchen"))
		})

		It("should reject empty item lists and non-positive quantities", func() {
			_, err := service.CreateRequest(ctx, requesterID, procurement.CreateRequestDTO{})
			Expect(err).To(HaveOccurred())

			_, err = service.CreateRequest(ctx, requesterID, procurement.CreateRequestDTO{
				Items: []procurement.RequestItemDTO{{Name: "Rice", Quantity: decimal.Zero}},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("store issue", func() {
		It("should deduct stock and mark the request issued", func() {
			req := createRequest(
				stockedItem(riceItemID, "Rice", "10.5"),
				stockedItem(oilItemID, "Cooking Oil", "1.5"),
			)
			_, err := service.AMApproveRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())

			issued, err := service.IssueRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(issued.Status).To(Equal(procurement.RequestStatusIssued))
			Expect(repo.stock[riceItemID].Equal(decimal.RequireFromString("15"))).To(BeTrue())
			Expect(repo.stock[oilItemID].Equal(decimal.RequireFromString("2.5"))).To(BeTrue())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventRequestIssued))
		})

		It("should leave all stock untouched when any line is short", func() {
			req := createRequest(
				stockedItem(riceItemID, "Rice", "10"),
				stockedItem(oilItemID, "Cooking Oil", "99"),
			)
			_, err := service.AMApproveRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.IssueRequest(ctx, req.ID)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientStock))

			Expect(repo.stock[riceItemID].Equal(decimal.RequireFromString("25.5"))).To(BeTrue())
			Expect(repo.stock[oilItemID].Equal(decimal.RequireFromString("4"))).To(BeTrue())
			Expect(repo.requests[req.ID].Status).To(Equal(procurement.RequestStatusPendingStr))
		})

		It("should refuse to issue before account manager approval", func() {
			req := createRequest(stockedItem(riceItemID, "Rice", "10"))

			_, err := service.IssueRequest(ctx, req.ID)
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("should refuse lines with no inventory reference", func() {
			req := createRequest(procurement.RequestItemDTO{
				Name:     "Imported Saffron",
				Quantity: decimal.RequireFromString("0.2"),
				Unit:     "kg",
			})
			_, err := service.AMApproveRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.IssueRequest(ctx, req.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("forward and convert to purchase order", func() {
		It("should link the purchase order and close the request as converted", func() {
			req := createRequest(stockedItem(riceItemID, "Rice", "100"))
			_, err := service.AMApproveRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ForwardRequest(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())

			order, err := service.ConvertRequest(ctx, req.ID, procurement.CreateOrderDTO{
				Vendor: "Metro Wholesale",
				Items: []procurement.OrderItemDTO{{
					InventoryItemID: &riceItemID,
					Name:            "Rice",
					Quantity:        decimal.RequireFromString("100"),
					Unit:            "kg",
					UnitPrice:       decimal.RequireFromString("2.40"),
				}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(procurement.OrderStatusPendingAM))
			Expect(order.TotalAmount.Equal(decimal.RequireFromString("240"))).To(BeTrue())
			Expect(*order.SupplyRequestID).To(Equal(req.ID))

			converted := repo.requests[req.ID]
			Expect(converted.Status).To(Equal(procurement.RequestStatusConverted))
			Expect(*converted.PurchaseOrderID).To(Equal(order.ID))
		})

		It("should refuse conversion of a request that was never forwarded", func() {
			req := createRequest(stockedItem(riceItemID, "Rice", "10"))

			_, err := service.ConvertRequest(ctx, req.ID, procurement.CreateOrderDTO{
				Vendor: "Metro Wholesale",
				Items: []procurement.OrderItemDTO{{
					Name:      "Rice",
					Quantity:  decimal.RequireFromString("10"),
					UnitPrice: decimal.RequireFromString("2.40"),
				}},
			})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})
	})

	Describe("purchase order lifecycle", func() {
		var orderID int64

		BeforeEach(func() {
			order, err := service.CreateOrder(ctx, procurement.CreateOrderDTO{
				Vendor: "Metro Wholesale",
				Items: []procurement.OrderItemDTO{{
					InventoryItemID: &oilItemID,
					Name:            "Cooking Oil",
					Quantity:        decimal.RequireFromString("12"),
					Unit:            "liter",
					UnitPrice:       decimal.RequireFromString("3.75"),
				}},
			})
			Expect(err).NotTo(HaveOccurred())
			orderID = order.ID
		})

		It("should compute the total from line amounts", func() {
			order, err := service.GetOrder(orderID)
			Expect(err).NotTo(HaveOccurred())
			Expect(order.TotalAmount.Equal(decimal.RequireFromString("45"))).To(BeTrue())
		})

		It("should restock inventory on GRN receive", func() {
			_, err := service.ApproveOrder(ctx, orderID)
			Expect(err).NotTo(HaveOccurred())

			received, err := service.ReceiveOrder(ctx, orderID, procurement.ReceiveDTO{
				GRNNumber: "GRN-2026-0007",
				Remarks:   "two drums dented",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(received.Status).To(Equal(procurement.OrderStatusReceived))
			Expect(*received.GRNNumber).To(Equal("GRN-2026-0007"))
			Expect(received.ReceivedAt).NotTo(BeNil())
			Expect(repo.stock[oilItemID].Equal(decimal.RequireFromString("16"))).To(BeTrue())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventOrderReceived))
		})

		It("should require a GRN number to receive", func() {
			_, err := service.ApproveOrder(ctx, orderID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReceiveOrder(ctx, orderID, procurement.ReceiveDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should refuse receiving an unapproved order", func() {
			_, err := service.ReceiveOrder(ctx, orderID, procurement.ReceiveDTO{GRNNumber: "GRN-1"})
			Expect(err).To(HaveOccurred())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("should require a reason to reject", func() {
			_, err := service.RejectOrder(ctx, orderID, procurement.RejectDTO{})
			Expect(err).To(HaveOccurred())

			order, err := service.RejectOrder(ctx, orderID, procurement.RejectDTO{Reason: "over budget"})
			Expect(err).NotTo(HaveOccurred())
			Expect(order.Status).To(Equal(procurement.OrderStatusRejected))
		})
	})
})
