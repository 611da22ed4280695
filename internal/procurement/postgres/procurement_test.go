package postgres_test

import (
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mfadhilr/office-management/internal/procurement"
	procurementPostgres "github.com/mfadhilr/office-management/internal/procurement/postgres"
)

func TestProcurementPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Procurement Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteRequest struct {
	ID              int64  `gorm:"primaryKey"`
	RequestNumber   string `gorm:"column:request_number;uniqueIndex;not null"`
	RequesterID     int64  `gorm:"column:requester_id"`
	Department      string
	Purpose         string
	Status          string  `gorm:"not null"`
	RejectionReason *string `gorm:"column:rejection_reason"`
	PurchaseOrderID *int64  `gorm:"column:purchase_order_id"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SQLiteRequest) TableName() string {
	return "supply_requests"
}

type SQLiteRequestItem struct {
	ID              int64  `gorm:"primaryKey"`
	RequestID       int64  `gorm:"column:request_id"`
	InventoryItemID *int64 `gorm:"column:inventory_item_id"`
	Name            string
	Quantity        string
	Unit            string
}

func (SQLiteRequestItem) TableName() string {
	return "supply_request_items"
}

type SQLiteOrder struct {
	ID              int64  `gorm:"primaryKey"`
	OrderNumber     string `gorm:"column:order_number;uniqueIndex;not null"`
	Vendor          string
	SupplyRequestID *int64 `gorm:"column:supply_request_id"`
	TotalAmount     string `gorm:"column:total_amount"`
	Status          string `gorm:"not null"`
	RejectionReason *string
	GRNNumber       *string `gorm:"column:grn_number"`
	GRNRemarks      *string `gorm:"column:grn_remarks"`
	ReceivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SQLiteOrder) TableName() string {
	return "purchase_orders"
}

type SQLiteOrderItem struct {
	ID              int64  `gorm:"primaryKey"`
	OrderID         int64  `gorm:"column:order_id"`
	InventoryItemID *int64 `gorm:"column:inventory_item_id"`
	Name            string
	Quantity        string
	Unit            string
	UnitPrice       string `gorm:"column:unit_price"`
}

func (SQLiteOrderItem) TableName() string {
	return "purchase_order_items"
}

var _ = Describe("Procurement PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo procurement.Repository
		year int
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRequest{}, &SQLiteRequestItem{}, &SQLiteOrder{}, &SQLiteOrderItem{})
		Expect(err).NotTo(HaveOccurred())

		repo = procurementPostgres.NewProcurementRepository(db)
		year = time.Now().Year()
	})

	newRequest := func() *procurement.Request {
		return &procurement.Request{
			RequesterID: 1,
			Department:  "Kitchen",
			Purpose:     "weekly stock",
			Status:      procurement.RequestStatusPendingAM,
			Items: []procurement.RequestItem{{
				Name:     "Rice",
				Quantity: decimal.RequireFromString("10"),
				Unit:     "kg",
			}},
		}
	}

	newOrder := func() *procurement.Order {
		return &procurement.Order{
			Vendor: "Metro Traders",
			Status: procurement.OrderStatusPendingAM,
			Items: []procurement.OrderItem{{
				Name:      "Rice",
				Quantity:  decimal.RequireFromString("10"),
				Unit:      "kg",
				UnitPrice: decimal.RequireFromString("250.00"),
			}},
		}
	}

	Describe("request numbering", func() {
		It("should number requests sequentially within the year", func() {
			first := newRequest()
			Expect(repo.CreateRequest(first)).To(Succeed())
			Expect(first.RequestNumber).To(Equal(fmt.Sprintf("MRF-%d-00001", year)))

			second := newRequest()
			Expect(repo.CreateRequest(second)).To(Succeed())
			Expect(second.RequestNumber).To(Equal(fmt.Sprintf("MRF-%d-00002", year)))
		})

		It("should continue after the highest existing number, not the row count", func() {
			Expect(db.Create(&SQLiteRequest{
				RequestNumber: fmt.Sprintf("MRF-%d-00007", year),
				Status:        procurement.RequestStatusPendingAM,
			}).Error).To(Succeed())

			req := newRequest()
			Expect(repo.CreateRequest(req)).To(Succeed())
			Expect(req.RequestNumber).To(Equal(fmt.Sprintf("MRF-%d-00008", year)))
		})

		It("should not reuse numbers from other years", func() {
			Expect(db.Create(&SQLiteRequest{
				RequestNumber: fmt.Sprintf("MRF-%d-00042", year-1),
				Status:        procurement.RequestStatusPendingAM,
			}).Error).To(Succeed())

			req := newRequest()
			Expect(repo.CreateRequest(req)).To(Succeed())
			Expect(req.RequestNumber).To(Equal(fmt.Sprintf("MRF-%d-00001", year)))
		})
	})

	Describe("order numbering", func() {
		It("should continue after the highest existing number, not the row count", func() {
			Expect(db.Create(&SQLiteOrder{
				OrderNumber: fmt.Sprintf("PO-%d-00019", year),
				Status:      procurement.OrderStatusPendingAM,
				TotalAmount: "2500.00",
			}).Error).To(Succeed())

			order := newOrder()
			Expect(repo.CreateOrder(order)).To(Succeed())
			Expect(order.OrderNumber).To(Equal(fmt.Sprintf("PO-%d-00020", year)))
		})
	})

	Describe("ConvertRequest", func() {
		It("should number the order and link it to the request in one write", func() {
			req := newRequest()
			Expect(repo.CreateRequest(req)).To(Succeed())

			order := newOrder()
			order.SupplyRequestID = &req.ID
			Expect(repo.ConvertRequest(req, order)).To(Succeed())
			Expect(order.OrderNumber).To(Equal(fmt.Sprintf("PO-%d-00001", year)))

			stored, err := repo.GetRequestByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.PurchaseOrderID).NotTo(BeNil())
			Expect(*stored.PurchaseOrderID).To(Equal(order.ID))
		})
	})
})
