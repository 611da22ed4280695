package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mfadhilr/office-management/internal/inventory"
	inventoryPostgres "github.com/mfadhilr/office-management/internal/inventory/postgres"
)

func TestInventoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Postgres Suite")
}

// SQLite-compatible models for testing
type SQLiteItem struct {
	ID           int64  `gorm:"primaryKey"`
	Category     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Model        string
	SerialNumber *string `gorm:"column:serial_number"`
	Status       string  `gorm:"not null"`
	AssignedTo   *int64  `gorm:"column:assigned_to"`
	Consumable   bool    `gorm:"not null;default:false"`
	Quantity     *string
	Unit         string
	Location     string
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteItem) TableName() string {
	return "inventory_items"
}

type SQLiteToner struct {
	ID        int64     `gorm:"primaryKey"`
	Model     string    `gorm:"uniqueIndex:idx_toner_model_status;not null"`
	Status    string    `gorm:"uniqueIndex:idx_toner_model_status;not null"`
	Count     int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteToner) TableName() string {
	return "toners"
}

var _ = Describe("Inventory PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo inventory.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteItem{}, &SQLiteToner{})
		Expect(err).NotTo(HaveOccurred())

		repo = inventoryPostgres.NewInventoryRepository(db)
	})

	newLaptop := func(serial string) *inventory.Item {
		return &inventory.Item{
			Category:     "Laptop",
			Name:         "ThinkPad T14",
			Model:        "T14 Gen 4",
			SerialNumber: &serial,
			Status:       inventory.StatusInStock,
			IsActive:     true,
		}
	}

	Describe("CreateItem and GetItemByID", func() {
		It("should persist a discrete asset", func() {
			item := newLaptop("SN-1001")
			err := repo.CreateItem(item)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID).To(BeNumerically(">", 0))

			loaded, err := repo.GetItemByID(item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("ThinkPad T14"))
			Expect(*loaded.SerialNumber).To(Equal("SN-1001"))
		})

		It("should persist a consumable with decimal quantity", func() {
			qty := decimal.RequireFromString("12.750")
			item := &inventory.Item{
				Category:   "Kitchen",
				Name:       "Basmati Rice",
				Status:     inventory.StatusInStock,
				Consumable: true,
				Quantity:   &qty,
				Unit:       "kg",
				IsActive:   true,
			}
			err := repo.CreateItem(item)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := repo.GetItemByID(item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Consumable).To(BeTrue())
			Expect(loaded.Quantity.Equal(qty)).To(BeTrue())
		})
	})

	Describe("ListItems", func() {
		BeforeEach(func() {
			Expect(repo.CreateItem(newLaptop("SN-1"))).To(Succeed())
			Expect(repo.CreateItem(&inventory.Item{
				Category: "Printer",
				Name:     "LaserJet Pro",
				Status:   inventory.StatusMaintenance,
				IsActive: true,
			})).To(Succeed())

			retired := newLaptop("SN-2")
			Expect(repo.CreateItem(retired)).To(Succeed())
			Expect(repo.DeactivateItem(retired.ID)).To(Succeed())
		})

		It("should filter by category", func() {
			items, err := repo.ListItems(inventory.ItemFilter{Category: "Printer"})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("LaserJet Pro"))
		})

		It("should hide deactivated items when ActiveOnly is set", func() {
			items, err := repo.ListItems(inventory.ItemFilter{ActiveOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
		})

		It("should include deactivated items otherwise", func() {
			items, err := repo.ListItems(inventory.ItemFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
		})
	})

	Describe("AdjustToner", func() {
		BeforeEach(func() {
			Expect(db.Create(&SQLiteToner{Model: "HP 26A", Status: inventory.TonerFilled, Count: 5}).Error).To(Succeed())
			Expect(db.Create(&SQLiteToner{Model: "HP 26A", Status: inventory.TonerEmpty, Count: 2}).Error).To(Succeed())
		})

		It("should move cartridges between the counters", func() {
			err := repo.AdjustToner("HP 26A", inventory.TonerFilled, inventory.TonerEmpty, 3)
			Expect(err).NotTo(HaveOccurred())

			toners, err := repo.ListToners()
			Expect(err).NotTo(HaveOccurred())
			counts := make(map[string]int)
			for _, t := range toners {
				counts[t.Status] = t.Count
			}
			Expect(counts[inventory.TonerFilled]).To(Equal(2))
			Expect(counts[inventory.TonerEmpty]).To(Equal(5))
		})

		It("should refuse to drive a counter negative", func() {
			err := repo.AdjustToner("HP 26A", inventory.TonerEmpty, inventory.TonerFilled, 10)
			Expect(err).To(HaveOccurred())

			toners, err := repo.ListToners()
			Expect(err).NotTo(HaveOccurred())
			counts := make(map[string]int)
			for _, t := range toners {
				counts[t.Status] = t.Count
			}
			Expect(counts[inventory.TonerFilled]).To(Equal(5))
			Expect(counts[inventory.TonerEmpty]).To(Equal(2))
		})

		It("should create the destination counter when missing", func() {
			Expect(db.Create(&SQLiteToner{Model: "Canon 045", Status: inventory.TonerFilled, Count: 1}).Error).To(Succeed())

			err := repo.AdjustToner("Canon 045", inventory.TonerFilled, inventory.TonerEmpty, 1)
			Expect(err).NotTo(HaveOccurred())

			toners, err := repo.ListToners()
			Expect(err).NotTo(HaveOccurred())
			var emptyCount int
			for _, t := range toners {
				if t.Model == "Canon 045" && t.Status == inventory.TonerEmpty {
					emptyCount = t.Count
				}
			}
			Expect(emptyCount).To(Equal(1))
		})
	})
})
