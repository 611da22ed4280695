package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mfadhilr/office-management/internal/procurement"

	inventoryDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/inventory"
	procurementDatamodel "github.com/mfadhilr/office-management/internal/core/datamodel/procurement"
)

// Document numbers are read as max(suffix)+1 inside the insert
// transaction. The unique index on the number column backstops concurrent
// creates; the loser of a race retries with a fresh sequence.
const numberingRetries = 3

type ProcurementRepository struct {
	db *gorm.DB
}

func NewProcurementRepository(db *gorm.DB) procurement.Repository {
	return &ProcurementRepository{db: db}
}

func nextSeq(tx *gorm.DB, model interface{}, column, prefix string) (int64, error) {
	var current int64
	err := tx.Model(model).
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTR(%s, ?) AS INTEGER)), 0)", column), len(prefix)+1).
		Where(column+" LIKE ?", prefix+"%").
		Scan(&current).Error
	return current + 1, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func retryOnDuplicate(fn func() error) error {
	var err error
	for attempt := 0; attempt < numberingRetries; attempt++ {
		if err = fn(); err == nil || !isUniqueViolation(err) {
			return err
		}
	}
	return err
}

func (r *ProcurementRepository) CreateRequest(req *procurement.Request) error {
	year := time.Now().Year()
	return retryOnDuplicate(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			seq, err := nextSeq(tx, &procurementDatamodel.SupplyRequest{}, "request_number", fmt.Sprintf("MRF-%d-", year))
			if err != nil {
				return err
			}
			req.RequestNumber = procurement.NextRequestNumber(year, seq)

			record := procurement.RequestToDataModel(req)
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			req.ID = record.ID
			for i := range record.Items {
				req.Items[i].ID = record.Items[i].ID
			}
			return nil
		})
	})
}

func (r *ProcurementRepository) GetRequestByID(id int64) (*procurement.Request, error) {
	var record procurementDatamodel.SupplyRequest
	if err := r.db.Preload("Items").Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return procurement.RequestFromDataModel(&record), nil
}

func (r *ProcurementRepository) ListRequests(filter procurement.RequestFilter) ([]*procurement.Request, error) {
	query := r.db.Model(&procurementDatamodel.SupplyRequest{}).Preload("Items").Order("created_at DESC")
	if filter.RequesterID != 0 {
		query = query.Where("requester_id = ?", filter.RequesterID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var records []*procurementDatamodel.SupplyRequest
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return procurement.RequestFromDataModelSlice(records), nil
}

func (r *ProcurementRepository) UpdateRequest(req *procurement.Request) error {
	record := procurement.RequestToDataModel(req)
	return r.db.Omit("Items").Save(record).Error
}

// IssueRequest deducts each line's quantity from inventory and persists the
// issued status in one transaction. A guarded UPDATE keeps quantities from
// going negative under concurrent issues.
func (r *ProcurementRepository) IssueRequest(req *procurement.Request) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			if item.InventoryItemID == nil {
				return fmt.Errorf("%w: %s", procurement.ErrItemNotStocked, item.Name)
			}
			result := tx.Model(&inventoryDatamodel.Item{}).
				Where("id = ? AND quantity >= ?", *item.InventoryItemID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", procurement.ErrInsufficientStock, item.Name)
			}
		}
		return tx.Omit("Items").Save(procurement.RequestToDataModel(req)).Error
	})
}

// ConvertRequest creates the purchase order and links it back to the request
// in one transaction.
func (r *ProcurementRepository) ConvertRequest(req *procurement.Request, order *procurement.Order) error {
	return retryOnDuplicate(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := createOrderInTx(tx, order); err != nil {
				return err
			}

			req.PurchaseOrderID = &order.ID
			return tx.Omit("Items").Save(procurement.RequestToDataModel(req)).Error
		})
	})
}

func (r *ProcurementRepository) CreateOrder(order *procurement.Order) error {
	return retryOnDuplicate(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			return createOrderInTx(tx, order)
		})
	})
}

func createOrderInTx(tx *gorm.DB, order *procurement.Order) error {
	year := time.Now().Year()
	seq, err := nextSeq(tx, &procurementDatamodel.PurchaseOrder{}, "order_number", fmt.Sprintf("PO-%d-", year))
	if err != nil {
		return err
	}
	order.OrderNumber = procurement.NextOrderNumber(year, seq)

	record := procurement.OrderToDataModel(order)
	if err := tx.Create(record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	for i := range record.Items {
		order.Items[i].ID = record.Items[i].ID
	}
	return nil
}

func (r *ProcurementRepository) GetOrderByID(id int64) (*procurement.Order, error) {
	var record procurementDatamodel.PurchaseOrder
	if err := r.db.Preload("Items").Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return procurement.OrderFromDataModel(&record), nil
}

func (r *ProcurementRepository) ListOrders(filter procurement.OrderFilter) ([]*procurement.Order, error) {
	query := r.db.Model(&procurementDatamodel.PurchaseOrder{}).Preload("Items").Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var records []*procurementDatamodel.PurchaseOrder
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return procurement.OrderFromDataModelSlice(records), nil
}

func (r *ProcurementRepository) UpdateOrder(order *procurement.Order) error {
	return r.db.Omit("Items").Save(procurement.OrderToDataModel(order)).Error
}

// ReceiveOrder restocks inventory for each line that references an item and
// persists the GRN fields in one transaction.
func (r *ProcurementRepository) ReceiveOrder(order *procurement.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if item.InventoryItemID == nil {
				continue
			}
			if err := tx.Model(&inventoryDatamodel.Item{}).
				Where("id = ?", *item.InventoryItemID).
				Update("quantity", gorm.Expr("COALESCE(quantity, 0) + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Items").Save(procurement.OrderToDataModel(order)).Error
	})
}
