package repository

import (
	"errors"
	"time"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

var orderTerminalStatuses = []string{entity.OrderPaid, entity.OrderCancelled}

type OrderRepository struct{ DB *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository { return &OrderRepository{DB: db} }

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) SaveOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Save(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) SaveOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Save(oi).Error
}

// NextOrderNumber reads the tenant's current maximum inside the caller's
// transaction. Two concurrent allocations can read the same value; the
// unique (tenant_id, order_number) index plus the caller's retry loop
// resolves the race.
func (r *OrderRepository) NextOrderNumber(tx *gorm.DB, tenantID uint) (int, error) {
	var max int
	err := tx.Model(&entity.Order{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// OpenOrderForTable returns the most recent non-terminal order bound to the
// table, items preloaded. The merge-vs-create decision keys on this lookup.
func (r *OrderRepository) OpenOrderForTable(tx *gorm.DB, tenantID, tableID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Preload("Items").
		Where("tenant_id = ? AND table_id = ? AND status NOT IN ?", tenantID, tableID, orderTerminalStatuses).
		Order("id DESC").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OpenOrderForSession is the fallback target for cancel/pay when no table
// can be resolved.
func (r *OrderRepository) OpenOrderForSession(tx *gorm.DB, tenantID, sessionID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Preload("Items").
		Where("tenant_id = ? AND chat_session_id = ? AND status NOT IN ?", tenantID, sessionID, orderTerminalStatuses).
		Order("id DESC").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrder(tenantID, orderID uint) (*entity.Order, error) {
	return r.GetOrderTx(r.DB, tenantID, orderID)
}

func (r *OrderRepository) GetOrderTx(tx *gorm.DB, tenantID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Preload("Items").
		Where("id = ? AND tenant_id = ?", orderID, tenantID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("order %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID          uint      `json:"id"`
	OrderNumber int       `json:"orderNumber"`
	TableID     *uint     `json:"tableId"`
	Status      string    `json:"status"`
	Total       int64     `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *OrderRepository) ListForTenant(tenantID uint, status string, limit int) ([]OrderSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.Model(&entity.Order{}).
		Select("id, order_number, table_id, status, total, created_at").
		Where("tenant_id = ?", tenantID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []OrderSummary
	err := q.Order("id DESC").Limit(limit).Scan(&out).Error
	return out, err
}

// UpdateStatusGuard performs the guarded transition UPDATE; zero affected
// rows means the order was not in `from` anymore.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to string) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// CountOpenForTable counts non-terminal orders on the table excluding one
// order, to decide whether closing it vacates the table.
func (r *OrderRepository) CountOpenForTable(tx *gorm.DB, tableID, excludeOrderID uint) (int64, error) {
	var n int64
	err := tx.Model(&entity.Order{}).
		Where("table_id = ? AND id <> ? AND status NOT IN ?", tableID, excludeOrderID, orderTerminalStatuses).
		Count(&n).Error
	return n, err
}
