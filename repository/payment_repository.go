package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type PaymentRepository struct{ DB *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{DB: db} }

func (r *PaymentRepository) Create(tx *gorm.DB, p *entity.Payment) error {
	return tx.Create(p).Error
}

// PaidAmount sums recorded payments for the order; outstanding = total - paid.
func (r *PaymentRepository) PaidAmount(tx *gorm.DB, orderID uint) (int64, error) {
	var sum int64
	err := tx.Model(&entity.Payment{}).
		Where("order_id = ?", orderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
