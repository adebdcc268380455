package services

import (
	"context"
	"math"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"gorm.io/gorm"
)

type PaymentService struct {
	DB     *gorm.DB
	Repo   *repository.PaymentRepository
	Orders *OrderService
}

func NewPaymentService(db *gorm.DB, repo *repository.PaymentRepository, orders *OrderService) *PaymentService {
	return &PaymentService{DB: db, Repo: repo, Orders: orders}
}

type RecordPaymentIn struct {
	OrderID uint    `json:"orderId" binding:"required"`
	Method  string  `json:"method" binding:"required,oneof=CASH QR CARD"`
	Amount  float64 `json:"amount" binding:"required"`
}

// Record validates the amount against the outstanding total (0.01 currency
// unit tolerance) and records the payment. CASH settles immediately: the
// order goes PAID with the full table/session close-out.
func (s *PaymentService) Record(ctx context.Context, tenant *entity.Tenant, in *RecordPaymentIn) (*entity.Order, error) {
	var out *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Orders.Repo.GetOrderTx(tx, tenant.ID, in.OrderID)
		if err != nil {
			return err
		}
		if entity.OrderTerminal(order.Status) {
			return apperr.Conflictf("order %d is already %s", order.ID, order.Status)
		}

		paid, err := s.Repo.PaidAmount(tx, order.ID)
		if err != nil {
			return err
		}
		outstanding := order.Total - paid
		if math.Abs(in.Amount-float64(outstanding)) > 0.01 {
			return apperr.Validationf("amount %.2f does not match outstanding %d", in.Amount, outstanding)
		}

		now := time.Now()
		payment := entity.Payment{
			Amount:   int64(math.Round(in.Amount)),
			Method:   in.Method,
			PaidAt:   &now,
			OrderID:  order.ID,
			TenantID: tenant.ID,
		}
		if err := s.Repo.Create(tx, &payment); err != nil {
			return err
		}

		if in.Method == entity.PaymentMethodCash {
			if err := s.Orders.finalizeTerminal(tx, order, entity.OrderPaid, terminalOpts{narrate: true}); err != nil {
				return err
			}
		} else {
			if err := tx.Model(&entity.Order{}).Where("id = ?", order.ID).
				Update("payment_status", entity.PaymentPaid).Error; err != nil {
				return err
			}
			order.PaymentStatus = entity.PaymentPaid
		}

		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Orders.publish(ctx, out)
	return out, nil
}
