package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentMethodCash = "CASH"
	PaymentMethodQR   = "QR"
	PaymentMethodCard = "CARD"
)

type Payment struct {
	gorm.Model
	Amount int64      `json:"amount"`
	Method string     `json:"method"`
	PaidAt *time.Time `json:"paidAt,omitempty"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	TenantID uint   `json:"tenantId"`
	Tenant   Tenant `json:"-"`
}
