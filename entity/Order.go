package entity

import (
	"gorm.io/gorm"
)

const (
	OrderConfirmed      = "CONFIRMED"
	OrderPreparing      = "PREPARING"
	OrderReady          = "READY"
	OrderOutForDelivery = "OUT_FOR_DELIVERY"
	OrderPaid           = "PAID"
	OrderCancelled      = "CANCELLED"

	PaymentUnpaid = "UNPAID"
	PaymentPaid   = "PAID"
)

// OrderTerminal reports whether no further status transition may leave s.
func OrderTerminal(s string) bool {
	return s == OrderPaid || s == OrderCancelled
}

type Order struct {
	gorm.Model
	// tenant-scoped monotonic sequence, allocated inside the create transaction
	OrderNumber int `json:"orderNumber" gorm:"uniqueIndex:uq_tenant_order_number"`

	Status        string `json:"status" gorm:"default:CONFIRMED"`
	PaymentStatus string `json:"paymentStatus" gorm:"default:UNPAID"`

	Subtotal      int64 `json:"subtotal"`
	ServiceCharge int64 `json:"serviceCharge"`
	Tax           int64 `json:"tax"`
	Total         int64 `json:"total"`

	Notes string `json:"notes"`

	TenantID uint   `json:"tenantId" gorm:"uniqueIndex:uq_tenant_order_number"`
	Tenant   Tenant `json:"-"`

	TableID *uint  `json:"tableId"`
	Table   *Table `json:"-"` // preload when the table label is wanted

	// nullable back-reference to the originating chat session
	ChatSessionID *uint        `json:"chatSessionId"`
	ChatSession   *ChatSession `json:"-"`

	Items    []OrderItem `json:"items"`
	Payments []Payment   `json:"-"`
}
