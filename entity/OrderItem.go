package entity

import (
	"gorm.io/gorm"
)

// ItemName and UnitPrice are snapshotted at order time and never re-read
// from MenuItem, so historical bills survive menu edits.
type OrderItem struct {
	gorm.Model
	ItemName  string `json:"itemName"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"lineTotal"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
