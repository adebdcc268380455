package entity

import (
	"gorm.io/gorm"
)

// CartLine invariants: Qty > 0, LineTotal == UnitPrice*Qty, one line per
// menu item within a session.
type CartLine struct {
	gorm.Model
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"lineTotal"`

	ChatSessionID uint        `json:"-"`
	ChatSession   ChatSession `json:"-"`

	MenuItemID uint     `json:"menuItemId"`
	MenuItem   MenuItem `json:"-"`
}
