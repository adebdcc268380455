package entity

import (
	"gorm.io/gorm"
)

type Tenant struct {
	gorm.Model
	Slug     string `json:"slug" gorm:"uniqueIndex"`
	Name     string `json:"name"`
	Currency string `json:"currency"`

	// percentages of subtotal, applied at order time
	ServiceChargePct float64 `json:"serviceChargePct"`
	TaxPct           float64 `json:"taxPct"`

	Active bool `json:"active" gorm:"default:true"`

	MenuItems []MenuItem    `json:"-"`
	Tables    []Table       `json:"-"`
	Orders    []Order       `json:"-"`
	Sessions  []ChatSession `json:"-"`
}
