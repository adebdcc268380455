package entity

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name string `json:"name"`

	TenantID uint   `json:"tenantId"`
	Tenant   Tenant `json:"-"`

	MenuItems []MenuItem `json:"-"`
}
