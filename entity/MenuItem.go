package entity

import (
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Name      string `json:"name"`
	Detail    string `json:"detail"`
	Price     int64  `json:"price"`
	Available bool   `json:"available" gorm:"default:true"`

	CategoryID uint     `json:"categoryId"`
	Category   Category `json:"-"` // preload only on menu detail

	TenantID uint   `json:"tenantId" gorm:"index"`
	Tenant   Tenant `json:"-"`
}
