package entity

import (
	"gorm.io/gorm"
)

// User is dashboard staff, not a customer. Customers are anonymous sessions.
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"` // owner | staff

	TenantID uint   `json:"tenantId"`
	Tenant   Tenant `json:"-"`
}
