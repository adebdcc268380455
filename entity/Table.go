package entity

import (
	"gorm.io/gorm"
)

const (
	TableAvailable = "AVAILABLE"
	TableOccupied  = "OCCUPIED"
)

// Table is OCCUPIED iff at least one non-terminal order references it.
// The order service restores that invariant inside every status transition.
type Table struct {
	gorm.Model
	Label  string `json:"label" gorm:"uniqueIndex:uq_tenant_table_label"`
	Status string `json:"status" gorm:"default:AVAILABLE"`

	TenantID uint   `json:"tenantId" gorm:"uniqueIndex:uq_tenant_table_label"`
	Tenant   Tenant `json:"-"`

	Orders []Order `json:"-"`
}
