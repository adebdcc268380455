package entity

import (
	"gorm.io/gorm"
)

const (
	SessionBrowsing   = "BROWSING"
	SessionOrdering   = "ORDERING"
	SessionConfirming = "CONFIRMING"
	SessionCompleted  = "COMPLETED"
)

// ChatSession is one customer's ordering conversation. A COMPLETED session is
// frozen: its cart stays empty and it is never resumed, only replaced.
type ChatSession struct {
	gorm.Model
	SessionKey string `json:"sessionKey" gorm:"uniqueIndex"`
	State      string `json:"state" gorm:"default:BROWSING"`
	TableLabel string `json:"tableLabel"`
	Locale     string `json:"locale"`

	TenantID uint   `json:"tenantId" gorm:"index"`
	Tenant   Tenant `json:"-"`

	Cart     []CartLine    `json:"cart" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Messages []ChatMessage `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
