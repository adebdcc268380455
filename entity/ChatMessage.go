package entity

import (
	"gorm.io/gorm"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type ChatMessage struct {
	gorm.Model
	Role string `json:"role"`
	Body string `json:"body"`

	// non-empty only when a guardrail deflected the turn
	GuardrailKind string `json:"guardrailKind,omitempty"`

	ChatSessionID uint        `json:"-" gorm:"index"`
	ChatSession   ChatSession `json:"-"`
}
