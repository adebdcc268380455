package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
)

type SessionRepository struct{ DB *gorm.DB }

func NewSessionRepository(db *gorm.DB) *SessionRepository { return &SessionRepository{DB: db} }

func (r *SessionRepository) Create(s *entity.ChatSession) error {
	return r.DB.Create(s).Error
}

func (r *SessionRepository) Save(tx *gorm.DB, s *entity.ChatSession) error {
	return tx.Save(s).Error
}

// ByKey loads a session with its cart; nil when the key is unknown.
func (r *SessionRepository) ByKey(tenantID uint, key string) (*entity.ChatSession, error) {
	var s entity.ChatSession
	err := r.DB.Preload("Cart", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id ASC") }).
		Where("tenant_id = ? AND session_key = ?", tenantID, key).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ByKeyGlobal resolves a session key without tenant context; keys are
// uuids, unique across tenants.
func (r *SessionRepository) ByKeyGlobal(key string) (*entity.ChatSession, error) {
	var s entity.ChatSession
	err := r.DB.Preload("Cart", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id ASC") }).
		Where("session_key = ?", key).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) ByID(id uint) (*entity.ChatSession, error) {
	var s entity.ChatSession
	err := r.DB.Preload("Cart").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReplaceCart swaps the persisted cart for the reduced one in the caller's
// transaction. Line order is preserved by insert order.
func (r *SessionRepository) ReplaceCart(tx *gorm.DB, sessionID uint, lines []entity.CartLine) error {
	if err := tx.Where("chat_session_id = ?", sessionID).
		Delete(&entity.CartLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		line := lines[i]
		line.ID = 0
		line.ChatSessionID = sessionID
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *SessionRepository) ClearCart(tx *gorm.DB, sessionID uint) error {
	return tx.Where("chat_session_id = ?", sessionID).
		Delete(&entity.CartLine{}).Error
}

func (r *SessionRepository) SetState(tx *gorm.DB, sessionID uint, state string) error {
	return tx.Model(&entity.ChatSession{}).Where("id = ?", sessionID).
		Update("state", state).Error
}

func (r *SessionRepository) AppendMessage(tx *gorm.DB, m *entity.ChatMessage) error {
	return tx.Create(m).Error
}

func (r *SessionRepository) Messages(sessionID uint) ([]entity.ChatMessage, error) {
	var msgs []entity.ChatMessage
	err := r.DB.Where("chat_session_id = ?", sessionID).
		Order("id ASC").
		Find(&msgs).Error
	return msgs, err
}

// RecentMessages returns up to limit most recent messages in chronological
// order, for the oracle context window.
func (r *SessionRepository) RecentMessages(sessionID uint, limit int) ([]entity.ChatMessage, error) {
	var msgs []entity.ChatMessage
	err := r.DB.Where("chat_session_id = ?", sessionID).
		Order("id DESC").Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
