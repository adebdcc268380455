package repository

import (
	"errors"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

type MenuRepository struct{ DB *gorm.DB }

func NewMenuRepository(db *gorm.DB) *MenuRepository { return &MenuRepository{DB: db} }

// AvailableItems is the turn's read-only menu snapshot: read once per turn,
// never re-read mid-turn.
func (r *MenuRepository) AvailableItems(tenantID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.Where("tenant_id = ? AND available = ?", tenantID, true).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *MenuRepository) ListWithCategories(tenantID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.Preload("Category").
		Where("tenant_id = ?", tenantID).
		Order("category_id ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *MenuRepository) ByID(tenantID, id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := r.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("menu item %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) Create(m *entity.MenuItem) error {
	return r.DB.Create(m).Error
}

func (r *MenuRepository) Update(m *entity.MenuItem) error {
	return r.DB.Save(m).Error
}
