package repository

import (
	"errors"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

type TableRepository struct{ DB *gorm.DB }

func NewTableRepository(db *gorm.DB) *TableRepository { return &TableRepository{DB: db} }

func (r *TableRepository) List(tenantID uint) ([]entity.Table, error) {
	var tables []entity.Table
	err := r.DB.Where("tenant_id = ?", tenantID).Order("label ASC").Find(&tables).Error
	return tables, err
}

func (r *TableRepository) ByID(tenantID, id uint) (*entity.Table, error) {
	var t entity.Table
	err := r.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("table %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) ByLabel(tx *gorm.DB, tenantID uint, label string) (*entity.Table, error) {
	var t entity.Table
	err := tx.Where("tenant_id = ? AND label = ?", tenantID, label).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("table %q", label)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) SetStatus(tx *gorm.DB, tableID uint, status string) error {
	return tx.Model(&entity.Table{}).Where("id = ?", tableID).
		Update("status", status).Error
}
