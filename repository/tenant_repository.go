package repository

import (
	"errors"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

type TenantRepository struct{ DB *gorm.DB }

func NewTenantRepository(db *gorm.DB) *TenantRepository { return &TenantRepository{DB: db} }

func (r *TenantRepository) BySlug(slug string) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.DB.Where("slug = ? AND active = ?", slug, true).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("tenant %q", slug)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) ByID(id uint) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.DB.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("tenant %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
