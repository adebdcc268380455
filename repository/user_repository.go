package repository

import (
	"errors"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

type UserRepository struct{ DB *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{DB: db} }

func (r *UserRepository) ByEmail(email string) (*entity.User, error) {
	var u entity.User
	err := r.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("user %q", email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	return r.DB.Create(u).Error
}
