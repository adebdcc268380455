package services

import (
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
	"backend/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users     *repository.UserRepository
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, JWTSecret: secret, JWTTTL: ttl}
}

type LoginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginOut struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (s *AuthService) Login(in *LoginIn) (*LoginOut, error) {
	user, err := s.Users.ByEmail(in.Email)
	if err != nil {
		return nil, apperr.Validationf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.Validationf("invalid credentials")
	}
	token, err := utils.SignToken(s.JWTSecret, user.ID, user.TenantID, user.Role, s.JWTTTL)
	if err != nil {
		return nil, err
	}
	return &LoginOut{Token: token, User: user}, nil
}
