package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in services.LoginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := ac.Auth.Login(&in)
	if err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}
	resp.OK(c, out)
}
