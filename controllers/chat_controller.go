package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// POST /chat
func (cc *ChatController) Post(c *gin.Context) {
	var in services.ChatTurnIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if in.ClientID == "" {
		in.ClientID = c.GetHeader("X-Client-ID")
	}
	if in.ClientID == "" {
		in.ClientID = c.ClientIP()
	}

	out, err := cc.Chat.HandleTurn(c.Request.Context(), &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /chat?sessionId=
func (cc *ChatController) Get(c *gin.Context) {
	key := c.Query("sessionId")
	if key == "" {
		resp.BadRequest(c, "sessionId is required")
		return
	}
	view, err := cc.Chat.View(key)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}
