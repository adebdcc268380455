package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/middlewares"
	"backend/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Chat     *controllers.ChatController
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
	Tables   *controllers.TableController
	Menu     *controllers.MenuController
	Auth     *controllers.AuthController
	Hub      *ws.OrderHub
}

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, d *Deps) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Customer-facing (public, tenant resolved by slug)
	r.POST("/chat", d.Chat.Post)
	r.GET("/chat", d.Chat.Get)
	r.GET("/menu/:tenantSlug", d.Menu.Public)

	// Auth
	r.POST("/auth/login", d.Auth.Login)

	// Dashboard (staff)
	staff := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		staff.POST("/orders", d.Orders.Create)
		staff.GET("/orders", d.Orders.List)
		staff.GET("/orders/:id", d.Orders.Detail)
		staff.PATCH("/orders/:id", d.Orders.UpdateStatus)

		staff.POST("/payments", d.Payments.Create)

		staff.GET("/tables", d.Tables.List)
		staff.POST("/tables", d.Tables.Create)
		staff.GET("/tables/:id/qrcode", d.Tables.QRCode)

		staff.GET("/menu", d.Menu.List)
		staff.POST("/menu", d.Menu.Create)
		staff.PATCH("/menu/:id", d.Menu.Update)

		staff.GET("/ws/orders", d.Hub.HandleWebSocket)
	}
}
