package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Tenants *repository.TenantRepository
	Menus   *repository.MenuRepository
	Orders  *services.OrderService
}

func NewOrderController(tenants *repository.TenantRepository, menus *repository.MenuRepository, orders *services.OrderService) *OrderController {
	return &OrderController{Tenants: tenants, Menus: menus, Orders: orders}
}

type createOrderItemIn struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Qty        int  `json:"qty" binding:"required,min=1"`
}

type createOrderReq struct {
	TableLabel string              `json:"tableLabel"`
	Items      []createOrderItemIn `json:"items" binding:"required,min=1"`
	Notes      string              `json:"notes"`
}

// POST /orders is a dashboard-originated order, no chat linkage. Goes through
// the same reconciler, so ordering onto an occupied table merges into its
// open tab.
func (oc *OrderController) Create(c *gin.Context) {
	tenant, err := oc.Tenants.ByID(utils.CurrentTenantID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}

	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	// snapshot names/prices at order time
	lines := make([]entity.CartLine, 0, len(req.Items))
	for _, it := range req.Items {
		m, err := oc.Menus.ByID(tenant.ID, it.MenuItemID)
		if err != nil {
			resp.Error(c, err)
			return
		}
		lines = append(lines, entity.CartLine{
			MenuItemID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Qty:        it.Qty,
			LineTotal:  m.Price * int64(it.Qty),
		})
	}

	order, err := oc.Orders.PlaceOrUpdate(c.Request.Context(), tenant, nil, req.TableLabel, lines, req.Notes)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /orders?status=&limit=
func (oc *OrderController) List(c *gin.Context) {
	tenantID := utils.CurrentTenantID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := oc.Orders.Repo.ListForTenant(tenantID, c.Query("status"), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	tenantID := utils.CurrentTenantID(c)
	id, _ := strconv.Atoi(c.Param("id"))
	order, err := oc.Orders.Repo.GetOrder(tenantID, uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}

type patchOrderReq struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /orders/:id drives the dashboard status walk; narrates into linked sessions.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	tenant, err := oc.Tenants.ByID(utils.CurrentTenantID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	id, _ := strconv.Atoi(c.Param("id"))

	var req patchOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), tenant, uint(id), req.Status)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}
