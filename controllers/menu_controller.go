package controllers

import (
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/repository"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Tenants *repository.TenantRepository
	Menus   *repository.MenuRepository
}

func NewMenuController(tenants *repository.TenantRepository, menus *repository.MenuRepository) *MenuController {
	return &MenuController{Tenants: tenants, Menus: menus}
}

// GET /menu/:tenantSlug is public, what the chat UI renders in its wizard.
func (mc *MenuController) Public(c *gin.Context) {
	tenant, err := mc.Tenants.BySlug(c.Param("tenantSlug"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	items, err := mc.Menus.AvailableItems(tenant.ID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /menu (dashboard)
func (mc *MenuController) List(c *gin.Context) {
	items, err := mc.Menus.ListWithCategories(utils.CurrentTenantID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

type menuItemReq struct {
	Name       string `json:"name" binding:"required"`
	Detail     string `json:"detail"`
	Price      int64  `json:"price" binding:"required,min=1"`
	CategoryID uint   `json:"categoryId"`
	Available  *bool  `json:"available"`
}

// POST /menu
func (mc *MenuController) Create(c *gin.Context) {
	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item := entity.MenuItem{
		Name:       req.Name,
		Detail:     req.Detail,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		Available:  true,
		TenantID:   utils.CurrentTenantID(c),
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := mc.Menus.Create(&item); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, item)
}

// PATCH /menu/:id
func (mc *MenuController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	item, err := mc.Menus.ByID(utils.CurrentTenantID(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}

	var req menuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	item.Name = req.Name
	item.Detail = req.Detail
	item.Price = req.Price
	if req.CategoryID != 0 {
		item.CategoryID = req.CategoryID
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := mc.Menus.Update(item); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, item)
}
