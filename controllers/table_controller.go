package controllers

import (
	"net/http"
	"strconv"

	"backend/entity"
	"backend/pkg/resp"
	"backend/repository"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	Tenants       *repository.TenantRepository
	Tables        *repository.TableRepository
	PublicBaseURL string
}

func NewTableController(tenants *repository.TenantRepository, tables *repository.TableRepository, publicBaseURL string) *TableController {
	return &TableController{Tenants: tenants, Tables: tables, PublicBaseURL: publicBaseURL}
}

// GET /tables
func (tc *TableController) List(c *gin.Context) {
	tables, err := tc.Tables.List(utils.CurrentTenantID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": tables})
}

type createTableReq struct {
	Label string `json:"label" binding:"required"`
}

// POST /tables
func (tc *TableController) Create(c *gin.Context) {
	var req createTableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	table := entity.Table{
		Label:    req.Label,
		Status:   entity.TableAvailable,
		TenantID: utils.CurrentTenantID(c),
	}
	if err := tc.Tables.Create(&table); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, table)
}

// GET /tables/:id/qrcode returns a PNG of the public ordering link for this table.
func (tc *TableController) QRCode(c *gin.Context) {
	tenant, err := tc.Tenants.ByID(utils.CurrentTenantID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	id, _ := strconv.Atoi(c.Param("id"))
	table, err := tc.Tables.ByID(tenant.ID, uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	png, err := utils.TableLinkPNG(tc.PublicBaseURL, tenant.Slug, table.Label)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
