package controllers

import (
	"backend/pkg/resp"
	"backend/repository"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Tenants  *repository.TenantRepository
	Payments *services.PaymentService
}

func NewPaymentController(tenants *repository.TenantRepository, payments *services.PaymentService) *PaymentController {
	return &PaymentController{Tenants: tenants, Payments: payments}
}

// POST /payments: amount must match the outstanding total; CASH settles the
// order immediately.
func (pc *PaymentController) Create(c *gin.Context) {
	tenant, err := pc.Tenants.ByID(utils.CurrentTenantID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}

	var in services.RecordPaymentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := pc.Payments.Record(c.Request.Context(), tenant, &in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, order)
}
