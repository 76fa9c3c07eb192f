package handler

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// POHandler 采购订单处理器
type POHandler struct {
	svc *service.POService
}

func NewPOHandler(svc *service.POService) *POHandler {
	return &POHandler{svc: svc}
}

// ListPOs 采购订单列表
// GET /api/v1/cpfr/purchase-orders?org_id=xxx&status=xxx&forecast_id=xxx&search=xxx
func (h *POHandler) ListPOs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"org_id":      c.Query("org_id"),
		"status":      c.Query("status"),
		"forecast_id": c.Query("forecast_id"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购订单列表失败: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// GetPO 采购订单详情
// GET /api/v1/cpfr/purchase-orders/:id
func (h *POHandler) GetPO(c *gin.Context) {
	po, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "采购订单不存在")
		return
	}
	Success(c, po)
}

// CreatePO 创建采购订单
// POST /api/v1/cpfr/purchase-orders
func (h *POHandler) CreatePO(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), GetOrgID(c), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, "创建采购订单失败: "+err.Error())
		return
	}
	Created(c, po)
}

// UpdatePO 更新采购订单
// PUT /api/v1/cpfr/purchase-orders/:id
func (h *POHandler) UpdatePO(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		BadRequest(c, "更新采购订单失败: "+err.Error())
		return
	}
	Success(c, po)
}

// SubmitPO 提交采购订单
// POST /api/v1/cpfr/purchase-orders/:id/submit
func (h *POHandler) SubmitPO(c *gin.Context) {
	po, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "提交采购订单失败: "+err.Error())
		return
	}
	Success(c, po)
}

// ApprovePO 审批采购订单
// POST /api/v1/cpfr/purchase-orders/:id/approve
func (h *POHandler) ApprovePO(c *gin.Context) {
	po, err := h.svc.Approve(c.Request.Context(), c.Param("id"), GetUserID(c))
	if err != nil {
		BadRequest(c, "审批采购订单失败: "+err.Error())
		return
	}
	Success(c, po)
}

// SendPO 下发采购订单
// POST /api/v1/cpfr/purchase-orders/:id/send
func (h *POHandler) SendPO(c *gin.Context) {
	po, err := h.svc.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "下发采购订单失败: "+err.Error())
		return
	}
	Success(c, po)
}

// CancelPO 取消采购订单
// POST /api/v1/cpfr/purchase-orders/:id/cancel
func (h *POHandler) CancelPO(c *gin.Context) {
	po, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "取消采购订单失败: "+err.Error())
		return
	}
	Success(c, po)
}

// DeletePO 删除采购订单
// DELETE /api/v1/cpfr/purchase-orders/:id
func (h *POHandler) DeletePO(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		BadRequest(c, "删除采购订单失败: "+err.Error())
		return
	}
	Success(c, nil)
}
