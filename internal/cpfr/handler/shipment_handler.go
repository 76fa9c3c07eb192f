package handler

import (
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// ShipmentHandler 出运处理器
type ShipmentHandler struct {
	svc *service.ShipmentService
}

func NewShipmentHandler(svc *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{svc: svc}
}

// ListShipments 出运列表
// GET /api/v1/cpfr/shipments?org_id=xxx&status=xxx&forecast_id=xxx&search=xxx
func (h *ShipmentHandler) ListShipments(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"org_id":      c.Query("org_id"),
		"status":      c.Query("status"),
		"forecast_id": c.Query("forecast_id"),
		"search":      c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取出运列表失败: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// GetShipment 出运详情
// GET /api/v1/cpfr/shipments/:id
func (h *ShipmentHandler) GetShipment(c *gin.Context) {
	sh, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "出运记录不存在")
		return
	}
	Success(c, sh)
}

// CreateShipment 创建出运记录
// POST /api/v1/cpfr/shipments
func (h *ShipmentHandler) CreateShipment(c *gin.Context) {
	var req service.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sh, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, "创建出运记录失败: "+err.Error())
		return
	}
	Created(c, sh)
}

// UpdateShipment 更新出运记录
// PUT /api/v1/cpfr/shipments/:id
func (h *ShipmentHandler) UpdateShipment(c *gin.Context) {
	var req service.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sh, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		BadRequest(c, "更新出运记录失败: "+err.Error())
		return
	}
	Success(c, sh)
}

// milestoneRequest 里程碑操作请求，时间可选，缺省取当前时间
type milestoneRequest struct {
	At *time.Time `json:"at"`
}

func milestoneTime(c *gin.Context) time.Time {
	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.At != nil {
		return *req.At
	}
	return time.Now()
}

// MarkShipped 标记启运
// POST /api/v1/cpfr/shipments/:id/ship
func (h *ShipmentHandler) MarkShipped(c *gin.Context) {
	sh, err := h.svc.MarkShipped(c.Request.Context(), c.Param("id"), milestoneTime(c))
	if err != nil {
		BadRequest(c, "标记启运失败: "+err.Error())
		return
	}
	Success(c, sh)
}

// MarkArrived 标记到仓
// POST /api/v1/cpfr/shipments/:id/arrive
func (h *ShipmentHandler) MarkArrived(c *gin.Context) {
	sh, err := h.svc.MarkArrived(c.Request.Context(), c.Param("id"), milestoneTime(c))
	if err != nil {
		BadRequest(c, "标记到仓失败: "+err.Error())
		return
	}
	Success(c, sh)
}

// MarkDelivered 标记交付完成
// POST /api/v1/cpfr/shipments/:id/deliver
func (h *ShipmentHandler) MarkDelivered(c *gin.Context) {
	sh, err := h.svc.MarkDelivered(c.Request.Context(), c.Param("id"), milestoneTime(c))
	if err != nil {
		BadRequest(c, "标记交付失败: "+err.Error())
		return
	}
	Success(c, sh)
}

// CancelShipment 取消出运
// POST /api/v1/cpfr/shipments/:id/cancel
func (h *ShipmentHandler) CancelShipment(c *gin.Context) {
	sh, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "取消出运失败: "+err.Error())
		return
	}
	Success(c, sh)
}
