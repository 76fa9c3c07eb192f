package handler

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// TimelineHandler 交付时间线处理器
type TimelineHandler struct {
	svc *service.TimelineService
}

func NewTimelineHandler(svc *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

// PreviewTimeline 预演交付时间线
// POST /api/v1/cpfr/timeline/preview
func (h *TimelineHandler) PreviewTimeline(c *gin.Context) {
	var req service.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tl, err := h.svc.Preview(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "时间线计算失败: "+err.Error())
		return
	}
	Success(c, tl)
}

// PlanningWeeks 列出可选交付周
// POST /api/v1/cpfr/timeline/planning-weeks
func (h *TimelineHandler) PlanningWeeks(c *gin.Context) {
	var req service.PlanningWeeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	weeks, err := h.svc.PlanningWeeks(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "交付周计算失败: "+err.Error())
		return
	}
	Success(c, weeks)
}

// CompareScenario 情景对比
// POST /api/v1/cpfr/timeline/scenario
func (h *TimelineHandler) CompareScenario(c *gin.Context) {
	var req service.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.CompareScenario(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, "情景对比失败: "+err.Error())
		return
	}
	Success(c, result)
}

// ListShippingMethods 运输方式目录
// GET /api/v1/cpfr/shipping-methods
func (h *TimelineHandler) ListShippingMethods(c *gin.Context) {
	Success(c, h.svc.ShippingMethods())
}
