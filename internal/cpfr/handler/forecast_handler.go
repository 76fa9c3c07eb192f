package handler

import (
	"fmt"
	"net/url"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// ForecastHandler 销售预测处理器
type ForecastHandler struct {
	svc *service.ForecastService
}

func NewForecastHandler(svc *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// ListForecasts 预测列表（含时间线与信号状态）
// GET /api/v1/cpfr/forecasts?org_id=xxx&sku_id=xxx&status=xxx&delivery_week=xxx&search=xxx
func (h *ForecastHandler) ListForecasts(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"org_id":        c.Query("org_id"),
		"sku_id":        c.Query("sku_id"),
		"status":        c.Query("status"),
		"delivery_week": c.Query("delivery_week"),
		"search":        c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取预测列表失败: "+err.Error())
		return
	}
	Success(c, listResponse(items, page, pageSize, total))
}

// GetForecast 预测详情
// GET /api/v1/cpfr/forecasts/:id
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "预测不存在")
		return
	}
	Success(c, view)
}

// CreateForecast 创建预测
// POST /api/v1/cpfr/forecasts
func (h *ForecastHandler) CreateForecast(c *gin.Context) {
	var req service.CreateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.Create(c.Request.Context(), GetOrgID(c), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, "创建预测失败: "+err.Error())
		return
	}
	Created(c, view)
}

// UpdateForecast 更新预测
// PUT /api/v1/cpfr/forecasts/:id
func (h *ForecastHandler) UpdateForecast(c *gin.Context) {
	var req service.UpdateForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		BadRequest(c, "更新预测失败: "+err.Error())
		return
	}
	Success(c, view)
}

// SubmitForecast 提交预测
// POST /api/v1/cpfr/forecasts/:id/submit
func (h *ForecastHandler) SubmitForecast(c *gin.Context) {
	view, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "提交预测失败: "+err.Error())
		return
	}
	Success(c, view)
}

// CancelForecast 取消预测
// POST /api/v1/cpfr/forecasts/:id/cancel
func (h *ForecastHandler) CancelForecast(c *gin.Context) {
	view, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		BadRequest(c, "取消预测失败: "+err.Error())
		return
	}
	Success(c, view)
}

// DeleteForecast 删除预测
// DELETE /api/v1/cpfr/forecasts/:id
func (h *ForecastHandler) DeleteForecast(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		BadRequest(c, "删除预测失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// UpdateSignals 更新预测信号
// PATCH /api/v1/cpfr/forecasts/:id/signals
func (h *ForecastHandler) UpdateSignals(c *gin.Context) {
	var req service.UpdateSignalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	view, err := h.svc.UpdateSignals(c.Request.Context(), c.Param("id"), GetOrgType(c), GetRole(c), &req)
	if err != nil {
		BadRequest(c, "更新信号失败: "+err.Error())
		return
	}
	Success(c, view)
}

// ListAtRisk 交付风险预测列表
// GET /api/v1/cpfr/forecasts/at-risk?org_id=xxx
func (h *ForecastHandler) ListAtRisk(c *gin.Context) {
	views, err := h.svc.AtRiskList(c.Request.Context(), c.Query("org_id"))
	if err != nil {
		InternalError(c, "风险扫描失败: "+err.Error())
		return
	}
	Success(c, views)
}

// ExportForecasts 导出预测列表为Excel
// GET /api/v1/cpfr/forecasts/export
func (h *ForecastHandler) ExportForecasts(c *gin.Context) {
	filters := map[string]string{
		"org_id":        c.Query("org_id"),
		"sku_id":        c.Query("sku_id"),
		"status":        c.Query("status"),
		"delivery_week": c.Query("delivery_week"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出预测失败: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.QueryEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "写出Excel失败: "+err.Error())
	}
}

// SendActionItemsRequest 发送行动项邮件请求
type SendActionItemsRequest struct {
	OrgID      string   `json:"org_id"`
	Recipients []string `json:"recipients" binding:"required"`
}

// SendActionItems 发送风险预测行动项邮件
// POST /api/v1/cpfr/forecasts/action-items
func (h *ForecastHandler) SendActionItems(c *gin.Context) {
	var req SendActionItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	count, err := h.svc.SendActionItems(c.Request.Context(), req.OrgID, req.Recipients)
	if err != nil {
		InternalError(c, "发送行动项失败: "+err.Error())
		return
	}
	Success(c, gin.H{"sent": count})
}
