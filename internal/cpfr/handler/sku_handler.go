package handler

import (
	"fmt"
	"net/url"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// SKUHandler SKU处理器
type SKUHandler struct {
	svc *service.SKUService
}

func NewSKUHandler(svc *service.SKUService) *SKUHandler {
	return &SKUHandler{svc: svc}
}

// ListSKUs SKU列表
// GET /api/v1/cpfr/skus?category=xxx&mfg=xxx&is_active=true&search=xxx
func (h *SKUHandler) ListSKUs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"category":  c.Query("category"),
		"mfg":       c.Query("mfg"),
		"is_active": c.Query("is_active"),
		"search":    c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取SKU列表失败: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetSKU SKU详情
// GET /api/v1/cpfr/skus/:id
func (h *SKUHandler) GetSKU(c *gin.Context) {
	sku, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "SKU不存在")
		return
	}
	Success(c, sku)
}

// CreateSKU 创建SKU
// POST /api/v1/cpfr/skus
func (h *SKUHandler) CreateSKU(c *gin.Context) {
	var req service.CreateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sku, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, "创建SKU失败: "+err.Error())
		return
	}
	Created(c, sku)
}

// UpdateSKU 更新SKU
// PUT /api/v1/cpfr/skus/:id
func (h *SKUHandler) UpdateSKU(c *gin.Context) {
	var req service.UpdateSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sku, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		BadRequest(c, "更新SKU失败: "+err.Error())
		return
	}
	Success(c, sku)
}

// DeleteSKU 删除SKU
// DELETE /api/v1/cpfr/skus/:id
func (h *SKUHandler) DeleteSKU(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		BadRequest(c, "删除SKU失败: "+err.Error())
		return
	}
	Success(c, nil)
}

// ExportSKUs 导出SKU列表为Excel
// GET /api/v1/cpfr/skus/export
func (h *SKUHandler) ExportSKUs(c *gin.Context) {
	filters := map[string]string{
		"category":  c.Query("category"),
		"mfg":       c.Query("mfg"),
		"is_active": c.Query("is_active"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		InternalError(c, "导出SKU失败: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.QueryEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "写出Excel失败: "+err.Error())
	}
}
