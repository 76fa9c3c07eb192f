package handler

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/service"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler 发票处理器
type InvoiceHandler struct {
	svc *service.InvoiceService
}

func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// === 响应辅助函数（与CPFR保持一致） ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Code: 0, Message: "success", Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{Code: 0, Message: "success", Data: data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(400, Response{Code: 40000, Message: message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(404, Response{Code: 40400, Message: message})
}

func internalError(c *gin.Context, message string) {
	c.JSON(500, Response{Code: 50000, Message: message})
}

func getUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func getOrgID(c *gin.Context) string {
	orgID, _ := c.Get("org_id")
	if id, ok := orgID.(string); ok {
		return id
	}
	return ""
}

func getPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// ListInvoices 发票列表
// GET /api/v1/finance/invoices?org_id=xxx&status=xxx&search=xxx
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	page, pageSize := getPagination(c)
	filters := map[string]string{
		"org_id": c.Query("org_id"),
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		internalError(c, "获取发票列表失败: "+err.Error())
		return
	}
	success(c, gin.H{"items": items, "total": total, "page": page, "page_size": pageSize})
}

// GetInvoice 发票详情
// GET /api/v1/finance/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "发票不存在")
		return
	}
	success(c, inv)
}

// CreateInvoice 创建发票
// POST /api/v1/finance/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	inv, err := h.svc.Create(c.Request.Context(), getOrgID(c), getUserID(c), &req)
	if err != nil {
		badRequest(c, "创建发票失败: "+err.Error())
		return
	}
	created(c, inv)
}

// SubmitInvoice 提交发票
// POST /api/v1/finance/invoices/:id/submit
func (h *InvoiceHandler) SubmitInvoice(c *gin.Context) {
	inv, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		badRequest(c, "提交发票失败: "+err.Error())
		return
	}
	success(c, inv)
}

// ApproveInvoice 审批通过发票
// POST /api/v1/finance/invoices/:id/approve
func (h *InvoiceHandler) ApproveInvoice(c *gin.Context) {
	inv, err := h.svc.Approve(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		internalError(c, "审批发票失败: "+err.Error())
		return
	}
	success(c, inv)
}

// RejectInvoice 驳回发票
// POST /api/v1/finance/invoices/:id/reject
func (h *InvoiceHandler) RejectInvoice(c *gin.Context) {
	inv, err := h.svc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		badRequest(c, "驳回发票失败: "+err.Error())
		return
	}
	success(c, inv)
}

// MarkInvoicePaid 标记发票已付款
// POST /api/v1/finance/invoices/:id/paid
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	inv, err := h.svc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		badRequest(c, "标记付款失败: "+err.Error())
		return
	}
	success(c, inv)
}

// DeleteInvoice 删除发票
// DELETE /api/v1/finance/invoices/:id
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		badRequest(c, "删除发票失败: "+err.Error())
		return
	}
	success(c, nil)
}

// UploadDocument 上传发票附件
// POST /api/v1/finance/invoices/:id/documents (multipart)
func (h *InvoiceHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		internalError(c, "读取上传文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.svc.UploadDocument(c.Request.Context(), c.Param("id"), getUserID(c),
		file, fileHeader.Filename, fileHeader.Size, contentType)
	if err != nil {
		internalError(c, "上传附件失败: "+err.Error())
		return
	}
	created(c, doc)
}

// GetDocumentURL 获取附件下载链接
// GET /api/v1/finance/invoices/documents/url?path=xxx
func (h *InvoiceHandler) GetDocumentURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, "缺少path参数")
		return
	}

	u, err := h.svc.DocumentURL(c.Request.Context(), path)
	if err != nil {
		internalError(c, "生成下载链接失败: "+err.Error())
		return
	}
	success(c, gin.H{"url": u})
}

// ExportInvoices 导出发票列表为Excel
// GET /api/v1/finance/invoices/export
func (h *InvoiceHandler) ExportInvoices(c *gin.Context) {
	filters := map[string]string{
		"org_id": c.Query("org_id"),
		"status": c.Query("status"),
	}

	f, filename, err := h.svc.Export(c.Request.Context(), filters)
	if err != nil {
		internalError(c, "导出发票失败: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.QueryEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		internalError(c, "写出Excel失败: "+err.Error())
	}
}
