package handler

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/service"
	"github.com/gin-gonic/gin"
)

// OrgHandler 组织处理器
type OrgHandler struct {
	svc *service.OrgService
}

func NewOrgHandler(svc *service.OrgService) *OrgHandler {
	return &OrgHandler{svc: svc}
}

// ListOrgs 组织列表
// GET /api/v1/org/organizations?type=xxx&is_active=true&search=xxx
func (h *OrgHandler) ListOrgs(c *gin.Context) {
	filters := map[string]string{
		"type":      c.Query("type"),
		"is_active": c.Query("is_active"),
		"search":    c.Query("search"),
	}

	items, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		internalError(c, "获取组织列表失败: "+err.Error())
		return
	}
	success(c, gin.H{"items": items, "total": len(items)})
}

// GetOrg 组织详情
// GET /api/v1/org/organizations/:id
func (h *OrgHandler) GetOrg(c *gin.Context) {
	org, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "组织不存在")
		return
	}
	success(c, org)
}

// CreateOrg 创建组织
// POST /api/v1/org/organizations
func (h *OrgHandler) CreateOrg(c *gin.Context) {
	var req service.CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	org, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	created(c, org)
}

// UpdateOrg 更新组织
// PUT /api/v1/org/organizations/:id
func (h *OrgHandler) UpdateOrg(c *gin.Context) {
	var req service.UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	org, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	success(c, org)
}

// ListMembers 组织成员列表
// GET /api/v1/org/organizations/:id/members
func (h *OrgHandler) ListMembers(c *gin.Context) {
	users, err := h.svc.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		notFound(c, "组织不存在")
		return
	}
	success(c, gin.H{"items": users, "total": len(users)})
}
