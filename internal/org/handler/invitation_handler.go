package handler

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/service"
	"github.com/gin-gonic/gin"
)

// InvitationHandler 组织邀请处理器
type InvitationHandler struct {
	svc *service.InvitationService
}

func NewInvitationHandler(svc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{svc: svc}
}

// ListInvitations 组织邀请列表
// GET /api/v1/org/organizations/:id/invitations
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "获取邀请列表失败: "+err.Error())
		return
	}
	success(c, gin.H{"items": items, "total": len(items)})
}

// CreateInvitation 创建邀请
// POST /api/v1/org/invitations
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	var req service.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	inv, err := h.svc.Create(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	created(c, inv)
}

// AcceptInvitation 接受邀请（公开接口，凭令牌访问）
// POST /api/v1/org/invitations/accept
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	var req service.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.svc.Accept(c.Request.Context(), &req)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	created(c, user)
}

// RevokeInvitation 撤销邀请
// POST /api/v1/org/invitations/:id/revoke
func (h *InvitationHandler) RevokeInvitation(c *gin.Context) {
	if err := h.svc.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		badRequest(c, err.Error())
		return
	}
	success(c, nil)
}
