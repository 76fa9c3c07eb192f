package handler

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/service"
	"github.com/gin-gonic/gin"
)

// Handlers 组织域处理器集合
type Handlers struct {
	Auth       *AuthHandler
	Org        *OrgHandler
	Invitation *InvitationHandler
}

// NewHandlers 创建组织域处理器集合
func NewHandlers(svcs *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svcs.Auth),
		Org:        NewOrgHandler(svcs.Org),
		Invitation: NewInvitationHandler(svcs.Invitation),
	}
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

func unauthorized(c *gin.Context, message string) {
	c.JSON(401, Response{Code: 40100, Message: message})
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
