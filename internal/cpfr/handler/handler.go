package handler

import (
	"strconv"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	"github.com/gin-gonic/gin"
)

// Handlers CPFR处理器集合
type Handlers struct {
	SKU      *SKUHandler
	Forecast *ForecastHandler
	Timeline *TimelineHandler
	PO       *POHandler
	Shipment *ShipmentHandler
}

// NewHandlers 创建CPFR处理器集合
func NewHandlers(svcs *service.Services) *Handlers {
	return &Handlers{
		SKU:      NewSKUHandler(svcs.SKU),
		Forecast: NewForecastHandler(svcs.Forecast),
		Timeline: NewTimelineHandler(svcs.Timeline),
		PO:       NewPOHandler(svcs.PO),
		Shipment: NewShipmentHandler(svcs.Shipment),
	}
}

// === 响应辅助函数 ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetOrgID(c *gin.Context) string {
	orgID, _ := c.Get("org_id")
	if id, ok := orgID.(string); ok {
		return id
	}
	return ""
}

func GetOrgType(c *gin.Context) string {
	orgType, _ := c.Get("org_type")
	if t, ok := orgType.(string); ok {
		return t
	}
	return ""
}

func GetRole(c *gin.Context) string {
	role, _ := c.Get("role")
	if r, ok := role.(string); ok {
		return r
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
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

func listResponse(items interface{}, page, pageSize int, total int64) ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	}
}
