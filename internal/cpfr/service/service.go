package service

import (
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services CPFR服务集合
type Services struct {
	SKU      *SKUService
	Forecast *ForecastService
	Timeline *TimelineService
	PO       *POService
	Shipment *ShipmentService
}

// NewServices 创建CPFR服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *Services {
	return &Services{
		SKU:      NewSKUService(repos.SKU, rdb),
		Forecast: NewForecastService(repos.Forecast, repos.SKU, rdb, logger),
		Timeline: NewTimelineService(repos.SKU),
		PO:       NewPOService(repos.PO, repos.Forecast),
		Shipment: NewShipmentService(repos.Shipment, repos.Forecast, logger),
	}
}
