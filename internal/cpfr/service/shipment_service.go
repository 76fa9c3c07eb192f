package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShipmentService 出运服务：里程碑更新会回写预测的在途/入库信号
type ShipmentService struct {
	repo         *repository.ShipmentRepository
	forecastRepo *repository.ForecastRepository
	logger       *zap.Logger
}

func NewShipmentService(repo *repository.ShipmentRepository, forecastRepo *repository.ForecastRepository, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{repo: repo, forecastRepo: forecastRepo, logger: logger}
}

// List 获取出运列表
func (s *ShipmentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Shipment, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取出运详情
func (s *ShipmentService) Get(ctx context.Context, id string) (*entity.Shipment, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateShipmentRequest 创建出运请求
type CreateShipmentRequest struct {
	ForecastID      string  `json:"forecast_id" binding:"required"`
	POID            *string `json:"po_id"`
	ShippingMethod  string  `json:"shipping_method"`
	Carrier         string  `json:"carrier"`
	TrackingNumber  string  `json:"tracking_number"`
	ContainerNo     string  `json:"container_no"`
	OriginPort      string  `json:"origin_port"`
	DestinationPort string  `json:"destination_port"`
	Quantity        int     `json:"quantity"`
	Notes           string  `json:"notes"`
}

// Create 创建出运记录（继承预测的运输方式与数量）
func (s *ShipmentService) Create(ctx context.Context, userID string, req *CreateShipmentRequest) (*entity.Shipment, error) {
	forecast, err := s.forecastRepo.FindByID(ctx, req.ForecastID)
	if err != nil {
		return nil, fmt.Errorf("预测不存在")
	}
	if forecast.Status == entity.ForecastStatusCancelled {
		return nil, fmt.Errorf("预测已取消，不可创建出运")
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成出运编码失败: %w", err)
	}

	method := req.ShippingMethod
	if method == "" {
		method = forecast.ShippingMethod
	}
	qty := req.Quantity
	if qty <= 0 {
		qty = forecast.Quantity
	}

	sh := &entity.Shipment{
		ID:              uuid.New().String()[:32],
		ShipmentCode:    code,
		ForecastID:      req.ForecastID,
		POID:            req.POID,
		OrgID:           forecast.OrgID,
		Status:          entity.ShipmentStatusPending,
		ShippingMethod:  method,
		Carrier:         req.Carrier,
		TrackingNumber:  req.TrackingNumber,
		ContainerNo:     req.ContainerNo,
		OriginPort:      req.OriginPort,
		DestinationPort: req.DestinationPort,
		Quantity:        qty,
		Notes:           req.Notes,
		CreatedBy:       userID,
	}

	if err := s.repo.Create(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// UpdateShipmentRequest 更新出运请求
type UpdateShipmentRequest struct {
	Carrier         *string `json:"carrier"`
	TrackingNumber  *string `json:"tracking_number"`
	ContainerNo     *string `json:"container_no"`
	OriginPort      *string `json:"origin_port"`
	DestinationPort *string `json:"destination_port"`
	Quantity        *int    `json:"quantity"`
	Notes           *string `json:"notes"`
}

// Update 更新出运记录
func (s *ShipmentService) Update(ctx context.Context, id string, req *UpdateShipmentRequest) (*entity.Shipment, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status == entity.ShipmentStatusDelivered || sh.Status == entity.ShipmentStatusCancelled {
		return nil, fmt.Errorf("出运状态为 %s，不可修改", sh.Status)
	}

	if req.Carrier != nil {
		sh.Carrier = *req.Carrier
	}
	if req.TrackingNumber != nil {
		sh.TrackingNumber = *req.TrackingNumber
	}
	if req.ContainerNo != nil {
		sh.ContainerNo = *req.ContainerNo
	}
	if req.OriginPort != nil {
		sh.OriginPort = *req.OriginPort
	}
	if req.DestinationPort != nil {
		sh.DestinationPort = *req.DestinationPort
	}
	if req.Quantity != nil && *req.Quantity > 0 {
		sh.Quantity = *req.Quantity
	}
	if req.Notes != nil {
		sh.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// MarkShipped 标记启运：出运转为在途，预测在途信号置为submitted，并回填预计入库日
func (s *ShipmentService) MarkShipped(ctx context.Context, id string, shippedAt time.Time) (*entity.Shipment, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status != entity.ShipmentStatusPending {
		return nil, fmt.Errorf("仅待出运状态可标记启运，当前状态: %s", sh.Status)
	}

	sh.Status = entity.ShipmentStatusInTransit
	sh.ShippedAt = &shippedAt

	// 按运输周期推算预计入库日
	if transitDays, _, rerr := planning.ResolveShipping(sh.ShippingMethod, 0); rerr == nil {
		eta := shippedAt.Add(time.Duration(transitDays * 24 * float64(time.Hour)))
		sh.EstimatedWarehouseArrival = &eta
	}

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}

	s.syncForecastSignals(ctx, sh.ForecastID, map[string]interface{}{
		"transit_signal":              string(planning.SignalSubmitted),
		"estimated_warehouse_arrival": sh.EstimatedWarehouseArrival,
	})
	return sh, nil
}

// MarkArrived 标记到仓：在途信号确认，并记录实际入库日
func (s *ShipmentService) MarkArrived(ctx context.Context, id string, arrivedAt time.Time) (*entity.Shipment, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status != entity.ShipmentStatusInTransit {
		return nil, fmt.Errorf("仅在途状态可标记到仓，当前状态: %s", sh.Status)
	}

	sh.Status = entity.ShipmentStatusArrived
	sh.ActualWarehouseArrival = &arrivedAt

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}

	s.syncForecastSignals(ctx, sh.ForecastID, map[string]interface{}{
		"transit_signal":   string(planning.SignalConfirmed),
		"warehouse_signal": string(planning.SignalSubmitted),
	})
	return sh, nil
}

// MarkDelivered 标记交付完成：入库信号确认，记录确认交付日
func (s *ShipmentService) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (*entity.Shipment, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status != entity.ShipmentStatusArrived {
		return nil, fmt.Errorf("仅到仓状态可标记交付，当前状态: %s", sh.Status)
	}

	sh.Status = entity.ShipmentStatusDelivered
	sh.ConfirmedDeliveryDate = &deliveredAt

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}

	s.syncForecastSignals(ctx, sh.ForecastID, map[string]interface{}{
		"warehouse_signal":        string(planning.SignalConfirmed),
		"confirmed_delivery_date": &deliveredAt,
	})
	return sh, nil
}

// Cancel 取消出运
func (s *ShipmentService) Cancel(ctx context.Context, id string) (*entity.Shipment, error) {
	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status == entity.ShipmentStatusDelivered {
		return nil, fmt.Errorf("已交付的出运不可取消")
	}
	sh.Status = entity.ShipmentStatusCancelled
	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// syncForecastSignals 回写预测信号（失败仅记日志，不阻断出运操作）
func (s *ShipmentService) syncForecastSignals(ctx context.Context, forecastID string, fields map[string]interface{}) {
	if err := s.forecastRepo.UpdateSignals(ctx, forecastID, fields); err != nil {
		s.logger.Warn("sync forecast signals failed",
			zap.String("forecast_id", forecastID),
			zap.Error(err))
	}
}
