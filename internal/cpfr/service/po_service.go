package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POService 采购订单服务
type POService struct {
	repo         *repository.PORepository
	forecastRepo *repository.ForecastRepository
}

func NewPOService(repo *repository.PORepository, forecastRepo *repository.ForecastRepository) *POService {
	return &POService{repo: repo, forecastRepo: forecastRepo}
}

// List 获取采购订单列表
func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取采购订单详情
func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.repo.FindByID(ctx, id)
}

// CreatePORequest 创建采购订单请求
type CreatePORequest struct {
	SupplierID            *string        `json:"supplier_id"`
	ForecastID            *string        `json:"forecast_id"`
	RequestedDeliveryWeek string         `json:"requested_delivery_week"`
	ExpectedDate          *time.Time     `json:"expected_date"`
	Incoterms             string         `json:"incoterms"`
	IncotermsLocation     string         `json:"incoterms_location"`
	Currency              string         `json:"currency"`
	Terms                 string         `json:"terms"`
	Notes                 string         `json:"notes"`
	Items                 []CreatePOItem `json:"items" binding:"required"`
}

type CreatePOItem struct {
	SKUID       *string         `json:"sku_id"`
	SKUCode     string          `json:"sku_code"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Create 创建采购订单（行项金额与总额服务端计算）
func (s *POService) Create(ctx context.Context, orgID, userID string, req *CreatePORequest) (*entity.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("采购订单至少需要一个行项")
	}
	if req.RequestedDeliveryWeek != "" {
		if _, err := planning.ParseWeek(req.RequestedDeliveryWeek); err != nil {
			return nil, err
		}
	}
	if req.ForecastID != nil {
		if _, err := s.forecastRepo.FindByID(ctx, *req.ForecastID); err != nil {
			return nil, fmt.Errorf("关联预测不存在")
		}
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成PO编码失败: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	po := &entity.PurchaseOrder{
		ID:                    uuid.New().String()[:32],
		POCode:                code,
		OrgID:                 orgID,
		SupplierID:            req.SupplierID,
		ForecastID:            req.ForecastID,
		Status:                entity.POStatusDraft,
		RequestedDeliveryWeek: req.RequestedDeliveryWeek,
		ExpectedDate:          req.ExpectedDate,
		Incoterms:             req.Incoterms,
		IncotermsLocation:     req.IncotermsLocation,
		Currency:              currency,
		Terms:                 req.Terms,
		Notes:                 req.Notes,
		CreatedBy:             userID,
	}

	total := decimal.Zero
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("行项 %d 数量必须为正", i+1)
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		po.Items = append(po.Items, entity.POLineItem{
			ID:          uuid.New().String()[:32],
			POID:        po.ID,
			SKUID:       item.SKUID,
			SKUCode:     item.SKUCode,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
			SortOrder:   i + 1,
		})
	}
	po.TotalValue = total

	if err := s.repo.Create(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// UpdatePORequest 更新采购订单请求
type UpdatePORequest struct {
	RequestedDeliveryWeek *string    `json:"requested_delivery_week"`
	ExpectedDate          *time.Time `json:"expected_date"`
	Incoterms             *string    `json:"incoterms"`
	IncotermsLocation     *string    `json:"incoterms_location"`
	Terms                 *string    `json:"terms"`
	Notes                 *string    `json:"notes"`
}

// Update 更新采购订单（仅草稿可改）
func (s *POService) Update(ctx context.Context, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, fmt.Errorf("仅草稿状态可修改，当前状态: %s", po.Status)
	}

	if req.RequestedDeliveryWeek != nil {
		if _, err := planning.ParseWeek(*req.RequestedDeliveryWeek); err != nil {
			return nil, err
		}
		po.RequestedDeliveryWeek = *req.RequestedDeliveryWeek
	}
	if req.ExpectedDate != nil {
		po.ExpectedDate = req.ExpectedDate
	}
	if req.Incoterms != nil {
		po.Incoterms = *req.Incoterms
	}
	if req.IncotermsLocation != nil {
		po.IncotermsLocation = *req.IncotermsLocation
	}
	if req.Terms != nil {
		po.Terms = *req.Terms
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Submit 提交采购订单
func (s *POService) Submit(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusDraft, entity.POStatusSubmitted, nil)
}

// Approve 审批采购订单
func (s *POService) Approve(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusSubmitted, entity.POStatusApproved, &userID)
}

// Send 下发采购订单给供应商
func (s *POService) Send(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusApproved, entity.POStatusSent, nil)
}

// Cancel 取消采购订单
func (s *POService) Cancel(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusCancelled {
		return nil, fmt.Errorf("采购订单已取消")
	}
	po.Status = entity.POStatusCancelled
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *POService) transition(ctx context.Context, id, from, to string, approver *string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != from {
		return nil, fmt.Errorf("状态 %s 不允许该操作", po.Status)
	}

	po.Status = to
	if approver != nil {
		now := time.Now()
		po.ApprovedBy = approver
		po.ApprovedAt = &now
	}
	if err := s.repo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Delete 删除采购订单（仅草稿）
func (s *POService) Delete(ctx context.Context, id string) error {
	po, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusDraft {
		return fmt.Errorf("仅草稿状态可删除，当前状态: %s", po.Status)
	}
	return s.repo.Delete(ctx, id)
}
