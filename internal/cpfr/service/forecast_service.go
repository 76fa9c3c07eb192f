package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/shared/mailer"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const atRiskCacheTTL = 30 * time.Second

// ForecastService 销售预测服务
type ForecastService struct {
	repo    *repository.ForecastRepository
	skuRepo *repository.SKURepository
	rdb     *redis.Client
	logger  *zap.Logger
	mail    *mailer.Client
}

func NewForecastService(repo *repository.ForecastRepository, skuRepo *repository.SKURepository, rdb *redis.Client, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		repo:    repo,
		skuRepo: skuRepo,
		rdb:     rdb,
		logger:  logger,
	}
}

// SetMailer 注入邮件客户端
func (s *ForecastService) SetMailer(m *mailer.Client) {
	s.mail = m
}

// ForecastView 预测详情视图：预测记录 + 计算出的交付时间线与信号状态
type ForecastView struct {
	entity.SalesForecast
	Timeline      *planning.Timeline     `json:"timeline,omitempty"`
	TimelineError string                 `json:"timeline_error,omitempty"`
	OverallStatus planning.OverallStatus `json:"overall_status"`
	StatusColor   string                 `json:"status_color"`
	AtRisk        bool                   `json:"at_risk"`
}

// buildView 组装预测视图（时间线计算失败不阻断列表）
func (s *ForecastService) buildView(f entity.SalesForecast, today time.Time) ForecastView {
	view := ForecastView{SalesForecast: f}

	overall := planning.AggregateSignals(f.SignalSet())
	view.OverallStatus = overall
	view.StatusColor = overall.Color()

	customDays := 0.0
	if f.CustomShippingDays != nil {
		customDays = *f.CustomShippingDays
	}

	sel := f.LeadTimeSelection()
	tl, err := planning.BuildTimeline(planning.TimelineInput{
		DeliveryWeek:       f.DeliveryWeek,
		ShippingMethod:     f.ShippingMethod,
		CustomShippingDays: customDays,
		LeadTime:           sel,
		BufferDays:         f.BufferDays,
	}, today)
	if err != nil {
		view.TimelineError = err.Error()
		return view
	}
	view.Timeline = tl

	atRisk, err := planning.AtRisk(planning.ForecastRisk{
		DeliveryWeek:              f.DeliveryWeek,
		ShippingMethod:            f.ShippingMethod,
		CustomShippingDays:        customDays,
		LeadTimeDays:              planning.ResolveLeadTime(sel, today),
		Signals:                   f.SignalSet(),
		EstimatedWarehouseArrival: f.EstimatedWarehouseArrival,
		ConfirmedDeliveryDate:     f.ConfirmedDeliveryDate,
	}, today)
	if err == nil {
		view.AtRisk = atRisk
	}
	return view
}

// List 获取预测列表（含时间线与信号状态）
func (s *ForecastService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]ForecastView, int64, error) {
	items, total, err := s.repo.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, err
	}

	today := time.Now()
	views := make([]ForecastView, 0, len(items))
	for _, f := range items {
		views = append(views, s.buildView(f, today))
	}
	return views, total, nil
}

// Get 获取预测详情
func (s *ForecastService) Get(ctx context.Context, id string) (*ForecastView, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.buildView(*f, time.Now())
	return &view, nil
}

// CreateForecastRequest 创建预测请求
type CreateForecastRequest struct {
	SKUID              string     `json:"sku_id" binding:"required"`
	DeliveryWeek       string     `json:"delivery_week" binding:"required"`
	Quantity           int        `json:"quantity" binding:"required"`
	Confidence         string     `json:"confidence"`
	MOQOverride        bool       `json:"moq_override"`
	ShippingMethod     string     `json:"shipping_method" binding:"required"`
	CustomShippingDays *float64   `json:"custom_shipping_days"`
	LeadTimeMode       string     `json:"lead_time_mode"`
	CustomLeadDate     *time.Time `json:"custom_lead_date"`
	CustomLeadDays     *int       `json:"custom_lead_days"`
	BufferDays         *int       `json:"buffer_days"`
	Notes              string     `json:"notes"`
}

// Create 创建预测（校验交付周可行性与MOQ）
func (s *ForecastService) Create(ctx context.Context, orgID, userID string, req *CreateForecastRequest) (*ForecastView, error) {
	sku, err := s.skuRepo.FindByID(ctx, req.SKUID)
	if err != nil {
		return nil, fmt.Errorf("SKU不存在")
	}
	if !sku.IsActive {
		return nil, fmt.Errorf("SKU已停用: %s", sku.SKU)
	}

	if req.Quantity < sku.MOQ && !req.MOQOverride {
		return nil, fmt.Errorf("数量 %d 低于最小起订量 %d，需显式覆盖", req.Quantity, sku.MOQ)
	}

	customDays := 0.0
	if req.CustomShippingDays != nil {
		customDays = *req.CustomShippingDays
	}

	// 校验运输方式
	if _, _, err := planning.ResolveShipping(req.ShippingMethod, customDays); err != nil {
		return nil, err
	}

	today := time.Now()
	sel := planning.LeadTimeSelection{
		Mode:            planning.LeadTimeMode(req.LeadTimeMode),
		MPStartDate:     sku.MPStartDate,
		SKULeadTimeDays: sku.LeadTimeDays,
		CustomDate:      req.CustomLeadDate,
		CustomDays:      req.CustomLeadDays,
	}

	feasInput := planning.FeasibilityInput{
		ShippingMethod:     req.ShippingMethod,
		CustomShippingDays: customDays,
		LeadTime:           sel,
	}
	feasible, err := planning.WeekFeasible(req.DeliveryWeek, feasInput, today)
	if err != nil {
		return nil, err
	}
	if !feasible {
		if next, nerr := planning.NextFeasibleWeek(req.DeliveryWeek, feasInput, today); nerr == nil {
			return nil, fmt.Errorf("交付周 %s 不可行，最早可行周为 %s", req.DeliveryWeek, next)
		}
		return nil, fmt.Errorf("交付周 %s 不可行", req.DeliveryWeek)
	}

	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成预测编码失败: %w", err)
	}

	confidence := req.Confidence
	if confidence == "" {
		confidence = "medium"
	}
	mode := req.LeadTimeMode
	if mode == "" {
		mode = string(planning.LeadTimeNormal)
	}
	buffer := planning.DefaultBufferDays
	if req.BufferDays != nil && *req.BufferDays >= 0 {
		buffer = *req.BufferDays
	}

	f := &entity.SalesForecast{
		ID:                 uuid.New().String()[:32],
		Code:               code,
		OrgID:              orgID,
		SKUID:              req.SKUID,
		DeliveryWeek:       req.DeliveryWeek,
		Quantity:           req.Quantity,
		Confidence:         confidence,
		MOQOverride:        req.MOQOverride,
		ShippingMethod:     req.ShippingMethod,
		CustomShippingDays: req.CustomShippingDays,
		LeadTimeMode:       mode,
		CustomLeadDate:     req.CustomLeadDate,
		CustomLeadDays:     req.CustomLeadDays,
		BufferDays:         buffer,
		Status:             entity.ForecastStatusDraft,
		SalesSignal:        string(planning.SignalDraft),
		FactorySignal:      string(planning.SignalUnknown),
		TransitSignal:      string(planning.SignalUnknown),
		WarehouseSignal:    string(planning.SignalUnknown),
		Notes:              req.Notes,
		CreatedBy:          userID,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.invalidateAtRiskCache(ctx, orgID)

	f.SKU = sku
	view := s.buildView(*f, today)
	return &view, nil
}

// UpdateForecastRequest 更新预测请求
type UpdateForecastRequest struct {
	DeliveryWeek       *string    `json:"delivery_week"`
	Quantity           *int       `json:"quantity"`
	Confidence         *string    `json:"confidence"`
	ShippingMethod     *string    `json:"shipping_method"`
	CustomShippingDays *float64   `json:"custom_shipping_days"`
	LeadTimeMode       *string    `json:"lead_time_mode"`
	CustomLeadDate     *time.Time `json:"custom_lead_date"`
	CustomLeadDays     *int       `json:"custom_lead_days"`
	BufferDays         *int       `json:"buffer_days"`
	Notes              *string    `json:"notes"`
}

// Update 更新预测（已承诺/已取消的预测禁止修改）
func (s *ForecastService) Update(ctx context.Context, id string, req *UpdateForecastRequest) (*ForecastView, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status == entity.ForecastStatusCommitted || f.Status == entity.ForecastStatusCancelled {
		return nil, fmt.Errorf("预测状态为 %s，不可修改", f.Status)
	}

	// 交付周落库后不可变更；要改目标周请取消后重建预测
	if req.DeliveryWeek != nil && *req.DeliveryWeek != f.DeliveryWeek {
		return nil, fmt.Errorf("交付周创建后不可修改")
	}
	if req.Quantity != nil && *req.Quantity > 0 {
		f.Quantity = *req.Quantity
	}
	if req.Confidence != nil {
		f.Confidence = *req.Confidence
	}
	if req.ShippingMethod != nil {
		customDays := 0.0
		if req.CustomShippingDays != nil {
			customDays = *req.CustomShippingDays
		} else if f.CustomShippingDays != nil {
			customDays = *f.CustomShippingDays
		}
		if _, _, err := planning.ResolveShipping(*req.ShippingMethod, customDays); err != nil {
			return nil, err
		}
		f.ShippingMethod = *req.ShippingMethod
	}
	if req.CustomShippingDays != nil {
		f.CustomShippingDays = req.CustomShippingDays
	}
	if req.LeadTimeMode != nil {
		f.LeadTimeMode = *req.LeadTimeMode
	}
	if req.CustomLeadDate != nil {
		f.CustomLeadDate = req.CustomLeadDate
	}
	if req.CustomLeadDays != nil {
		f.CustomLeadDays = req.CustomLeadDays
	}
	if req.BufferDays != nil && *req.BufferDays >= 0 {
		f.BufferDays = *req.BufferDays
	}
	if req.Notes != nil {
		f.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.invalidateAtRiskCache(ctx, f.OrgID)

	view := s.buildView(*f, time.Now())
	return &view, nil
}

// Submit 提交预测（草稿→已提交，销售信号置为submitted）
func (s *ForecastService) Submit(ctx context.Context, id string) (*ForecastView, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status != entity.ForecastStatusDraft {
		return nil, fmt.Errorf("仅草稿状态可提交，当前状态: %s", f.Status)
	}

	f.Status = entity.ForecastStatusSubmitted
	f.SalesSignal = string(planning.SignalSubmitted)
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.invalidateAtRiskCache(ctx, f.OrgID)

	view := s.buildView(*f, time.Now())
	return &view, nil
}

// Cancel 取消预测
func (s *ForecastService) Cancel(ctx context.Context, id string) (*ForecastView, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status == entity.ForecastStatusCancelled {
		return nil, fmt.Errorf("预测已取消")
	}

	f.Status = entity.ForecastStatusCancelled
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.invalidateAtRiskCache(ctx, f.OrgID)

	view := s.buildView(*f, time.Now())
	return &view, nil
}

// Delete 删除预测（仅草稿可删除）
func (s *ForecastService) Delete(ctx context.Context, id string) error {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if f.Status != entity.ForecastStatusDraft {
		return fmt.Errorf("仅草稿状态可删除，当前状态: %s", f.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateAtRiskCache(ctx, f.OrgID)
	return nil
}

// === 信号更新 ===

// 各信号字段的合法取值。draft仅限销售信号，reviewing仅限工厂信号。
var legalSignalValues = map[string]map[planning.Signal]bool{
	"sales": {
		planning.SignalUnknown: true, planning.SignalDraft: true, planning.SignalSubmitted: true,
		planning.SignalConfirmed: true, planning.SignalRejected: true,
	},
	"factory": {
		planning.SignalUnknown: true, planning.SignalSubmitted: true, planning.SignalReviewing: true,
		planning.SignalConfirmed: true, planning.SignalRejected: true,
	},
	"transit": {
		planning.SignalUnknown: true, planning.SignalSubmitted: true,
		planning.SignalConfirmed: true, planning.SignalRejected: true,
	},
	"warehouse": {
		planning.SignalUnknown: true, planning.SignalSubmitted: true,
		planning.SignalConfirmed: true, planning.SignalRejected: true,
	},
}

// 各信号字段允许哪些组织类型更新。admin全量放行。
var signalFieldOwners = map[string]map[string]bool{
	"sales":     {"internal": true},
	"factory":   {"oem_partner": true, "contractor": true},
	"transit":   {"oem_partner": true, "shipping_logistics": true},
	"warehouse": {"shipping_logistics": true, "distributor": true},
}

// UpdateSignalsRequest 更新信号请求
type UpdateSignalsRequest struct {
	SalesSignal               *string    `json:"sales_signal"`
	FactorySignal             *string    `json:"factory_signal"`
	TransitSignal             *string    `json:"transit_signal"`
	WarehouseSignal           *string    `json:"warehouse_signal"`
	EstimatedWarehouseArrival *time.Time `json:"estimated_warehouse_arrival"`
	ConfirmedDeliveryDate     *time.Time `json:"confirmed_delivery_date"`
}

// UpdateSignals 更新预测信号（按组织类型限权，admin放行）
func (s *ForecastService) UpdateSignals(ctx context.Context, id, orgType, role string, req *UpdateSignalsRequest) (*ForecastView, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status == entity.ForecastStatusCancelled {
		return nil, fmt.Errorf("预测已取消，不可更新信号")
	}

	fields := map[string]interface{}{}

	apply := func(field string, value *string, column string) error {
		if value == nil {
			return nil
		}
		sig := planning.Signal(*value)
		if !legalSignalValues[field][sig] {
			return fmt.Errorf("非法的%s信号值: %s", field, *value)
		}
		if role != "admin" && role != "super_admin" && !signalFieldOwners[field][orgType] {
			return fmt.Errorf("当前组织无权更新%s信号", field)
		}
		fields[column] = *value
		return nil
	}

	if err := apply("sales", req.SalesSignal, "sales_signal"); err != nil {
		return nil, err
	}
	if err := apply("factory", req.FactorySignal, "factory_signal"); err != nil {
		return nil, err
	}
	if err := apply("transit", req.TransitSignal, "transit_signal"); err != nil {
		return nil, err
	}
	if err := apply("warehouse", req.WarehouseSignal, "warehouse_signal"); err != nil {
		return nil, err
	}
	if req.EstimatedWarehouseArrival != nil {
		fields["estimated_warehouse_arrival"] = req.EstimatedWarehouseArrival
	}
	if req.ConfirmedDeliveryDate != nil {
		fields["confirmed_delivery_date"] = req.ConfirmedDeliveryDate
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("未提供任何信号字段")
	}

	if err := s.repo.UpdateSignals(ctx, id, fields); err != nil {
		return nil, err
	}
	s.invalidateAtRiskCache(ctx, f.OrgID)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("forecast signals updated",
		zap.String("forecast", updated.Code),
		zap.String("org_type", orgType),
		zap.String("overall", string(planning.AggregateSignals(updated.SignalSet()))))

	view := s.buildView(*updated, time.Now())
	return &view, nil
}

// === 风险扫描 ===

// AtRiskList 扫描交付风险预测（结果缓存30秒）
func (s *ForecastService) AtRiskList(ctx context.Context, orgID string) ([]ForecastView, error) {
	cacheKey := "cpfr:atrisk:" + orgID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var views []ForecastView
			if err := json.Unmarshal([]byte(cached), &views); err == nil {
				return views, nil
			}
		}
	}

	items, err := s.repo.FindActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	var atRisk []ForecastView
	for _, f := range items {
		view := s.buildView(f, today)
		if view.AtRisk {
			atRisk = append(atRisk, view)
		}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(atRisk); err == nil {
			s.rdb.Set(ctx, cacheKey, data, atRiskCacheTTL)
		}
	}
	return atRisk, nil
}

func (s *ForecastService) invalidateAtRiskCache(ctx context.Context, orgID string) {
	if s.rdb == nil {
		return
	}
	// 除本组织键外还要清掉全组织扫描的缓存键(orgID为空时的cacheKey)
	s.rdb.Del(ctx, "cpfr:atrisk:"+orgID, "cpfr:atrisk:")
}

// === 行动项邮件 ===

// SendActionItems 向相关组织发送风险预测行动项邮件
func (s *ForecastService) SendActionItems(ctx context.Context, orgID string, recipients []string) (int, error) {
	if s.mail == nil {
		return 0, fmt.Errorf("邮件服务未配置")
	}
	if len(recipients) == 0 {
		return 0, fmt.Errorf("收件人不能为空")
	}

	views, err := s.AtRiskList(ctx, orgID)
	if err != nil {
		return 0, err
	}
	if len(views) == 0 {
		return 0, nil
	}

	items := make([]mailer.ActionItem, 0, len(views))
	for _, v := range views {
		item := mailer.ActionItem{
			ForecastCode: v.Code,
			DeliveryWeek: v.DeliveryWeek,
			Quantity:     v.Quantity,
			Status:       string(v.OverallStatus),
		}
		if v.SKU != nil {
			item.SKU = v.SKU.SKU
			item.SKUName = v.SKU.Name
		}
		if v.Timeline != nil {
			item.RiskLevel = string(v.Timeline.RiskLevel)
			item.DaysUntilDelivery = v.Timeline.DaysUntilDelivery
		}
		items = append(items, item)
	}

	if err := s.mail.SendActionItems(ctx, recipients, items); err != nil {
		s.logger.Error("send action items failed", zap.Error(err), zap.Int("count", len(items)))
		return 0, fmt.Errorf("发送行动项邮件失败: %w", err)
	}

	s.logger.Info("action items sent",
		zap.Int("count", len(items)),
		zap.Strings("recipients", recipients))
	return len(items), nil
}
