package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
)

// TimelineService 交付时间线服务：预演时间线、列出可选交付周、情景对比
type TimelineService struct {
	skuRepo *repository.SKURepository
}

func NewTimelineService(skuRepo *repository.SKURepository) *TimelineService {
	return &TimelineService{skuRepo: skuRepo}
}

// PreviewRequest 时间线预演请求
type PreviewRequest struct {
	SKUID              string     `json:"sku_id"`
	DeliveryWeek       string     `json:"delivery_week" binding:"required"`
	ShippingMethod     string     `json:"shipping_method" binding:"required"`
	CustomShippingDays float64    `json:"custom_shipping_days"`
	LeadTimeMode       string     `json:"lead_time_mode"`
	CustomLeadDate     *time.Time `json:"custom_lead_date"`
	CustomLeadDays     *int       `json:"custom_lead_days"`
	BufferDays         int        `json:"buffer_days"`
	Scenario           bool       `json:"scenario"`
	// AsOf 计算基准日，缺省取服务器当前日期
	AsOf *time.Time `json:"as_of"`
}

func asOf(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

// leadSelection 组装生产周期选择（SKU可选，查不到即报错）
func (s *TimelineService) leadSelection(ctx context.Context, skuID, mode string, customDate *time.Time, customDays *int) (planning.LeadTimeSelection, error) {
	sel := planning.LeadTimeSelection{
		Mode:       planning.LeadTimeMode(mode),
		CustomDate: customDate,
		CustomDays: customDays,
	}
	if skuID != "" {
		sku, err := s.skuRepo.FindByID(ctx, skuID)
		if err != nil {
			return sel, fmt.Errorf("SKU不存在")
		}
		sel.MPStartDate = sku.MPStartDate
		sel.SKULeadTimeDays = sku.LeadTimeDays
	}
	return sel, nil
}

// Preview 预演交付时间线（不落库）
func (s *TimelineService) Preview(ctx context.Context, req *PreviewRequest) (*planning.Timeline, error) {
	sel, err := s.leadSelection(ctx, req.SKUID, req.LeadTimeMode, req.CustomLeadDate, req.CustomLeadDays)
	if err != nil {
		return nil, err
	}

	return planning.BuildTimeline(planning.TimelineInput{
		DeliveryWeek:       req.DeliveryWeek,
		ShippingMethod:     req.ShippingMethod,
		CustomShippingDays: req.CustomShippingDays,
		LeadTime:           sel,
		BufferDays:         req.BufferDays,
		Scenario:           req.Scenario,
	}, asOf(req.AsOf))
}

// PlanningWeeksRequest 可选交付周请求
type PlanningWeeksRequest struct {
	SKUID              string     `json:"sku_id"`
	ShippingMethod     string     `json:"shipping_method" binding:"required"`
	CustomShippingDays float64    `json:"custom_shipping_days"`
	LeadTimeMode       string     `json:"lead_time_mode"`
	CustomLeadDate     *time.Time `json:"custom_lead_date"`
	CustomLeadDays     *int       `json:"custom_lead_days"`
	AsOf               *time.Time `json:"as_of"`
}

// PlanningWeeks 列出未来可选交付周及其可行性
func (s *TimelineService) PlanningWeeks(ctx context.Context, req *PlanningWeeksRequest) ([]planning.PlanningWeek, error) {
	sel, err := s.leadSelection(ctx, req.SKUID, req.LeadTimeMode, req.CustomLeadDate, req.CustomLeadDays)
	if err != nil {
		return nil, err
	}

	return planning.PlanningWeeks(planning.FeasibilityInput{
		ShippingMethod:     req.ShippingMethod,
		CustomShippingDays: req.CustomShippingDays,
		LeadTime:           sel,
	}, asOf(req.AsOf))
}

// ScenarioComparison 情景对比结果：同一交付周下标准与乐观情景的时间线
type ScenarioComparison struct {
	Baseline *planning.Timeline `json:"baseline"`
	Scenario *planning.Timeline `json:"scenario"`
	// 情景相对标准周期节省的天数
	DaysSaved float64 `json:"days_saved"`
}

// CompareScenario 对比标准运输周期与乐观情景周期
func (s *TimelineService) CompareScenario(ctx context.Context, req *PreviewRequest) (*ScenarioComparison, error) {
	sel, err := s.leadSelection(ctx, req.SKUID, req.LeadTimeMode, req.CustomLeadDate, req.CustomLeadDays)
	if err != nil {
		return nil, err
	}

	today := asOf(req.AsOf)
	input := planning.TimelineInput{
		DeliveryWeek:       req.DeliveryWeek,
		ShippingMethod:     req.ShippingMethod,
		CustomShippingDays: req.CustomShippingDays,
		LeadTime:           sel,
		BufferDays:         req.BufferDays,
	}

	baseline, err := planning.BuildTimeline(input, today)
	if err != nil {
		return nil, err
	}

	input.Scenario = true
	scenario, err := planning.BuildTimeline(input, today)
	if err != nil {
		return nil, err
	}

	return &ScenarioComparison{
		Baseline:  baseline,
		Scenario:  scenario,
		DaysSaved: baseline.TotalDaysRequired - scenario.TotalDaysRequired,
	}, nil
}

// ShippingMethodInfo 运输方式信息
type ShippingMethodInfo struct {
	Code        string  `json:"code"`
	TransitDays float64 `json:"transit_days"`
	Bypass      bool    `json:"bypass"`
}

// ShippingMethods 列出全部运输方式及其标准周期（按代码排序）
func (s *TimelineService) ShippingMethods() []ShippingMethodInfo {
	codes := planning.ShippingMethods()
	sort.Strings(codes)
	out := make([]ShippingMethodInfo, 0, len(codes))
	for _, code := range codes {
		days, bypass, err := planning.ResolveShipping(code, 0)
		if err != nil {
			continue
		}
		out = append(out, ShippingMethodInfo{Code: code, TransitDays: days, Bypass: bypass})
	}
	return out
}
