package planning

import (
	"fmt"
	"time"
)

// =============================================================================
// 倒排调度器 — 从目标交付周倒推各上游里程碑日期并评估风险
// 纯函数：today作为显式参数传入，内部不读系统时钟
// =============================================================================

// FactorySignalLeadDays 工厂信号固定提前量：生产开始前7天必须通知工厂（不可配置）
const FactorySignalLeadDays = 7

// DefaultBufferDays 默认安全缓冲天数（可选集合 5/7/10/14/custom）
const DefaultBufferDays = 5

// RiskLevel 时间线风险等级
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// TimelineInput 倒排调度输入
type TimelineInput struct {
	DeliveryWeek       string            // ISO周标签，如 "2025-W43"
	ShippingMethod     string            // 运输方式代码或 "custom"
	CustomShippingDays float64           // ShippingMethod == custom 时必填
	LeadTime           LeadTimeSelection // 生产周期选择
	BufferDays         int               // 安全缓冲，<=0 时取默认5天
	Scenario           bool              // true 时使用情景分析运输表
}

// Timeline 倒排调度输出（临时计算结果，不落库，按需重算）
type Timeline struct {
	DeliveryWeek      string    `json:"delivery_week"`
	DeliveryDate      time.Time `json:"delivery_date"`
	WarehouseArrival  time.Time `json:"warehouse_arrival"`
	ShippingStart     time.Time `json:"shipping_start"`
	ProductionStart   time.Time `json:"production_start"`
	FactorySignalDate time.Time `json:"factory_signal_date"`

	LeadDays     int     `json:"lead_days"`
	ShippingDays float64 `json:"shipping_days"`
	BufferDays   int     `json:"buffer_days"`

	TotalDaysRequired float64   `json:"total_days_required"`
	DaysUntilDelivery int       `json:"days_until_delivery"`
	RiskLevel         RiskLevel `json:"risk_level"`
	IsRealistic       bool      `json:"is_realistic"`
}

// BuildTimeline 从交付目标倒推完整时间线
//
// 里程碑链（严格非递增）：
//
//	deliveryDate ← warehouseArrival(−buffer) ← shippingStart(−transit)
//	             ← productionStart(−lead) ← factorySignalDate(−7)
//
// 非法输入（坏周标签、未知运输方式、负缓冲）直接报错，绝不静默修正。
func BuildTimeline(in TimelineInput, today time.Time) (*Timeline, error) {
	deliveryDate, err := ParseWeek(in.DeliveryWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeliveryWeek, err)
	}

	resolve := ResolveShipping
	if in.Scenario {
		resolve = ResolveScenarioShipping
	}
	transitDays, _, err := resolve(in.ShippingMethod, in.CustomShippingDays)
	if err != nil {
		return nil, err
	}

	bufferDays := in.BufferDays
	if bufferDays == 0 {
		bufferDays = DefaultBufferDays
	}
	if bufferDays < 0 {
		return nil, fmt.Errorf("buffer days must not be negative: %d", bufferDays)
	}

	leadDays := ResolveLeadTime(in.LeadTime, today)

	warehouseArrival := deliveryDate.AddDate(0, 0, -bufferDays)
	shippingStart := warehouseArrival.Add(-time.Duration(transitDays * 24 * float64(time.Hour)))
	productionStart := shippingStart.AddDate(0, 0, -leadDays)
	factorySignalDate := productionStart.AddDate(0, 0, -FactorySignalLeadDays)

	totalRequired := float64(leadDays) + transitDays + float64(bufferDays) + FactorySignalLeadDays
	daysLeft := daysUntil(deliveryDate, today)

	risk := RiskLow
	switch {
	case float64(daysLeft) < totalRequired:
		risk = RiskHigh
	case float64(daysLeft) < totalRequired+14:
		risk = RiskMedium
	}

	return &Timeline{
		DeliveryWeek:      in.DeliveryWeek,
		DeliveryDate:      deliveryDate,
		WarehouseArrival:  warehouseArrival,
		ShippingStart:     shippingStart,
		ProductionStart:   productionStart,
		FactorySignalDate: factorySignalDate,
		LeadDays:          leadDays,
		ShippingDays:      transitDays,
		BufferDays:        bufferDays,
		TotalDaysRequired: totalRequired,
		DaysUntilDelivery: daysLeft,
		RiskLevel:         risk,
		IsRealistic:       float64(daysLeft) >= totalRequired,
	}, nil
}
