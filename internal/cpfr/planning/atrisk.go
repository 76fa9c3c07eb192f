package planning

import "time"

// =============================================================================
// 列表视图风险判定 — 已落库预测的"是否有风险"布尔判定
//
// 注意：这与调度器的 RiskLevel 是两套刻意独立的口径（阈值相近但不相同），
// 合并会改变用户可见行为，保持各自可测。
// =============================================================================

// atRiskBlanketDays 兜底规则：距交付不足14天且未送达即视为有风险
const atRiskBlanketDays = 14

// ForecastRisk 风险判定所需的预测快照
type ForecastRisk struct {
	DeliveryWeek       string
	ShippingMethod     string
	CustomShippingDays float64
	LeadTimeDays       int // 已解析的有效生产周期
	Signals            SignalSet

	// 已知的里程碑日期（可能缺失）
	EstimatedWarehouseArrival *time.Time
	ConfirmedDeliveryDate     *time.Time
}

// AtRisk 判定一条预测是否有交付风险
//
// 判定按顺序短路：
//  1. 仓库已确认收货或运输已确认送达 → 无风险
//  2. 已过交付日期且未送达 → 有风险
//  3. 任一已知里程碑日期晚于交付日期 → 有风险
//  4. 按运输方式估算剩余所需天数做三档判定 + 14天兜底规则
func AtRisk(f ForecastRisk, today time.Time) (bool, error) {
	// 已送达的不再有风险
	if f.Signals.Warehouse == SignalConfirmed || f.Signals.Warehouse == Signal("completed") ||
		f.Signals.Transit == SignalConfirmed {
		return false, nil
	}

	deliveryDate, err := ParseWeek(f.DeliveryWeek)
	if err != nil {
		return false, err
	}
	daysLeft := daysUntil(deliveryDate, today)

	// 已逾期
	if daysLeft < 0 {
		return true, nil
	}

	// 已知里程碑晚于交付日期
	if f.EstimatedWarehouseArrival != nil && dateOnly(*f.EstimatedWarehouseArrival).After(deliveryDate) {
		return true, nil
	}
	if f.ConfirmedDeliveryDate != nil && dateOnly(*f.ConfirmedDeliveryDate).After(deliveryDate) {
		return true, nil
	}

	transitDays, bypass, err := ResolveShipping(f.ShippingMethod, f.CustomShippingDays)
	if err != nil {
		return false, err
	}
	if bypass {
		return false, nil
	}

	lead := f.LeadTimeDays
	if lead < 1 {
		lead = DefaultLeadTimeDays
	}

	// 三档估算：按流程推进到哪一步，算还需要多少天
	var needed float64
	switch {
	case f.Signals.Factory != SignalConfirmed:
		// 工厂未确认：还需要 生产+运输+缓冲
		needed = float64(lead) + transitDays + DefaultBufferDays
	case f.Signals.Transit != SignalSubmitted:
		// 工厂已确认但未发运：还需要 运输+7
		needed = transitDays + 7
	default:
		// 在途：剩余运输天数（无发运日期时按全程估）
		needed = transitDays
	}

	if float64(daysLeft) < needed {
		return true, nil
	}

	// 兜底规则
	if daysLeft < atRiskBlanketDays {
		return true, nil
	}

	return false, nil
}
