package planning

import "time"

// =============================================================================
// 生产周期解析 — 按选择模式计算SKU的有效生产周期（天）
// =============================================================================

// LeadTimeMode 生产周期选择模式
type LeadTimeMode string

const (
	// LeadTimeMPReady 按SKU的量产就绪日期倒推
	LeadTimeMPReady LeadTimeMode = "mp_ready"
	// LeadTimeNormal 使用SKU的标准生产周期
	LeadTimeNormal LeadTimeMode = "normal"
	// LeadTimeCustom 用户自定义（日期或天数）
	LeadTimeCustom LeadTimeMode = "custom"
)

// DefaultLeadTimeDays SKU未配置生产周期时的兜底默认值
const DefaultLeadTimeDays = 30

// LeadTimeSelection 生产周期选择参数。
// MPStartDate / SKULeadTimeDays 来自SKU主数据，Custom* 来自表单输入。
type LeadTimeSelection struct {
	Mode            LeadTimeMode
	MPStartDate     *time.Time
	SKULeadTimeDays *int
	CustomDate      *time.Time
	CustomDays      *int
}

// ResolveLeadTime 计算有效生产周期，保证返回值 >= 1
//
//   - mp_ready: 有量产就绪日期则取 ceil(mpStartDate - today)，否则退回normal
//   - normal:   SKU标准周期，缺省30天
//   - custom:   优先自定义日期，其次自定义天数，最后退回SKU标准周期
func ResolveLeadTime(sel LeadTimeSelection, today time.Time) int {
	switch sel.Mode {
	case LeadTimeMPReady:
		if sel.MPStartDate != nil {
			return atLeastOne(daysUntil(*sel.MPStartDate, today))
		}
		return normalLeadTime(sel)
	case LeadTimeCustom:
		if sel.CustomDate != nil {
			return atLeastOne(daysUntil(*sel.CustomDate, today))
		}
		if sel.CustomDays != nil && *sel.CustomDays > 0 {
			return *sel.CustomDays
		}
		return normalLeadTime(sel)
	default:
		return normalLeadTime(sel)
	}
}

func normalLeadTime(sel LeadTimeSelection) int {
	if sel.SKULeadTimeDays != nil && *sel.SKULeadTimeDays > 0 {
		return *sel.SKULeadTimeDays
	}
	return DefaultLeadTimeDays
}

func atLeastOne(days int) int {
	if days < 1 {
		return 1
	}
	return days
}
