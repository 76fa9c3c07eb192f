package planning

import (
	"fmt"
	"strings"
)

// =============================================================================
// 运输方式目录 — 运输方式代码到运输天数的静态查找表
// 目录是硬编码的，改动需要重新部署；与前端预测流程的表保持逐项一致
// =============================================================================

// 运输方式代码
const (
	ShippingCustom = "custom"

	ShippingIndirect        = "INDIRECT"
	ShippingZeroLagSameDay  = "ZERO_LAG_SAME_DAY"
	ShippingZeroLagNextDay  = "ZERO_LAG_NEXT_DAY"
	ShippingZeroLagCustom   = "ZERO_LAG_CUSTOM"
	ShippingAir7Days        = "AIR_7_DAYS"
	ShippingAir14Days       = "AIR_14_DAYS"
	ShippingAirNLD          = "AIR_NLD"
	ShippingAirAUT          = "AIR_AUT"
	ShippingSeaWestExpedite = "SEA_WEST_EXPEDITED"
	ShippingSeaAsiaUSWest   = "SEA_ASIA_US_WEST"
	ShippingSeaAsiaUSEast   = "SEA_ASIA_US_EAST"
	ShippingSeaAsiaNLD      = "SEA_ASIA_NLD"
	ShippingSeaAsiaAUT      = "SEA_ASIA_AUT"
	ShippingSeaStandard     = "SEA_STANDARD"
	ShippingTruckExpress    = "TRUCK_EXPRESS"
	ShippingTruckStandard   = "TRUCK_STANDARD"
	ShippingRail            = "RAIL"
)

// catalog 正式预测流程使用的权威运输天数表
var catalog = map[string]float64{
	ShippingIndirect:        0,
	ShippingZeroLagSameDay:  0,
	ShippingZeroLagNextDay:  1,
	ShippingZeroLagCustom:   0, // 实际天数由customDays给出
	ShippingAir7Days:        7,
	ShippingAir14Days:       14,
	ShippingAirNLD:          14,
	ShippingAirAUT:          14,
	ShippingSeaWestExpedite: 35,
	ShippingSeaAsiaUSWest:   45,
	ShippingSeaAsiaUSEast:   52,
	ShippingSeaAsiaNLD:      45,
	ShippingSeaAsiaAUT:      45,
	ShippingSeaStandard:     28,
	ShippingTruckExpress:    10.5,
	ShippingTruckStandard:   21,
	ShippingRail:            28,
}

// scenarioCatalog 情景分析（what-if）专用的乐观运输天数表。
// 与正式表对同一代码给出不同天数（如 SEA_ASIA_US_WEST 21 vs 45），
// 这是有意保留的两套口径，不要合并，也不要互相覆盖。
var scenarioCatalog = map[string]float64{
	ShippingIndirect:        0,
	ShippingZeroLagSameDay:  0,
	ShippingZeroLagNextDay:  1,
	ShippingZeroLagCustom:   0,
	ShippingAir7Days:        7,
	ShippingAir14Days:       14,
	ShippingAirNLD:          14,
	ShippingAirAUT:          14,
	ShippingSeaWestExpedite: 18,
	ShippingSeaAsiaUSWest:   21,
	ShippingSeaAsiaUSEast:   28,
	ShippingSeaAsiaNLD:      21,
	ShippingSeaAsiaAUT:      21,
	ShippingSeaStandard:     21,
	ShippingTruckExpress:    10.5,
	ShippingTruckStandard:   21,
	ShippingRail:            28,
}

// IsBypassShipping 判断运输方式是否绕过所有前向日期限制。
// ZERO_LAG_* 和 INDIRECT 视为零约束：交付周校验对它们永远可行。
func IsBypassShipping(code string) bool {
	return code == ShippingIndirect || strings.HasPrefix(code, "ZERO_LAG_")
}

// ResolveShipping 把运输方式代码解析为运输天数（正式表）
//
// 返回值 bypass 表示该方式绕过交付周可行性校验（见 IsBypassShipping）。
// custom 必须携带正数 customDays；未知代码返回 ErrInvalidShippingMethod。
func ResolveShipping(code string, customDays float64) (days float64, bypass bool, err error) {
	return resolveShipping(catalog, code, customDays)
}

// ResolveScenarioShipping 情景分析表的解析入口，语义与 ResolveShipping 相同
func ResolveScenarioShipping(code string, customDays float64) (days float64, bypass bool, err error) {
	return resolveShipping(scenarioCatalog, code, customDays)
}

func resolveShipping(table map[string]float64, code string, customDays float64) (float64, bool, error) {
	if code == ShippingCustom {
		if customDays <= 0 {
			return 0, false, fmt.Errorf("%w: custom shipping requires a positive day count", ErrMissingCustomDuration)
		}
		return customDays, false, nil
	}

	days, ok := table[code]
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidShippingMethod, code)
	}

	// ZERO_LAG_CUSTOM 目录值为0，实际天数可由customDays覆盖
	if code == ShippingZeroLagCustom && customDays > 0 {
		days = customDays
	}

	return days, IsBypassShipping(code), nil
}

// ShippingMethods 返回正式目录中的全部代码（稳定排序由调用方处理）
func ShippingMethods() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	return codes
}
