package planning

import (
	"fmt"
	"time"
)

// =============================================================================
// 交付周校验器 — 支撑日历周选择器，阻止选中不可行的交付周
// 这里用的是比调度器宽松的下界（不含安全缓冲），只做UI层面的门禁
// =============================================================================

// maxWeekAdvance 向后搜索可行周的迭代上限
const maxWeekAdvance = 10

// FeasibilityInput 可行性校验输入
type FeasibilityInput struct {
	ShippingMethod     string
	CustomShippingDays float64
	LeadTime           LeadTimeSelection
}

// EarliestFeasibleDate 最早可行交付日期 = today + (生产周期 + 运输天数)。
// bypass 为 true 表示运输方式绕过校验（ZERO_LAG_* / INDIRECT），任何周都可行。
func EarliestFeasibleDate(in FeasibilityInput, today time.Time) (earliest time.Time, bypass bool, err error) {
	transitDays, bypass, err := ResolveShipping(in.ShippingMethod, in.CustomShippingDays)
	if err != nil {
		return time.Time{}, false, err
	}
	if bypass {
		return dateOnly(today), true, nil
	}

	leadDays := ResolveLeadTime(in.LeadTime, today)
	total := float64(leadDays) + transitDays
	// 半天运输(如TRUCK_EXPRESS=10.5)截断到整日，保持全系统零点日历口径
	earliest = dateOnly(dateOnly(today).Add(time.Duration(total * 24 * float64(time.Hour))))
	return earliest, false, nil
}

// WeekFeasible 判断候选周是否可行。
// 周的周日到周六区间中只要有一天早于最早可行日期，该周即视为"太早"。
func WeekFeasible(weekLabel string, in FeasibilityInput, today time.Time) (bool, error) {
	monday, err := ParseWeek(weekLabel)
	if err != nil {
		return false, err
	}

	earliest, bypass, err := EarliestFeasibleDate(in, today)
	if err != nil {
		return false, err
	}
	if bypass {
		return true, nil
	}

	return weekSpanFeasible(monday, earliest), nil
}

// weekSpanFeasible 周日(周一前一天)到周六的整个区间都不早于earliest才算可行
func weekSpanFeasible(monday, earliest time.Time) bool {
	sunday := monday.AddDate(0, 0, -1)
	return !sunday.Before(earliest)
}

// NextFeasibleWeek 从候选周开始逐周向后扫描，返回第一个可行周的ISO标签。
// 搜索范围限制在10周以内，超出返回 ErrNoFeasibleWeekFound，提示用户放宽约束。
func NextFeasibleWeek(candidateWeek string, in FeasibilityInput, today time.Time) (string, error) {
	monday, err := ParseWeek(candidateWeek)
	if err != nil {
		return "", err
	}

	earliest, bypass, err := EarliestFeasibleDate(in, today)
	if err != nil {
		return "", err
	}
	if bypass {
		return WeekOf(monday), nil
	}

	for i := 0; i < maxWeekAdvance; i++ {
		if weekSpanFeasible(monday, earliest) {
			return WeekOf(monday), nil
		}
		monday = monday.AddDate(0, 0, 7)
	}

	return "", fmt.Errorf("%w: scanned %d weeks from %s", ErrNoFeasibleWeekFound, maxWeekAdvance, candidateWeek)
}

// PlanningWeek 日历选择器的一行：一个候选交付周及其可行性
type PlanningWeek struct {
	ISOWeek   string    `json:"iso_week"`
	StartDate time.Time `json:"start_date"` // 周一
	EndDate   time.Time `json:"end_date"`   // 周日
	Feasible  bool      `json:"feasible"`
}

// PlanningWeeks 生成日历选择器的候选周列表。
// 至少12周；若生产+运输周期更长，则延伸到最早可行周之后6周。
func PlanningWeeks(in FeasibilityInput, today time.Time) ([]PlanningWeek, error) {
	transitDays, bypass, err := ResolveShipping(in.ShippingMethod, in.CustomShippingDays)
	if err != nil {
		return nil, err
	}

	totalWeeks := 12
	var earliest time.Time
	if bypass {
		earliest = dateOnly(today)
	} else {
		leadDays := ResolveLeadTime(in.LeadTime, today)
		totalDays := float64(leadDays) + transitDays
		// 与 EarliestFeasibleDate 同口径：截断到整日
		earliest = dateOnly(dateOnly(today).Add(time.Duration(totalDays * 24 * float64(time.Hour))))

		weeksUntilEarliest := int(totalDays/7) + 1
		if weeksUntilEarliest+6 > totalWeeks {
			totalWeeks = weeksUntilEarliest + 6
		}
	}

	// 本周周一作为起点
	start := dateOnly(today)
	start = start.AddDate(0, 0, -((int(start.Weekday()) + 6) % 7))

	weeks := make([]PlanningWeek, 0, totalWeeks)
	for i := 0; i < totalWeeks; i++ {
		monday := start.AddDate(0, 0, i*7)
		weeks = append(weeks, PlanningWeek{
			ISOWeek:   WeekOf(monday),
			StartDate: monday,
			EndDate:   monday.AddDate(0, 0, 6),
			Feasible:  bypass || weekSpanFeasible(monday, earliest),
		})
	}
	return weeks, nil
}
