package planning

// =============================================================================
// CPFR信号聚合 — 把销售/工厂/物流/仓库四个独立状态信号归并为整体分类
// 用于日历和列表着色
// =============================================================================

// Signal 单个阶段的CPFR状态信号
type Signal string

const (
	SignalUnknown   Signal = "unknown"
	SignalDraft     Signal = "draft"     // 仅销售使用
	SignalSubmitted Signal = "submitted"
	SignalReviewing Signal = "reviewing" // 仅工厂使用
	SignalConfirmed Signal = "confirmed"
	SignalRejected  Signal = "rejected"
)

// SignalSet 一条预测上的四个独立信号。
// 各信号由不同角色独立维护，字段级last-write-wins，没有单一所有者。
type SignalSet struct {
	Sales     Signal `json:"sales_signal"`
	Factory   Signal `json:"factory_signal"`
	Transit   Signal `json:"transit_signal"`
	Warehouse Signal `json:"warehouse_signal"`
}

// OverallStatus 聚合后的整体分类
type OverallStatus string

const (
	StatusRejected   OverallStatus = "REJECTED"
	StatusConfirmed  OverallStatus = "CONFIRMED"
	StatusInProcess  OverallStatus = "IN_PROCESS"
	StatusNoActivity OverallStatus = "NO_ACTIVITY"
)

// Color 整体分类对应的展示颜色
func (s OverallStatus) Color() string {
	switch s {
	case StatusConfirmed:
		return "green"
	case StatusInProcess:
		return "yellow"
	case StatusNoActivity:
		return "gray"
	default:
		return "red"
	}
}

// AggregateSignals 按固定优先级归并销售/工厂/物流三个信号。
//
// 这是一个优先级瀑布而不是查找表：条件之间有重叠（比如第4条是
// 前3条未命中集合的子集），顺序一旦改变语义就变了，必须保持原样。
//
//  1. 任一 rejected                                  → REJECTED
//  2. 三者全部 confirmed                             → CONFIRMED
//  3. sales∈{submitted,draft} 且 factory=reviewing
//     且 transit=submitted                           → IN_PROCESS
//  4. sales=submitted 且 factory/transit 有 unknown  → REJECTED（已提交但链路不完整，视同拒绝级别）
//  5. 三者全部 unknown                               → NO_ACTIVITY
//  6. 其余                                           → REJECTED（兜底）
func AggregateSignals(s SignalSet) OverallStatus {
	sales := normalizeSignal(s.Sales)
	factory := normalizeSignal(s.Factory)
	transit := normalizeSignal(s.Transit)

	if sales == SignalRejected || factory == SignalRejected || transit == SignalRejected {
		return StatusRejected
	}
	if sales == SignalConfirmed && factory == SignalConfirmed && transit == SignalConfirmed {
		return StatusConfirmed
	}
	if (sales == SignalSubmitted || sales == SignalDraft) &&
		factory == SignalReviewing && transit == SignalSubmitted {
		return StatusInProcess
	}
	if sales == SignalSubmitted && (factory == SignalUnknown || transit == SignalUnknown) {
		return StatusRejected
	}
	if sales == SignalUnknown && factory == SignalUnknown && transit == SignalUnknown {
		return StatusNoActivity
	}
	return StatusRejected
}

func normalizeSignal(s Signal) Signal {
	if s == "" {
		return SignalUnknown
	}
	return s
}
