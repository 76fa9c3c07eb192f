package planning

import "errors"

// 核心计算的错误分类。全部是可恢复的校验错误：
// 上层表单提示用户修正输入，不允许降级输出一个"看起来合法"的时间线。
var (
	// ErrMalformedWeekLabel ISO周标签格式非法（非 YYYY-Www 或周数超出 1-53）
	ErrMalformedWeekLabel = errors.New("malformed ISO week label")

	// ErrInvalidDeliveryWeek 交付周解析失败（由周标签错误传播而来）
	ErrInvalidDeliveryWeek = errors.New("invalid delivery week")

	// ErrInvalidShippingMethod 未知运输方式且无自定义天数
	ErrInvalidShippingMethod = errors.New("invalid shipping method")

	// ErrMissingCustomDuration 选择custom运输但缺少正数天数
	ErrMissingCustomDuration = errors.New("missing custom shipping duration")

	// ErrNoFeasibleWeekFound 向后搜索可行交付周超出迭代上限
	ErrNoFeasibleWeekFound = errors.New("no feasible delivery week found")
)
