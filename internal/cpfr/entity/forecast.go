package entity

import (
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
)

// SalesForecast 销售预测（CPFR计划的核心记录）
type SalesForecast struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	Code         string  `json:"code" gorm:"size:32;uniqueIndex;not null"` // FCST-{year}-{4位}
	OrgID        string  `json:"org_id" gorm:"size:32;not null;index"`
	SKUID        string  `json:"sku_id" gorm:"size:32;not null;index"`
	POID         *string `json:"po_id" gorm:"size:32"` // 关联采购订单（可选）

	// 交付目标。deliveryWeek一旦落库即不可变，调度器按需从它重算时间线
	DeliveryWeek string `json:"delivery_week" gorm:"size:10;not null;index"` // ISO周标签 YYYY-Www
	Quantity     int    `json:"quantity" gorm:"not null"`
	Confidence   string `json:"confidence" gorm:"size:20;default:medium"` // low/medium/high
	MOQOverride  bool   `json:"moq_override" gorm:"default:false"`

	// 运输与生产周期参数
	ShippingMethod     string     `json:"shipping_method" gorm:"size:32;not null"`
	CustomShippingDays *float64   `json:"custom_shipping_days" gorm:"type:decimal(6,1)"`
	LeadTimeMode       string     `json:"lead_time_mode" gorm:"size:16;default:normal"` // mp_ready/normal/custom
	CustomLeadDate     *time.Time `json:"custom_lead_date"`
	CustomLeadDays     *int       `json:"custom_lead_days"`
	BufferDays         int        `json:"buffer_days" gorm:"default:5"`

	// 记录级状态
	Status string `json:"status" gorm:"size:20;default:draft;index"` // draft/submitted/approved/committed/cancelled

	// CPFR信号：四个角色各自维护，字段级last-write-wins
	SalesSignal     string `json:"sales_signal" gorm:"size:16;default:unknown"`
	FactorySignal   string `json:"factory_signal" gorm:"size:16;default:unknown"`
	TransitSignal   string `json:"transit_signal" gorm:"size:16;default:unknown"`
	WarehouseSignal string `json:"warehouse_signal" gorm:"size:16;default:unknown"`

	// 物流侧回填的里程碑日期
	EstimatedWarehouseArrival *time.Time `json:"estimated_warehouse_arrival"`
	ConfirmedDeliveryDate     *time.Time `json:"confirmed_delivery_date"`

	Notes string `json:"notes" gorm:"type:text"`

	// 管理
	CreatedBy   string     `json:"created_by" gorm:"size:32"`
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	SKU *ProductSKU `json:"sku,omitempty" gorm:"foreignKey:SKUID"`
}

func (SalesForecast) TableName() string {
	return "sales_forecasts"
}

// 预测记录状态
const (
	ForecastStatusDraft     = "draft"
	ForecastStatusSubmitted = "submitted"
	ForecastStatusApproved  = "approved"
	ForecastStatusCommitted = "committed"
	ForecastStatusCancelled = "cancelled"
)

// SignalSet 取出用于聚合的信号集合
func (f *SalesForecast) SignalSet() planning.SignalSet {
	return planning.SignalSet{
		Sales:     planning.Signal(f.SalesSignal),
		Factory:   planning.Signal(f.FactorySignal),
		Transit:   planning.Signal(f.TransitSignal),
		Warehouse: planning.Signal(f.WarehouseSignal),
	}
}

// LeadTimeSelection 组装生产周期选择参数（SKU主数据为空时仍可解析）
func (f *SalesForecast) LeadTimeSelection() planning.LeadTimeSelection {
	sel := planning.LeadTimeSelection{
		Mode:       planning.LeadTimeMode(f.LeadTimeMode),
		CustomDate: f.CustomLeadDate,
		CustomDays: f.CustomLeadDays,
	}
	if f.SKU != nil {
		sel.MPStartDate = f.SKU.MPStartDate
		sel.SKULeadTimeDays = f.SKU.LeadTimeDays
	}
	return sel
}
