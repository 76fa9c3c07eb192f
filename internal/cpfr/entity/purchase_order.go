package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	POCode     string  `json:"po_code" gorm:"size:32;uniqueIndex;not null"` // PO-{year}-{4位}
	OrgID      string  `json:"org_id" gorm:"size:32;not null;index"`
	SupplierID *string `json:"supplier_id" gorm:"size:32"`
	ForecastID *string `json:"forecast_id" gorm:"size:32;index"` // 来源预测

	Status string `json:"status" gorm:"size:20;default:draft"` // draft/submitted/approved/sent/cancelled

	// 交付
	RequestedDeliveryWeek string     `json:"requested_delivery_week" gorm:"size:10"` // ISO周标签
	ExpectedDate          *time.Time `json:"expected_date"`
	Incoterms             string     `json:"incoterms" gorm:"size:20"` // FOB/CIF/DDP...
	IncotermsLocation     string     `json:"incoterms_location" gorm:"size:255"`

	// 金额
	TotalValue decimal.Decimal `json:"total_value" gorm:"type:decimal(15,2)"`
	Currency   string          `json:"currency" gorm:"size:10;default:USD"`

	Terms string `json:"terms" gorm:"size:100"` // NET30/NET60
	Notes string `json:"notes" gorm:"type:text"`

	// 管理
	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 关联
	Items []POLineItem `json:"items,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PO状态
const (
	POStatusDraft     = "draft"
	POStatusSubmitted = "submitted"
	POStatusApproved  = "approved"
	POStatusSent      = "sent"
	POStatusCancelled = "cancelled"
)

// POLineItem 采购订单行项
type POLineItem struct {
	ID    string  `json:"id" gorm:"primaryKey;size:32"`
	POID  string  `json:"po_id" gorm:"size:32;not null;index"`
	SKUID *string `json:"sku_id" gorm:"size:32"`

	SKUCode     string `json:"sku_code" gorm:"size:100"`
	Description string `json:"description" gorm:"size:500"`

	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4)"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(15,2)"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (POLineItem) TableName() string {
	return "purchase_order_line_items"
}
