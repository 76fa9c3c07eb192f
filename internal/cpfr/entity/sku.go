package entity

import "time"

// ProductSKU 产品SKU主数据
type ProductSKU struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	SKU         string `json:"sku" gorm:"size:100;uniqueIndex;not null"`
	Name        string `json:"name" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`

	// PO编号生成用的3位SKU码（001-999）
	SKUCode3Digit string `json:"sku_code_3_digit" gorm:"size:3;uniqueIndex"`
	Category      string `json:"category" gorm:"size:100"` // device/accessory/component
	Subcategory   string `json:"subcategory" gorm:"size:100"`

	// CPFR计划用业务参数
	MOQ          int        `json:"moq" gorm:"default:1"`
	LeadTimeDays *int       `json:"lead_time_days"`            // 标准生产周期，空则按30天兜底
	MPStartDate  *time.Time `json:"mp_start_date"`             // 量产就绪日期
	Mfg          string     `json:"mfg" gorm:"size:100"`       // 制造商
	HTSCode      string     `json:"hts_code" gorm:"size:12"`   // 海关税则号

	// 状态
	IsActive       bool    `json:"is_active" gorm:"default:true"`
	IsDiscontinued bool    `json:"is_discontinued" gorm:"default:false"`
	ReplacementSKU *string `json:"replacement_sku" gorm:"size:100"`

	// 包装尺寸/重量（公制）
	BoxLengthCm    *float64 `json:"box_length_cm" gorm:"type:decimal(10,2)"`
	BoxWidthCm     *float64 `json:"box_width_cm" gorm:"type:decimal(10,2)"`
	BoxHeightCm    *float64 `json:"box_height_cm" gorm:"type:decimal(10,2)"`
	BoxWeightKg    *float64 `json:"box_weight_kg" gorm:"type:decimal(10,3)"`
	CartonLengthCm *float64 `json:"carton_length_cm" gorm:"type:decimal(10,2)"`
	CartonWidthCm  *float64 `json:"carton_width_cm" gorm:"type:decimal(10,2)"`
	CartonHeightCm *float64 `json:"carton_height_cm" gorm:"type:decimal(10,2)"`
	CartonWeightKg *float64 `json:"carton_weight_kg" gorm:"type:decimal(10,3)"`
	BoxesPerCarton *int     `json:"boxes_per_carton"`
	PalletNotes    string   `json:"pallet_notes" gorm:"type:text"`

	// 管理
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductSKU) TableName() string {
	return "product_skus"
}
