package entity

import "time"

// Organization 组织：BDI内部团队与外部合作方（代工、物流、分销）
type Organization struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Name      string `json:"name" gorm:"size:200;not null"`
	LegalName string `json:"legal_name" gorm:"size:200"`
	Code      string `json:"code" gorm:"size:20;uniqueIndex"` // 短码，如 BDI/MTN
	Type      string `json:"type" gorm:"size:50;not null"`    // internal/contractor/shipping_logistics/oem_partner/distributor

	Description string `json:"description" gorm:"type:text"`

	// PO编号用2位组织码（10-99）
	POCode2Digit string `json:"po_code_2_digit" gorm:"size:2"`

	// 工商信息
	DunsNumber string `json:"duns_number" gorm:"size:20"`
	TaxID      string `json:"tax_id" gorm:"size:30"`

	// 联系方式
	ContactEmail    string `json:"contact_email" gorm:"size:255"`
	ContactPhone    string `json:"contact_phone" gorm:"size:20"`
	BusinessAddress string `json:"business_address" gorm:"type:text"`
	BillingAddress  string `json:"billing_address" gorm:"type:text"`

	// CPFR信号通知收件人（逗号分隔）
	CPFRContacts string `json:"cpfr_contacts" gorm:"type:text"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Organization) TableName() string {
	return "organizations"
}

// 组织类型
const (
	OrgTypeInternal          = "internal"
	OrgTypeContractor        = "contractor"
	OrgTypeShippingLogistics = "shipping_logistics"
	OrgTypeOEMPartner        = "oem_partner"
	OrgTypeDistributor       = "distributor"
)
