package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice 发票
type Invoice struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	InvoiceNumber string    `json:"invoice_number" gorm:"size:100;uniqueIndex;not null"` // INV-{year}-{4位}
	OrgID         string    `json:"org_id" gorm:"size:32;not null;index"`
	CustomerName  string    `json:"customer_name" gorm:"size:255;not null"`
	InvoiceDate   time.Time `json:"invoice_date" gorm:"not null"`

	Status string `json:"status" gorm:"size:20;default:draft;index"` // draft/submitted/approved/rejected/paid

	// 商务条款
	RequestedDeliveryWeek string `json:"requested_delivery_week" gorm:"size:10"`
	Terms                 string `json:"terms" gorm:"size:100"`    // NET30/NET60
	Incoterms             string `json:"incoterms" gorm:"size:20"` // FOB/CIF/DDP
	IncotermsLocation     string `json:"incoterms_location" gorm:"size:255"`

	// 地址
	CustomerAddress string     `json:"customer_address" gorm:"type:text"`
	ShipToAddress   string     `json:"ship_to_address" gorm:"type:text"`
	ShipDate        *time.Time `json:"ship_date"`

	// 收款银行信息
	BankName          string `json:"bank_name" gorm:"size:255"`
	BankAccountNumber string `json:"bank_account_number" gorm:"size:100"`
	BankRoutingNumber string `json:"bank_routing_number" gorm:"size:50"`
	BankSwiftCode     string `json:"bank_swift_code" gorm:"size:50"`
	BankIban          string `json:"bank_iban" gorm:"size:100"`
	BankAddress       string `json:"bank_address" gorm:"type:text"`
	BankCountry       string `json:"bank_country" gorm:"size:100"`
	BankCurrency      string `json:"bank_currency" gorm:"size:10;default:USD"`

	TotalValue decimal.Decimal `json:"total_value" gorm:"type:decimal(15,2)"`

	// 审批通过后生成的发票文档存储路径
	ApprovedDocPath string `json:"approved_doc_path" gorm:"size:500"`

	Notes string `json:"notes" gorm:"type:text"`

	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	ApprovedBy *string    `json:"approved_by" gorm:"size:32"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 关联
	Items     []InvoiceLineItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
	Documents []InvoiceDocument `json:"documents,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// 发票状态
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSubmitted = "submitted"
	InvoiceStatusApproved  = "approved"
	InvoiceStatusRejected  = "rejected"
	InvoiceStatusPaid      = "paid"
)

// InvoiceLineItem 发票行项
type InvoiceLineItem struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	InvoiceID string `json:"invoice_id" gorm:"size:32;not null;index"`
	SKUID     string `json:"sku_id" gorm:"size:32;not null"`

	SKUCode     string `json:"sku_code" gorm:"size:100;not null"`
	SKUName     string `json:"sku_name" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`

	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitCost  decimal.Decimal `json:"unit_cost" gorm:"type:decimal(15,2)"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:decimal(15,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// InvoiceDocument 发票附件
type InvoiceDocument struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	InvoiceID string `json:"invoice_id" gorm:"size:32;not null;index"`

	FileName string `json:"file_name" gorm:"size:255;not null"`
	FilePath string `json:"file_path" gorm:"size:500;not null"`
	FileType string `json:"file_type" gorm:"size:100"`
	FileSize int64  `json:"file_size"`

	UploadedBy string    `json:"uploaded_by" gorm:"size:32"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (InvoiceDocument) TableName() string {
	return "invoice_documents"
}
