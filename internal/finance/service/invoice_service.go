package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/shared/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// InvoiceService 发票服务
type InvoiceService struct {
	repo   *repository.InvoiceRepository
	store  *storage.ObjectStore
	logger *zap.Logger
}

func NewInvoiceService(repo *repository.InvoiceRepository, store *storage.ObjectStore, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, store: store, logger: logger}
}

// List 获取发票列表
func (s *InvoiceService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取发票详情
func (s *InvoiceService) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateInvoiceRequest 创建发票请求
type CreateInvoiceRequest struct {
	CustomerName          string     `json:"customer_name" binding:"required"`
	InvoiceDate           *time.Time `json:"invoice_date"`
	RequestedDeliveryWeek string     `json:"requested_delivery_week"`
	Terms                 string     `json:"terms"`
	Incoterms             string     `json:"incoterms"`
	IncotermsLocation     string     `json:"incoterms_location"`
	CustomerAddress       string     `json:"customer_address"`
	ShipToAddress         string     `json:"ship_to_address"`
	ShipDate              *time.Time `json:"ship_date"`
	BankName              string     `json:"bank_name"`
	BankAccountNumber     string     `json:"bank_account_number"`
	BankRoutingNumber     string     `json:"bank_routing_number"`
	BankSwiftCode         string     `json:"bank_swift_code"`
	BankIban              string     `json:"bank_iban"`
	BankAddress           string     `json:"bank_address"`
	BankCountry           string     `json:"bank_country"`
	BankCurrency          string     `json:"bank_currency"`
	Notes                 string     `json:"notes"`
	Items                 []CreateInvoiceItem `json:"items" binding:"required"`
}

type CreateInvoiceItem struct {
	SKUID       string          `json:"sku_id" binding:"required"`
	SKUCode     string          `json:"sku_code" binding:"required"`
	SKUName     string          `json:"sku_name" binding:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// Create 创建发票（行项金额与总额服务端计算）
func (s *InvoiceService) Create(ctx context.Context, orgID, userID string, req *CreateInvoiceRequest) (*entity.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("发票至少需要一个行项")
	}

	number, err := s.repo.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("生成发票号失败: %w", err)
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}
	currency := req.BankCurrency
	if currency == "" {
		currency = "USD"
	}

	inv := &entity.Invoice{
		ID:                    uuid.New().String()[:32],
		InvoiceNumber:         number,
		OrgID:                 orgID,
		CustomerName:          req.CustomerName,
		InvoiceDate:           invoiceDate,
		Status:                entity.InvoiceStatusDraft,
		RequestedDeliveryWeek: req.RequestedDeliveryWeek,
		Terms:                 req.Terms,
		Incoterms:             req.Incoterms,
		IncotermsLocation:     req.IncotermsLocation,
		CustomerAddress:       req.CustomerAddress,
		ShipToAddress:         req.ShipToAddress,
		ShipDate:              req.ShipDate,
		BankName:              req.BankName,
		BankAccountNumber:     req.BankAccountNumber,
		BankRoutingNumber:     req.BankRoutingNumber,
		BankSwiftCode:         req.BankSwiftCode,
		BankIban:              req.BankIban,
		BankAddress:           req.BankAddress,
		BankCountry:           req.BankCountry,
		BankCurrency:          currency,
		Notes:                 req.Notes,
		CreatedBy:             userID,
	}

	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("行项 %s 数量必须为正", item.SKUCode)
		}
		lineTotal := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		inv.Items = append(inv.Items, entity.InvoiceLineItem{
			ID:          uuid.New().String()[:32],
			InvoiceID:   inv.ID,
			SKUID:       item.SKUID,
			SKUCode:     item.SKUCode,
			SKUName:     item.SKUName,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
			LineTotal:   lineTotal,
		})
	}
	inv.TotalValue = total

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Submit 提交发票进入财务审核
func (s *InvoiceService) Submit(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusDraft && inv.Status != entity.InvoiceStatusRejected {
		return nil, fmt.Errorf("状态 %s 不允许提交", inv.Status)
	}

	inv.Status = entity.InvoiceStatusSubmitted
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Approve 审批通过发票
//
// 管线顺序固定：渲染发票文档 → 上传对象存储 → 最后翻转状态。
// 任一前置步骤失败时状态保持不变，错误原样上抛。
func (s *InvoiceService) Approve(ctx context.Context, id, userID string) (*entity.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusSubmitted {
		return nil, fmt.Errorf("仅已提交状态可审批，当前状态: %s", inv.Status)
	}

	doc, err := renderInvoiceDoc(inv)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("invoices/%s/%s.html", inv.InvoiceDate.Format("2006/01"), inv.InvoiceNumber)
	if s.store == nil {
		return nil, fmt.Errorf("对象存储未配置，无法归档发票文档")
	}
	reader := strings.NewReader(doc)
	if err := s.store.Put(ctx, objectName, reader, int64(len(doc)), "text/html; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("归档发票文档失败: %w", err)
	}

	now := time.Now()
	inv.Status = entity.InvoiceStatusApproved
	inv.ApprovedDocPath = objectName
	inv.ApprovedBy = &userID
	inv.ApprovedAt = &now
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice approved",
		zap.String("invoice", inv.InvoiceNumber),
		zap.String("doc", objectName))
	return inv, nil
}

// Reject 驳回发票
func (s *InvoiceService) Reject(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusSubmitted {
		return nil, fmt.Errorf("仅已提交状态可驳回，当前状态: %s", inv.Status)
	}

	inv.Status = entity.InvoiceStatusRejected
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkPaid 标记发票已付款
func (s *InvoiceService) MarkPaid(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceStatusApproved {
		return nil, fmt.Errorf("仅审批通过状态可标记付款，当前状态: %s", inv.Status)
	}

	inv.Status = entity.InvoiceStatusPaid
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete 删除发票（仅草稿）
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return fmt.Errorf("仅草稿状态可删除，当前状态: %s", inv.Status)
	}
	return s.repo.Delete(ctx, id)
}

// UploadDocument 上传发票附件（multipart → 对象存储）
func (s *InvoiceService) UploadDocument(ctx context.Context, invoiceID, userID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.InvoiceDocument, error) {
	inv, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, fmt.Errorf("对象存储未配置")
	}

	objectName := fmt.Sprintf("invoices/%s/docs/%s%s",
		inv.InvoiceNumber, uuid.New().String()[:8], filepath.Ext(fileName))
	if err := s.store.Put(ctx, objectName, reader, fileSize, contentType); err != nil {
		return nil, fmt.Errorf("上传附件失败: %w", err)
	}

	doc := &entity.InvoiceDocument{
		ID:         uuid.New().String()[:32],
		InvoiceID:  invoiceID,
		FileName:   fileName,
		FilePath:   objectName,
		FileType:   contentType,
		FileSize:   fileSize,
		UploadedBy: userID,
		UploadedAt: time.Now(),
	}
	if err := s.repo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DocumentURL 生成附件临时下载链接
func (s *InvoiceService) DocumentURL(ctx context.Context, objectName string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("对象存储未配置")
	}
	return s.store.PresignedURL(ctx, objectName, 15*time.Minute)
}

var invoiceExportHeaders = []string{
	"Invoice", "Customer", "Date", "Status", "Terms", "Incoterms", "Total", "Currency",
}

// Export 导出发票列表为Excel
func (s *InvoiceService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	items, _, err := s.repo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list invoices: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range invoiceExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.InvoiceNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.CustomerName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.InvoiceDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Status)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.Terms)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Incoterms)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.TotalValue.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.BankCurrency)
	}

	filename := fmt.Sprintf("invoices_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
