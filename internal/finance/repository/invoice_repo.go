package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// InvoiceRepository 发票仓库
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindAll 查询发票列表
func (r *InvoiceRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Invoice, int64, error) {
	var items []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{})

	if orgID := filters["org_id"]; orgID != "" {
		query = query.Where("org_id = ?", orgID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Order("invoice_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找发票（含行项与附件）
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Documents").
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Create 创建发票（含行项）
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// Update 更新发票
func (r *InvoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// Delete 删除发票及行项、附件
func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceDocument{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Invoice{}).Error
	})
}

// AddDocument 新增发票附件
func (r *InvoiceRepository) AddDocument(ctx context.Context, doc *entity.InvoiceDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GenerateNumber 生成发票号 INV-{year}-{4位}
func (r *InvoiceRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("INV-%s-", year)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.Invoice{}).
		Select("COALESCE(MAX(invoice_number), '')").
		Where("invoice_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber, "INV-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("INV-%s-%04d", year, seq), nil
}
