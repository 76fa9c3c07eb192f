package repository

import (
	"context"
	"errors"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"gorm.io/gorm"
)

// SKURepository SKU仓库
type SKURepository struct {
	db *gorm.DB
}

func NewSKURepository(db *gorm.DB) *SKURepository {
	return &SKURepository{db: db}
}

// FindAll 查询SKU列表
func (r *SKURepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProductSKU, int64, error) {
	var items []entity.ProductSKU
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ProductSKU{})

	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if mfg := filters["mfg"]; mfg != "" {
		query = query.Where("mfg = ?", mfg)
	}
	if active := filters["is_active"]; active != "" {
		query = query.Where("is_active = ?", active == "true")
	}
	if search := filters["search"]; search != "" {
		query = query.Where("sku ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("sku ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找SKU
func (r *SKURepository) FindByID(ctx context.Context, id string) (*entity.ProductSKU, error) {
	var sku entity.ProductSKU
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindBySKU 根据SKU编码查找
func (r *SKURepository) FindBySKU(ctx context.Context, code string) (*entity.ProductSKU, error) {
	var sku entity.ProductSKU
	err := r.db.WithContext(ctx).Where("sku = ?", code).First(&sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// Create 创建SKU
func (r *SKURepository) Create(ctx context.Context, sku *entity.ProductSKU) error {
	return r.db.WithContext(ctx).Create(sku).Error
}

// Update 更新SKU
func (r *SKURepository) Update(ctx context.Context, sku *entity.ProductSKU) error {
	return r.db.WithContext(ctx).Save(sku).Error
}

// Delete 删除SKU（存在关联预测时禁止）
func (r *SKURepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.SalesForecast{}).Where("sku_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("SKU已被预测引用，无法删除")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProductSKU{}).Error
}
