package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"gorm.io/gorm"
)

// ForecastRepository 销售预测仓库
type ForecastRepository struct {
	db *gorm.DB
}

func NewForecastRepository(db *gorm.DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

// FindAll 查询预测列表
func (r *ForecastRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SalesForecast, int64, error) {
	var items []entity.SalesForecast
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SalesForecast{})

	if orgID := filters["org_id"]; orgID != "" {
		query = query.Where("org_id = ?", orgID)
	}
	if skuID := filters["sku_id"]; skuID != "" {
		query = query.Where("sku_id = ?", skuID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if week := filters["delivery_week"]; week != "" {
		query = query.Where("delivery_week = ?", week)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("code ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("SKU").
		Order("delivery_week ASC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找预测
func (r *ForecastRepository) FindByID(ctx context.Context, id string) (*entity.SalesForecast, error) {
	var f entity.SalesForecast
	err := r.db.WithContext(ctx).
		Preload("SKU").
		Where("id = ?", id).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindActive 查询所有未取消的预测（风险扫描用）
func (r *ForecastRepository) FindActive(ctx context.Context, orgID string) ([]entity.SalesForecast, error) {
	var items []entity.SalesForecast
	query := r.db.WithContext(ctx).
		Preload("SKU").
		Where("status <> ?", entity.ForecastStatusCancelled)
	if orgID != "" {
		query = query.Where("org_id = ?", orgID)
	}
	err := query.Order("delivery_week ASC").Find(&items).Error
	return items, err
}

// Create 创建预测
func (r *ForecastRepository) Create(ctx context.Context, f *entity.SalesForecast) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// Update 更新预测
func (r *ForecastRepository) Update(ctx context.Context, f *entity.SalesForecast) error {
	return r.db.WithContext(ctx).Save(f).Error
}

// UpdateSignals 仅更新信号字段
func (r *ForecastRepository) UpdateSignals(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.SalesForecast{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 删除预测
func (r *ForecastRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.SalesForecast{}).Error
}

// GenerateCode 生成预测编码 FCST-{year}-{4位}
func (r *ForecastRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("FCST-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.SalesForecast{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "FCST-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("FCST-%s-%04d", year, seq), nil
}
