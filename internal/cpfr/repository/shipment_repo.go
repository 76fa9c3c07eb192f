package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"gorm.io/gorm"
)

// ShipmentRepository 出运仓库
type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// FindAll 查询出运列表
func (r *ShipmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Shipment, int64, error) {
	var items []entity.Shipment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Shipment{})

	if orgID := filters["org_id"]; orgID != "" {
		query = query.Where("org_id = ?", orgID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if forecastID := filters["forecast_id"]; forecastID != "" {
		query = query.Where("forecast_id = ?", forecastID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("shipment_code ILIKE ? OR tracking_number ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Forecast").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找出运记录
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.db.WithContext(ctx).
		Preload("Forecast").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create 创建出运记录
func (r *ShipmentRepository) Create(ctx context.Context, s *entity.Shipment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update 更新出运记录
func (r *ShipmentRepository) Update(ctx context.Context, s *entity.Shipment) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete 删除出运记录
func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Shipment{}).Error
}

// GenerateCode 生成出运编码 SHP-{year}-{4位}
func (r *ShipmentRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("SHP-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Shipment{}).
		Select("COALESCE(MAX(shipment_code), '')").
		Where("shipment_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "SHP-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("SHP-%s-%04d", year, seq), nil
}
