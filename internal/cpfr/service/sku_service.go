package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// SKUService SKU服务
type SKUService struct {
	repo *repository.SKURepository
	rdb  *redis.Client
}

func NewSKUService(repo *repository.SKURepository, rdb *redis.Client) *SKUService {
	return &SKUService{repo: repo, rdb: rdb}
}

// List 获取SKU列表
func (s *SKUService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.ProductSKU, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取SKU详情
func (s *SKUService) Get(ctx context.Context, id string) (*entity.ProductSKU, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateSKURequest 创建SKU请求
type CreateSKURequest struct {
	SKU           string     `json:"sku" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	SKUCode3Digit string     `json:"sku_code_3_digit"`
	Category      string     `json:"category"`
	Mfg           string     `json:"mfg"`
	MOQ           int        `json:"moq"`
	LeadTimeDays  *int       `json:"lead_time_days"`
	MPStartDate   *time.Time `json:"mp_start_date"`
	HTSCode        string     `json:"hts_code"`
	BoxLengthCm    *float64   `json:"box_length_cm"`
	BoxWidthCm     *float64   `json:"box_width_cm"`
	BoxHeightCm    *float64   `json:"box_height_cm"`
	BoxWeightKg    *float64   `json:"box_weight_kg"`
	BoxesPerCarton *int       `json:"boxes_per_carton"`
}

// Create 创建SKU
func (s *SKUService) Create(ctx context.Context, userID string, req *CreateSKURequest) (*entity.ProductSKU, error) {
	if existing, err := s.repo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, fmt.Errorf("SKU编码已存在: %s", req.SKU)
	}

	moq := req.MOQ
	if moq <= 0 {
		moq = 1
	}

	sku := &entity.ProductSKU{
		ID:            uuid.New().String()[:32],
		SKU:           req.SKU,
		Name:          req.Name,
		SKUCode3Digit: req.SKUCode3Digit,
		Category:      req.Category,
		Mfg:           req.Mfg,
		MOQ:           moq,
		LeadTimeDays:  req.LeadTimeDays,
		MPStartDate:   req.MPStartDate,
		HTSCode:        req.HTSCode,
		IsActive:       true,
		BoxLengthCm:    req.BoxLengthCm,
		BoxWidthCm:     req.BoxWidthCm,
		BoxHeightCm:    req.BoxHeightCm,
		BoxWeightKg:    req.BoxWeightKg,
		BoxesPerCarton: req.BoxesPerCarton,
		CreatedBy:      userID,
	}

	if err := s.repo.Create(ctx, sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// UpdateSKURequest 更新SKU请求
type UpdateSKURequest struct {
	Name           *string    `json:"name"`
	Category       *string    `json:"category"`
	Mfg            *string    `json:"mfg"`
	MOQ            *int       `json:"moq"`
	LeadTimeDays   *int       `json:"lead_time_days"`
	MPStartDate    *time.Time `json:"mp_start_date"`
	HTSCode        *string    `json:"hts_code"`
	IsActive       *bool      `json:"is_active"`
	IsDiscontinued *bool      `json:"is_discontinued"`
	ReplacementSKU *string    `json:"replacement_sku"`
}

// Update 更新SKU
func (s *SKUService) Update(ctx context.Context, id string, req *UpdateSKURequest) (*entity.ProductSKU, error) {
	sku, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sku.Name = *req.Name
	}
	if req.Category != nil {
		sku.Category = *req.Category
	}
	if req.Mfg != nil {
		sku.Mfg = *req.Mfg
	}
	if req.MOQ != nil && *req.MOQ > 0 {
		sku.MOQ = *req.MOQ
	}
	if req.LeadTimeDays != nil {
		sku.LeadTimeDays = req.LeadTimeDays
	}
	if req.MPStartDate != nil {
		sku.MPStartDate = req.MPStartDate
	}
	if req.HTSCode != nil {
		sku.HTSCode = *req.HTSCode
	}
	if req.IsActive != nil {
		sku.IsActive = *req.IsActive
	}
	if req.IsDiscontinued != nil {
		sku.IsDiscontinued = *req.IsDiscontinued
		if *req.IsDiscontinued {
			sku.IsActive = false
		}
	}
	if req.ReplacementSKU != nil {
		sku.ReplacementSKU = req.ReplacementSKU
	}

	if err := s.repo.Update(ctx, sku); err != nil {
		return nil, err
	}
	return sku, nil
}

// Delete 删除SKU
func (s *SKUService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var skuExportHeaders = []string{
	"SKU", "Name", "Category", "Mfg", "MOQ", "Lead Time (days)",
	"MP Start Date", "HTS Code", "Active", "Boxes/Carton",
}

// Export 导出SKU列表为Excel
func (s *SKUService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	items, _, err := s.repo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list skus: %w", err)
	}

	f := excelize.NewFile()
	sheet := "SKUs"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range skuExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.SKU)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.Mfg)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.MOQ)
		if item.LeadTimeDays != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *item.LeadTimeDays)
		}
		if item.MPStartDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), item.MPStartDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.HTSCode)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.IsActive)
		if item.BoxesPerCarton != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *item.BoxesPerCarton)
		}
	}

	filename := fmt.Sprintf("skus_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
