package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories CPFR仓库集合
type Repositories struct {
	SKU      *SKURepository
	Forecast *ForecastRepository
	PO       *PORepository
	Shipment *ShipmentRepository
}

// NewRepositories 创建CPFR仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		SKU:      NewSKURepository(db),
		Forecast: NewForecastRepository(db),
		PO:       NewPORepository(db),
		Shipment: NewShipmentRepository(db),
	}
}
