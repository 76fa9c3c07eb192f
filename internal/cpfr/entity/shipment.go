package entity

import "time"

// Shipment 出运记录：跟踪预测从出厂到入库的物流过程
type Shipment struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	ShipmentCode string  `json:"shipment_code" gorm:"size:32;uniqueIndex;not null"` // SHP-{year}-{4位}
	ForecastID   string  `json:"forecast_id" gorm:"size:32;not null;index"`
	POID         *string `json:"po_id" gorm:"size:32;index"`
	OrgID        string  `json:"org_id" gorm:"size:32;not null;index"`

	Status string `json:"status" gorm:"size:20;default:pending"` // pending/in_transit/arrived/delivered/cancelled

	ShippingMethod string `json:"shipping_method" gorm:"size:40"`
	Carrier        string `json:"carrier" gorm:"size:100"`
	TrackingNumber string `json:"tracking_number" gorm:"size:100"`
	ContainerNo    string `json:"container_no" gorm:"size:50"`

	OriginPort      string `json:"origin_port" gorm:"size:100"`
	DestinationPort string `json:"destination_port" gorm:"size:100"`

	Quantity int `json:"quantity"`

	// 里程碑日期
	FactorySignalDate         *time.Time `json:"factory_signal_date"`
	ShippedAt                 *time.Time `json:"shipped_at"`
	EstimatedWarehouseArrival *time.Time `json:"estimated_warehouse_arrival"`
	ActualWarehouseArrival    *time.Time `json:"actual_warehouse_arrival"`
	ConfirmedDeliveryDate     *time.Time `json:"confirmed_delivery_date"`

	Notes string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Forecast *SalesForecast `json:"forecast,omitempty" gorm:"foreignKey:ForecastID"`
}

func (Shipment) TableName() string {
	return "shipments"
}

// 出运状态
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusArrived   = "arrived"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusCancelled = "cancelled"
)
