package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/testutil"
	"go.uber.org/zap"
)

func setupShipmentTest(t *testing.T) (*ShipmentService, *repository.Repositories, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewShipmentService(repos.Shipment, repos.Forecast, zap.NewNop())

	testutil.SeedTestSKU(t, db, "sku-shp-001", "MNQ20-BLU", 1)

	forecast := &entity.SalesForecast{
		ID:             "fc-shp-001",
		Code:           "FCST-2026-0001",
		OrgID:          "org-001",
		SKUID:          "sku-shp-001",
		DeliveryWeek:   planning.WeekOf(time.Now().AddDate(0, 6, 0)),
		Quantity:       500,
		ShippingMethod: planning.ShippingAir7Days,
		LeadTimeMode:   "normal",
		BufferDays:     planning.DefaultBufferDays,
		Status:         entity.ForecastStatusSubmitted,
		SalesSignal:    string(planning.SignalSubmitted),
	}
	if err := db.Create(forecast).Error; err != nil {
		t.Fatalf("Failed to seed forecast: %v", err)
	}
	return svc, repos, forecast.ID
}

func TestCreateShipmentInheritsForecast(t *testing.T) {
	svc, _, forecastID := setupShipmentTest(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, "user-001", &CreateShipmentRequest{
		ForecastID: forecastID,
		Carrier:    "Maersk",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(sh.ShipmentCode, "SHP-") {
		t.Errorf("expected SHP- code prefix, got %s", sh.ShipmentCode)
	}
	if sh.ShippingMethod != planning.ShippingAir7Days {
		t.Errorf("expected inherited shipping method, got %s", sh.ShippingMethod)
	}
	if sh.Quantity != 500 {
		t.Errorf("expected inherited quantity 500, got %d", sh.Quantity)
	}
	if sh.OrgID != "org-001" {
		t.Errorf("expected inherited org, got %s", sh.OrgID)
	}
	if sh.Status != entity.ShipmentStatusPending {
		t.Errorf("expected pending status, got %s", sh.Status)
	}
}

func TestShipmentMilestonesSyncForecastSignals(t *testing.T) {
	svc, repos, forecastID := setupShipmentTest(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, "user-001", &CreateShipmentRequest{ForecastID: forecastID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	shippedAt := time.Now()
	sh, err = svc.MarkShipped(ctx, sh.ID, shippedAt)
	if err != nil {
		t.Fatalf("MarkShipped failed: %v", err)
	}
	if sh.Status != entity.ShipmentStatusInTransit {
		t.Errorf("expected in_transit, got %s", sh.Status)
	}
	if sh.EstimatedWarehouseArrival == nil {
		t.Fatal("expected ETA to be computed from transit days")
	}
	wantETA := shippedAt.Add(7 * 24 * time.Hour)
	if sh.EstimatedWarehouseArrival.Sub(wantETA) > time.Minute {
		t.Errorf("ETA mismatch: got %v want %v", sh.EstimatedWarehouseArrival, wantETA)
	}

	f, err := repos.Forecast.FindByID(ctx, forecastID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if f.TransitSignal != string(planning.SignalSubmitted) {
		t.Errorf("expected transit signal submitted after ship, got %s", f.TransitSignal)
	}
	if f.EstimatedWarehouseArrival == nil {
		t.Error("expected forecast ETA backfill")
	}

	sh, err = svc.MarkArrived(ctx, sh.ID, time.Now())
	if err != nil {
		t.Fatalf("MarkArrived failed: %v", err)
	}
	f, _ = repos.Forecast.FindByID(ctx, forecastID)
	if f.TransitSignal != string(planning.SignalConfirmed) {
		t.Errorf("expected transit signal confirmed after arrival, got %s", f.TransitSignal)
	}
	if f.WarehouseSignal != string(planning.SignalSubmitted) {
		t.Errorf("expected warehouse signal submitted after arrival, got %s", f.WarehouseSignal)
	}

	deliveredAt := time.Now()
	sh, err = svc.MarkDelivered(ctx, sh.ID, deliveredAt)
	if err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}
	if sh.Status != entity.ShipmentStatusDelivered {
		t.Errorf("expected delivered status, got %s", sh.Status)
	}
	f, _ = repos.Forecast.FindByID(ctx, forecastID)
	if f.WarehouseSignal != string(planning.SignalConfirmed) {
		t.Errorf("expected warehouse signal confirmed after delivery, got %s", f.WarehouseSignal)
	}
	if f.ConfirmedDeliveryDate == nil {
		t.Error("expected confirmed delivery date backfill")
	}
}

func TestShipmentMilestoneOrderEnforced(t *testing.T) {
	svc, _, forecastID := setupShipmentTest(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, "user-001", &CreateShipmentRequest{ForecastID: forecastID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Cannot arrive before shipping
	if _, err := svc.MarkArrived(ctx, sh.ID, time.Now()); err == nil {
		t.Error("expected error marking arrival on pending shipment")
	}
	// Cannot deliver before arrival
	if _, err := svc.MarkDelivered(ctx, sh.ID, time.Now()); err == nil {
		t.Error("expected error marking delivery on pending shipment")
	}

	if _, err := svc.MarkShipped(ctx, sh.ID, time.Now()); err != nil {
		t.Fatalf("MarkShipped failed: %v", err)
	}
	// Double ship rejected
	if _, err := svc.MarkShipped(ctx, sh.ID, time.Now()); err == nil {
		t.Error("expected error on double ship")
	}
}

func TestCancelDeliveredShipmentRejected(t *testing.T) {
	svc, _, forecastID := setupShipmentTest(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, "user-001", &CreateShipmentRequest{ForecastID: forecastID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.MarkShipped(ctx, sh.ID, time.Now()); err != nil {
		t.Fatalf("MarkShipped failed: %v", err)
	}
	if _, err := svc.MarkArrived(ctx, sh.ID, time.Now()); err != nil {
		t.Fatalf("MarkArrived failed: %v", err)
	}
	if _, err := svc.MarkDelivered(ctx, sh.ID, time.Now()); err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}

	if _, err := svc.Cancel(ctx, sh.ID); err == nil {
		t.Error("expected error cancelling a delivered shipment")
	}
}
