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

func setupForecastTest(t *testing.T) (*ForecastService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewForecastService(repos.Forecast, repos.SKU, nil, zap.NewNop())

	testutil.SeedTestSKU(t, db, "sku-fc-001", "MNQ15-GRY", 100)
	return svc, repos
}

// farWeek returns a delivery week comfortably beyond any lead+shipping horizon.
func farWeek() string {
	return planning.WeekOf(time.Now().AddDate(0, 8, 0))
}

func TestCreateForecastEnforcesMOQ(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       50,
		ShippingMethod: planning.ShippingSeaAsiaUSWest,
	})
	if err == nil {
		t.Fatal("expected MOQ error for quantity below minimum")
	}
	if !strings.Contains(err.Error(), "最小起订量") {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       50,
		MOQOverride:    true,
		ShippingMethod: planning.ShippingSeaAsiaUSWest,
	})
	if err != nil {
		t.Fatalf("Create with MOQ override failed: %v", err)
	}
	if !strings.HasPrefix(view.Code, "FCST-") {
		t.Errorf("expected FCST- code prefix, got %s", view.Code)
	}
	if view.SalesSignal != string(planning.SignalDraft) {
		t.Errorf("expected sales signal draft, got %s", view.SalesSignal)
	}
	if view.FactorySignal != string(planning.SignalUnknown) {
		t.Errorf("expected factory signal unknown, got %s", view.FactorySignal)
	}
	if view.Status != entity.ForecastStatusDraft {
		t.Errorf("expected draft status, got %s", view.Status)
	}
}

func TestCreateForecastRejectsInfeasibleWeek(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	// Next week can never fit 30 days lead + 45 days sea transit
	nearWeek := planning.WeekOf(time.Now().AddDate(0, 0, 7))
	_, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   nearWeek,
		Quantity:       200,
		ShippingMethod: planning.ShippingSeaAsiaUSWest,
	})
	if err == nil {
		t.Fatal("expected infeasible week error")
	}
	if !strings.Contains(err.Error(), "不可行") {
		t.Fatalf("unexpected error: %v", err)
	}
	// The error should propose the earliest feasible week
	if !strings.Contains(err.Error(), "最早可行周") {
		t.Fatalf("expected next feasible week suggestion, got: %v", err)
	}
}

func TestCreateForecastBypassShippingAlwaysFeasible(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	nearWeek := planning.WeekOf(time.Now().AddDate(0, 0, 7))
	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   nearWeek,
		Quantity:       200,
		ShippingMethod: planning.ShippingZeroLagSameDay,
	})
	if err != nil {
		t.Fatalf("zero-lag shipping should bypass feasibility: %v", err)
	}
	if view.DeliveryWeek != nearWeek {
		t.Errorf("delivery week mismatch: %s", view.DeliveryWeek)
	}
}

func TestSubmitForecast(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       200,
		ShippingMethod: planning.ShippingAir14Days,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	submitted, err := svc.Submit(ctx, view.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.Status != entity.ForecastStatusSubmitted {
		t.Errorf("expected submitted status, got %s", submitted.Status)
	}
	if submitted.SalesSignal != string(planning.SignalSubmitted) {
		t.Errorf("expected sales signal submitted, got %s", submitted.SalesSignal)
	}

	// Re-submit rejected
	if _, err := svc.Submit(ctx, view.ID); err == nil {
		t.Error("expected error on double submit")
	}
}

func TestUpdateSignalsOrgAuthorization(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       200,
		ShippingMethod: planning.ShippingSeaAsiaUSWest,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	submitted := string(planning.SignalSubmitted)
	reviewing := string(planning.SignalReviewing)
	draft := string(planning.SignalDraft)

	// Internal org cannot touch the factory signal
	_, err = svc.UpdateSignals(ctx, view.ID, "internal", "member", &UpdateSignalsRequest{
		FactorySignal: &submitted,
	})
	if err == nil || !strings.Contains(err.Error(), "无权") {
		t.Fatalf("expected authorization error, got: %v", err)
	}

	// OEM partner owns the factory signal
	updated, err := svc.UpdateSignals(ctx, view.ID, "oem_partner", "member", &UpdateSignalsRequest{
		FactorySignal: &reviewing,
	})
	if err != nil {
		t.Fatalf("factory signal update by oem_partner failed: %v", err)
	}
	if updated.FactorySignal != reviewing {
		t.Errorf("expected factory signal reviewing, got %s", updated.FactorySignal)
	}

	// draft is a sales-only value, illegal on factory regardless of org
	_, err = svc.UpdateSignals(ctx, view.ID, "oem_partner", "member", &UpdateSignalsRequest{
		FactorySignal: &draft,
	})
	if err == nil || !strings.Contains(err.Error(), "非法") {
		t.Fatalf("expected illegal value error, got: %v", err)
	}

	// Admin bypasses org-type ownership
	confirmed := string(planning.SignalConfirmed)
	updated, err = svc.UpdateSignals(ctx, view.ID, "internal", "admin", &UpdateSignalsRequest{
		FactorySignal: &confirmed,
	})
	if err != nil {
		t.Fatalf("admin signal update failed: %v", err)
	}
	if updated.FactorySignal != confirmed {
		t.Errorf("expected factory signal confirmed, got %s", updated.FactorySignal)
	}
}

func TestUpdateSignalsRequiresFields(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       200,
		ShippingMethod: planning.ShippingAir7Days,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.UpdateSignals(ctx, view.ID, "internal", "admin", &UpdateSignalsRequest{}); err == nil {
		t.Error("expected error when no signal fields provided")
	}
}

func TestUpdateBlockedWhenCommitted(t *testing.T) {
	svc, repos := setupForecastTest(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       200,
		ShippingMethod: planning.ShippingAir7Days,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	f, err := repos.Forecast.FindByID(ctx, view.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	f.Status = entity.ForecastStatusCommitted
	if err := repos.Forecast.Update(ctx, f); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	qty := 500
	if _, err := svc.Update(ctx, view.ID, &UpdateForecastRequest{Quantity: &qty}); err == nil {
		t.Error("expected update to be blocked for committed forecast")
	}
}

func TestUpdateDeliveryWeekImmutable(t *testing.T) {
	svc, _ := setupForecastTest(t)
	ctx := context.Background()

	week := farWeek()
	view, err := svc.Create(ctx, "org-001", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   week,
		Quantity:       200,
		ShippingMethod: planning.ShippingAir7Days,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// 换周被拒，草稿也一样
	other := planning.WeekOf(time.Now().AddDate(0, 9, 0))
	if _, err := svc.Update(ctx, view.ID, &UpdateForecastRequest{DeliveryWeek: &other}); err == nil {
		t.Fatal("expected error changing delivery week on a persisted forecast")
	} else if !strings.Contains(err.Error(), "不可修改") {
		t.Fatalf("unexpected error: %v", err)
	}

	// 原值随负载回传是无操作，其余字段照常更新
	qty := 300
	updated, err := svc.Update(ctx, view.ID, &UpdateForecastRequest{DeliveryWeek: &week, Quantity: &qty})
	if err != nil {
		t.Fatalf("Update with unchanged week failed: %v", err)
	}
	if updated.DeliveryWeek != week {
		t.Errorf("delivery week = %s, want %s", updated.DeliveryWeek, week)
	}
	if updated.Quantity != 300 {
		t.Errorf("quantity = %d, want 300", updated.Quantity)
	}
}

func TestAtRiskListWithoutCache(t *testing.T) {
	svc, repos := setupForecastTest(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "org-002", "user-001", &CreateForecastRequest{
		SKUID:          "sku-fc-001",
		DeliveryWeek:   farWeek(),
		Quantity:       200,
		ShippingMethod: planning.ShippingSeaAsiaUSWest,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Shrink the window below lead+transit+buffer so the risk scan flags it
	f, err := repos.Forecast.FindByID(ctx, view.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	f.DeliveryWeek = planning.WeekOf(time.Now().AddDate(0, 0, 30))
	if err := repos.Forecast.Update(ctx, f); err != nil {
		t.Fatalf("delivery week update failed: %v", err)
	}

	atRisk, err := svc.AtRiskList(ctx, "org-002")
	if err != nil {
		t.Fatalf("AtRiskList failed: %v", err)
	}
	if len(atRisk) != 1 {
		t.Fatalf("expected 1 at-risk forecast, got %d", len(atRisk))
	}
	if atRisk[0].ID != view.ID {
		t.Errorf("unexpected at-risk forecast: %s", atRisk[0].ID)
	}
}
