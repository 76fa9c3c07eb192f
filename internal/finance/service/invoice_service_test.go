package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func setupInvoiceTest(t *testing.T) (*InvoiceService, *repository.InvoiceRepository) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	// 对象存储留空，审批归档路径单独断言
	svc := NewInvoiceService(repo, nil, zap.NewNop())
	return svc, repo
}

func sampleInvoiceRequest() *CreateInvoiceRequest {
	return &CreateInvoiceRequest{
		CustomerName: "Mountain Distribution LLC",
		Terms:        "NET 30",
		Incoterms:    "FOB",
		Items: []CreateInvoiceItem{
			{SKUID: "sku-001", SKUCode: "MNQ15-GRY", SKUName: "MNQ15 Gray", Quantity: 100, UnitCost: decimal.RequireFromString("12.50")},
			{SKUID: "sku-002", SKUCode: "MNB10-BLK", SKUName: "MNB10 Black", Quantity: 40, UnitCost: decimal.RequireFromString("7.25")},
		},
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	svc, _ := setupInvoiceTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "org-001", "user-001", sampleInvoiceRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") {
		t.Errorf("invoice number = %s, want INV- prefix", inv.InvoiceNumber)
	}
	if inv.Status != entity.InvoiceStatusDraft {
		t.Errorf("status = %s, want draft", inv.Status)
	}
	if inv.BankCurrency != "USD" {
		t.Errorf("currency = %s, want USD default", inv.BankCurrency)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(inv.Items))
	}
	if want := decimal.RequireFromString("1250"); !inv.Items[0].LineTotal.Equal(want) {
		t.Errorf("line total = %s, want %s", inv.Items[0].LineTotal, want)
	}
	if want := decimal.RequireFromString("1540"); !inv.TotalValue.Equal(want) {
		t.Errorf("total = %s, want %s", inv.TotalValue, want)
	}
}

func TestCreateInvoiceValidatesItems(t *testing.T) {
	svc, _ := setupInvoiceTest(t)
	ctx := context.Background()

	req := sampleInvoiceRequest()
	req.Items = nil
	if _, err := svc.Create(ctx, "org-001", "user-001", req); err == nil {
		t.Error("expected error for invoice without line items")
	}

	req = sampleInvoiceRequest()
	req.Items[0].Quantity = 0
	if _, err := svc.Create(ctx, "org-001", "user-001", req); err == nil {
		t.Error("expected error for non-positive quantity")
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	svc, _ := setupInvoiceTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "org-001", "user-001", sampleInvoiceRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 草稿不可审批、不可标记付款
	if _, err := svc.Approve(ctx, inv.ID, "admin-001"); err == nil {
		t.Error("expected error approving a draft invoice")
	}
	if _, err := svc.MarkPaid(ctx, inv.ID); err == nil {
		t.Error("expected error marking a draft invoice paid")
	}

	if _, err := svc.Submit(ctx, inv.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, inv.ID); err == nil {
		t.Error("expected error re-submitting a submitted invoice")
	}

	// 驳回后可重新提交
	if _, err := svc.Reject(ctx, inv.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	resubmitted, err := svc.Submit(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Submit after reject: %v", err)
	}
	if resubmitted.Status != entity.InvoiceStatusSubmitted {
		t.Errorf("status = %s, want submitted", resubmitted.Status)
	}
}

func TestApproveWithoutObjectStoreKeepsStatus(t *testing.T) {
	svc, repo := setupInvoiceTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "org-001", "user-001", sampleInvoiceRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Submit(ctx, inv.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Approve(ctx, inv.ID, "admin-001"); err == nil {
		t.Fatal("expected error approving without object storage")
	}

	stored, err := repo.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != entity.InvoiceStatusSubmitted {
		t.Errorf("status = %s, want submitted untouched after failed approve", stored.Status)
	}
	if stored.ApprovedBy != nil || stored.ApprovedDocPath != "" {
		t.Error("approval fields must stay empty when the pipeline fails")
	}
}

func TestDeleteInvoiceOnlyDraft(t *testing.T) {
	svc, _ := setupInvoiceTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "org-001", "user-001", sampleInvoiceRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Submit(ctx, inv.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := svc.Delete(ctx, inv.ID); err == nil {
		t.Error("expected error deleting a submitted invoice")
	}
}
