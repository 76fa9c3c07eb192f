package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/entity"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/org/repository"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func setupInvitationTest(t *testing.T) (*InvitationService, *repository.Repositories) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewInvitationService(repos.Invitation, repos.Org, repos.User, zap.NewNop())

	testutil.SeedTestOrg(t, db, "org-inv-001", "MTN", entity.OrgTypeOEMPartner)
	return svc, repos
}

func TestCreateAndAcceptInvitation(t *testing.T) {
	svc, repos := setupInvitationTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-001", &CreateInvitationRequest{
		OrgID:        "org-inv-001",
		InvitedEmail: "New.Person@Partner.com",
		InvitedName:  "New Person",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if inv.Status != entity.InvitationStatusPending {
		t.Errorf("expected pending status, got %s", inv.Status)
	}
	if inv.InvitedEmail != "new.person@partner.com" {
		t.Errorf("expected normalized email, got %s", inv.InvitedEmail)
	}
	if inv.InvitedRole != entity.RoleMember {
		t.Errorf("expected default member role, got %s", inv.InvitedRole)
	}
	if len(inv.Token) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(inv.Token))
	}

	user, err := svc.Accept(ctx, &AcceptInvitationRequest{
		Token:    inv.Token,
		Password: "s3cret-passw0rd",
	})
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if user.Email != "new.person@partner.com" {
		t.Errorf("unexpected user email: %s", user.Email)
	}
	if user.OrgID != "org-inv-001" {
		t.Errorf("unexpected org: %s", user.OrgID)
	}
	if user.Name != "New Person" {
		t.Errorf("expected name from invitation, got %s", user.Name)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-passw0rd")); err != nil {
		t.Error("stored password hash does not match")
	}

	stored, err := repos.Invitation.FindByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if stored.Status != entity.InvitationStatusAccepted {
		t.Errorf("expected accepted status, got %s", stored.Status)
	}
	if stored.AcceptedBy == nil || *stored.AcceptedBy != user.ID {
		t.Error("expected accepted_by backfill")
	}

	// Token is single-use
	if _, err := svc.Accept(ctx, &AcceptInvitationRequest{Token: inv.Token, Password: "another-pass1"}); err == nil {
		t.Error("expected error accepting a consumed invitation")
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	svc, repos := setupInvitationTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-001", &CreateInvitationRequest{
		OrgID:        "org-inv-001",
		InvitedEmail: "late@partner.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	inv.ExpiresAt = time.Now().Add(-time.Hour)
	if err := repos.Invitation.Update(ctx, inv); err != nil {
		t.Fatalf("expiry backdate failed: %v", err)
	}

	_, err = svc.Accept(ctx, &AcceptInvitationRequest{Token: inv.Token, Password: "whatever-123"})
	if err == nil || !strings.Contains(err.Error(), "过期") {
		t.Fatalf("expected expiry error, got: %v", err)
	}

	stored, _ := repos.Invitation.FindByID(ctx, inv.ID)
	if stored.Status != entity.InvitationStatusExpired {
		t.Errorf("expected invitation marked expired, got %s", stored.Status)
	}
}

func TestRevokeInvitation(t *testing.T) {
	svc, _ := setupInvitationTest(t)
	ctx := context.Background()

	inv, err := svc.Create(ctx, "admin-001", &CreateInvitationRequest{
		OrgID:        "org-inv-001",
		InvitedEmail: "revoke@partner.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Revoke(ctx, inv.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	// Revoked token cannot be accepted
	if _, err := svc.Accept(ctx, &AcceptInvitationRequest{Token: inv.Token, Password: "whatever-123"}); err == nil {
		t.Error("expected error accepting a revoked invitation")
	}
	// Double revoke rejected
	if err := svc.Revoke(ctx, inv.ID); err == nil {
		t.Error("expected error revoking a non-pending invitation")
	}
}

func TestCreateInvitationRejectsUnknownRole(t *testing.T) {
	svc, _ := setupInvitationTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "admin-001", &CreateInvitationRequest{
		OrgID:        "org-inv-001",
		InvitedEmail: "x@partner.com",
		InvitedRole:  "super_admin",
	})
	if err == nil {
		t.Error("expected error for non-invitable role")
	}
}
