package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T, status int, capture *Message) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if capture != nil {
			json.Unmarshal(body, capture)
		}
		w.WriteHeader(status)
		if status >= 400 {
			w.Write([]byte(`{"name":"validation_error","message":"invalid from address"}`))
		} else {
			w.Write([]byte(`{"id":"email-001"}`))
		}
	}))
}

func TestSendFillsDefaultFrom(t *testing.T) {
	var got Message
	srv := newTestServer(t, 200, &got)
	defer srv.Close()

	c := New(Config{APIKey: "test-key", From: "BDI Portal <cpfr@test.com>", BaseURL: srv.URL})
	err := c.Send(context.Background(), &Message{
		To:      []string{"ops@test.com"},
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.From != "BDI Portal <cpfr@test.com>" {
		t.Errorf("expected default from, got %s", got.From)
	}
}

func TestSendRejectsEmptyRecipients(t *testing.T) {
	c := New(Config{APIKey: "test-key", From: "a@b.com"})
	if err := c.Send(context.Background(), &Message{Subject: "x"}); err == nil {
		t.Error("expected error for empty recipients")
	}
}

func TestSendSurfacesAPIError(t *testing.T) {
	srv := newTestServer(t, 422, nil)
	defer srv.Close()

	c := New(Config{APIKey: "test-key", From: "a@b.com", BaseURL: srv.URL})
	err := c.Send(context.Background(), &Message{To: []string{"x@y.com"}, Subject: "x"})
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "invalid from address") {
		t.Errorf("expected API message in error, got: %v", err)
	}
}

func TestSendActionItemsRendersRows(t *testing.T) {
	var got Message
	srv := newTestServer(t, 200, &got)
	defer srv.Close()

	c := New(Config{APIKey: "test-key", From: "a@b.com", BaseURL: srv.URL})
	items := []ActionItem{
		{ForecastCode: "FCST-2026-0001", SKU: "MNQ15-GRY", SKUName: "MNQ15 Gray",
			DeliveryWeek: "2026-W40", Quantity: 500, Status: "at_risk",
			RiskLevel: "HIGH", DaysUntilDelivery: 12},
		{ForecastCode: "FCST-2026-0002", SKU: "MNQ20-BLU", SKUName: "MNQ20 Blue",
			DeliveryWeek: "2026-W42", Quantity: 200, Status: "reviewing",
			RiskLevel: "MEDIUM", DaysUntilDelivery: 26},
	}

	if err := c.SendActionItems(context.Background(), []string{"ops@test.com"}, items); err != nil {
		t.Fatalf("SendActionItems failed: %v", err)
	}
	if !strings.Contains(got.Subject, "2 forecast(s) at risk") {
		t.Errorf("unexpected subject: %s", got.Subject)
	}
	for _, want := range []string{"FCST-2026-0001", "MNQ20-BLU", "2026-W40", "#dc2626", "#d97706"} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestSendActionItemsSkipsWhenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty item list")
	}))
	defer srv.Close()

	c := New(Config{APIKey: "test-key", From: "a@b.com", BaseURL: srv.URL})
	if err := c.SendActionItems(context.Background(), []string{"ops@test.com"}, nil); err != nil {
		t.Fatalf("expected silent no-op, got: %v", err)
	}
}

func TestSendInvitation(t *testing.T) {
	var got Message
	srv := newTestServer(t, 200, &got)
	defer srv.Close()

	c := New(Config{APIKey: "test-key", From: "a@b.com", BaseURL: srv.URL})
	err := c.SendInvitation(context.Background(), "new@partner.com", Invitation{
		OrgName:     "MTN Manufacturing",
		InvitedName: "Alex",
		Role:        "member",
		AcceptURL:   "https://portal.test/invitations/accept?token=abc123",
		ExpiresAt:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}
	if got.To[0] != "new@partner.com" {
		t.Errorf("unexpected recipient: %v", got.To)
	}
	if !strings.Contains(got.Subject, "MTN Manufacturing") {
		t.Errorf("unexpected subject: %s", got.Subject)
	}
	for _, want := range []string{"token=abc123", "Sep 7, 2026", "member"} {
		if !strings.Contains(got.HTML, want) {
			t.Errorf("rendered invitation missing %q", want)
		}
	}
}
