package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Invitation 邀请邮件内容
type Invitation struct {
	OrgName     string
	InvitedName string
	Role        string
	AcceptURL   string
	ExpiresAt   time.Time
}

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>You're invited to BDI Business Portal</title>
</head>
<body style="margin:0;padding:0;background:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:560px;margin:24px auto;background:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#1e3a8a;color:#ffffff;padding:24px;">
      <h1 style="margin:0;font-size:20px;">BDI Business Portal</h1>
      <p style="margin:8px 0 0;font-size:14px;color:#bfdbfe;">Organization Invitation</p>
    </div>
    <div style="padding:24px;color:#111827;font-size:14px;line-height:1.6;">
      <p>Hi {{.InvitedName}},</p>
      <p><strong>{{.OrgName}}</strong> has invited you to join the BDI Business Portal
        as <strong>{{.Role}}</strong>. You will get access to collaborative forecasts,
        shipments and delivery timelines shared with your organization.</p>
      <p style="text-align:center;margin:28px 0;">
        <a href="{{.AcceptURL}}"
           style="background:#1e3a8a;color:#ffffff;padding:12px 28px;border-radius:6px;text-decoration:none;font-weight:bold;">
          Accept Invitation</a>
      </p>
      <p style="color:#6b7280;font-size:12px;">This invitation expires on
        {{.ExpiresAt.Format "Jan 2, 2006"}}. If you were not expecting it, you can
        safely ignore this email.</p>
    </div>
    <div style="padding:16px 24px;background:#f9fafb;color:#9ca3af;font-size:11px;">
      Boundless Devices Inc — CPFR Supply Chain Portal
    </div>
  </div>
</body>
</html>`))

// SendInvitation 发送组织邀请邮件
func (c *Client) SendInvitation(ctx context.Context, to string, inv Invitation) error {
	var buf strings.Builder
	if err := invitationTmpl.Execute(&buf, inv); err != nil {
		return fmt.Errorf("渲染邀请邮件失败: %w", err)
	}

	return c.Send(ctx, &Message{
		To:      []string{to},
		Subject: fmt.Sprintf("You're invited to join %s on BDI Business Portal", inv.OrgName),
		HTML:    buf.String(),
	})
}
