package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
)

// ActionItem 行动项邮件中的一条风险预测
type ActionItem struct {
	ForecastCode      string
	SKU               string
	SKUName           string
	DeliveryWeek      string
	Quantity          int
	Status            string
	RiskLevel         string
	DaysUntilDelivery int
}

// riskColor 风险等级对应的颜色
func (a ActionItem) riskColor() string {
	switch a.RiskLevel {
	case "HIGH":
		return "#dc2626"
	case "MEDIUM":
		return "#d97706"
	default:
		return "#16a34a"
	}
}

var actionItemsTmpl = template.Must(template.New("action_items").Funcs(template.FuncMap{
	"riskColor": ActionItem.riskColor,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>CPFR Action Items</title>
</head>
<body style="font-family: Arial, sans-serif; color: #111827; max-width: 720px; margin: 0 auto;">
  <div style="background: #1e3a8a; color: #ffffff; padding: 24px; border-radius: 6px 6px 0 0;">
    <h1 style="margin: 0; font-size: 22px;">CPFR Action Items Required</h1>
    <p style="margin: 8px 0 0 0; opacity: 0.9;">Work-Backwards Timeline Analysis &amp; Critical Actions</p>
  </div>
  <div style="padding: 24px; border: 1px solid #e5e7eb; border-top: none;">
    <p>{{len .Items}} forecast(s) need attention. Review the delivery timelines below and confirm or escalate.</p>
    <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
      <thead>
        <tr style="background: #f3f4f6; text-align: left;">
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Forecast</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">SKU</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Delivery Week</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Qty</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Days Left</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Risk</th>
          <th style="padding: 8px; border-bottom: 2px solid #e5e7eb;">Status</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.ForecastCode}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.SKU}}{{if .SKUName}} &mdash; {{.SKUName}}{{end}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.DeliveryWeek}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Quantity}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.DaysUntilDelivery}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; color: {{riskColor .}}; font-weight: bold;">{{.RiskLevel}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Status}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <p style="margin-top: 24px;">
      <a href="{{.PortalURL}}/cpfr/forecasts" style="background: #1e3a8a; color: #ffffff; padding: 10px 18px; border-radius: 4px; text-decoration: none;">Review in Portal</a>
    </p>
    <p style="color: #6b7280; font-size: 12px; margin-top: 24px;">
      This analysis is generated from realistic shipping and lead time parameters to replace optimistic sales forecasts with actionable CPFR timelines.
    </p>
  </div>
</body>
</html>`))

// PortalURL 行动项邮件底部链接的门户地址，可在启动时覆盖
var PortalURL = "https://bdibusinessportal.com"

// SendActionItems 渲染并发送行动项邮件
func (c *Client) SendActionItems(ctx context.Context, to []string, items []ActionItem) error {
	if len(items) == 0 {
		return nil
	}

	var buf strings.Builder
	err := actionItemsTmpl.Execute(&buf, map[string]interface{}{
		"Items":     items,
		"PortalURL": PortalURL,
	})
	if err != nil {
		return fmt.Errorf("渲染行动项邮件失败: %w", err)
	}

	subject := fmt.Sprintf("CPFR Action Items: %d forecast(s) at risk", len(items))
	return c.Send(ctx, &Message{
		To:      to,
		Subject: subject,
		HTML:    buf.String(),
	})
}
