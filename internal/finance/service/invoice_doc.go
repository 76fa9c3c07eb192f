package service

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/finance/entity"
)

// 审批通过时渲染的发票文档。存储HTML产物，栅格化交给外部服务。
var invoiceDocTmpl = template.Must(template.New("invoice_doc").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Invoice {{.InvoiceNumber}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #111827; max-width: 800px; margin: 0 auto; padding: 32px;">
  <table style="width: 100%;">
    <tr>
      <td><h1 style="margin: 0;">INVOICE</h1></td>
      <td style="text-align: right;">
        <strong>{{.InvoiceNumber}}</strong><br>
        {{.InvoiceDate.Format "2006-01-02"}}
      </td>
    </tr>
  </table>

  <table style="width: 100%; margin-top: 24px;">
    <tr>
      <td style="vertical-align: top;">
        <strong>Bill To</strong><br>
        {{.CustomerName}}<br>
        {{.CustomerAddress}}
      </td>
      <td style="vertical-align: top;">
        <strong>Ship To</strong><br>
        {{.ShipToAddress}}
      </td>
      <td style="vertical-align: top; text-align: right;">
        <strong>Terms:</strong> {{.Terms}}<br>
        <strong>Incoterms:</strong> {{.Incoterms}} {{.IncotermsLocation}}
      </td>
    </tr>
  </table>

  <table style="width: 100%; border-collapse: collapse; margin-top: 24px; font-size: 14px;">
    <thead>
      <tr style="background: #f3f4f6; text-align: left;">
        <th style="padding: 8px; border-bottom: 2px solid #111827;">SKU</th>
        <th style="padding: 8px; border-bottom: 2px solid #111827;">Description</th>
        <th style="padding: 8px; border-bottom: 2px solid #111827; text-align: right;">Qty</th>
        <th style="padding: 8px; border-bottom: 2px solid #111827; text-align: right;">Unit Cost</th>
        <th style="padding: 8px; border-bottom: 2px solid #111827; text-align: right;">Line Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.SKUCode}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.SKUName}}{{if .Description}} — {{.Description}}{{end}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.Quantity}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.UnitCost}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: right;">{{.LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="4" style="padding: 8px; text-align: right;"><strong>Total ({{.BankCurrency}})</strong></td>
        <td style="padding: 8px; text-align: right;"><strong>{{.TotalValue}}</strong></td>
      </tr>
    </tfoot>
  </table>

  {{if .BankName}}
  <div style="margin-top: 32px; font-size: 13px;">
    <strong>Payment Instructions</strong><br>
    Bank: {{.BankName}}{{if .BankCountry}} ({{.BankCountry}}){{end}}<br>
    {{if .BankAccountNumber}}Account: {{.BankAccountNumber}}<br>{{end}}
    {{if .BankRoutingNumber}}Routing: {{.BankRoutingNumber}}<br>{{end}}
    {{if .BankSwiftCode}}SWIFT: {{.BankSwiftCode}}<br>{{end}}
    {{if .BankIban}}IBAN: {{.BankIban}}<br>{{end}}
  </div>
  {{end}}

  {{if .Notes}}
  <p style="margin-top: 24px; font-size: 13px; color: #6b7280;">{{.Notes}}</p>
  {{end}}
</body>
</html>`))

// renderInvoiceDoc 渲染发票文档HTML
func renderInvoiceDoc(inv *entity.Invoice) (string, error) {
	var buf strings.Builder
	if err := invoiceDocTmpl.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("渲染发票文档失败: %w", err)
	}
	return buf.String(), nil
}
