// Package render produces the print-ready HTML preview of the invoice
// draft. Per-line figures come from the totals engine so the preview
// can never disagree with the published totals.
package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strconv"
	"time"

	"github.com/invoiceforge/invoiceforge/internal/currency"
	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
	"github.com/invoiceforge/invoiceforge/internal/draft/totals"
)

const previewHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Number}}</title>
  <style>
    :root {
      --primary: {{.ThemeColor}};
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
      -webkit-font-smoothing: antialiased;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
      border-top: 6px solid var(--primary);
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header-left h1 {
      margin: 0;
      font-size: 24px;
      font-weight: 700;
      color: var(--primary);
    }
    .header-right {
      text-align: right;
      font-weight: 600;
      color: #8792a2;
      font-size: 16px;
    }
    .meta-grid {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .col { flex: 1; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value {
      font-size: 14px;
      line-height: 1.5;
      color: #1a1f36;
    }
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 30px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    td {
      padding: 12px 0;
      border-bottom: 1px solid #e3e8ee;
      font-size: 14px;
      color: #1a1f36;
      vertical-align: top;
    }
    .td-right { text-align: right; }
    .totals {
      width: 100%;
      display: flex;
      flex-direction: column;
      align-items: flex-end;
    }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 280px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-value { color: #1a1f36; text-align: right; font-weight: 500; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
      color: var(--primary);
    }
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
      white-space: pre-line;
    }
  </style>
</head>
<body>
  <div class="invoice-card">
    <div class="header">
      <div class="header-left">
        <h1>Invoice</h1>
        <div class="label" style="margin-top: 12px;">Invoice number</div>
        <div class="value">{{.Number}}</div>
      </div>
      <div class="header-right">
        {{if .LogoDataURL}}
          <img src="{{.LogoDataURL}}" style="max-height: 48px;" alt="{{.BusinessName}}">
        {{else}}
          {{.BusinessName}}
        {{end}}
      </div>
    </div>

    <div class="meta-grid">
      <div class="col">
        <div class="label">From</div>
        <div class="value">
          <strong>{{.BusinessName}}</strong><br>
          {{range .BusinessLines}}{{.}}<br>{{end}}
        </div>
      </div>
      <div class="col">
        <div class="label">Bill to</div>
        <div class="value">
          <strong>{{.CustomerName}}</strong><br>
          {{range .CustomerLines}}{{.}}<br>{{end}}
          {{if .Reference}}<span class="label" style="display:inline;">Ref</span> {{.Reference}}{{end}}
        </div>
      </div>
      <div class="col" style="flex: 0 0 180px;">
        <div class="label">Date issued</div>
        <div class="value">{{.IssueDate}}</div>
        <div class="label" style="margin-top: 16px;">Date due</div>
        <div class="value">{{.DueDate}}</div>
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 40%;">Description</th>
          <th class="td-right">Qty</th>
          <th class="td-right">Unit price</th>
          <th class="td-right">Tax</th>
          <th class="td-right">Discount</th>
          <th class="td-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{.UnitPrice}}</td>
          <td class="td-right">{{.TaxRate}}</td>
          <td class="td-right">{{.Discount}}</td>
          <td class="td-right" style="font-weight: 500;">{{.Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row">
        <span class="total-label">Subtotal</span>
        <span class="total-value">{{.Subtotal}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Discount ({{.DiscountTimingLabel}})</span>
        <span class="total-value">&minus;{{.DiscountTotal}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">Tax</span>
        <span class="total-value">{{.TaxTotal}}</span>
      </div>
      <div class="total-row total-final">
        <span class="total-label" style="color: inherit;">Total due</span>
        <span class="total-value">{{.GrandTotal}}</span>
      </div>
    </div>

    {{if .FooterSections}}
    <div class="footer">
      {{range .FooterSections}}<div class="label">{{.Label}}</div><div class="value" style="margin-bottom: 12px;">{{.Text}}</div>{{end}}
    </div>
    {{end}}
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type itemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	TaxRate     string
	Discount    string
	Amount      string
}

type footerSection struct {
	Label string
	Text  string
}

type previewView struct {
	Number              string
	ThemeColor          string
	BusinessName        string
	LogoDataURL         template.URL
	BusinessLines       []string
	CustomerName        string
	CustomerLines       []string
	Reference           string
	IssueDate           string
	DueDate             string
	Items               []itemView
	Subtotal            string
	DiscountTotal       string
	TaxTotal            string
	GrandTotal          string
	DiscountTimingLabel string
	FooterSections      []footerSection
}

// HTMLRenderer renders the draft preview document.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("preview").Parse(previewHTMLTemplate)),
	}
}

// RenderHTML renders the draft and its totals. The theme color is
// sanitized; anything but a six-digit hex value falls back to the
// default theme.
func (r *HTMLRenderer) RenderHTML(inv domain.Invoice, tot domain.CalculatedTotals) (string, error) {
	view := buildView(inv, tot)

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildView(inv domain.Invoice, tot domain.CalculatedTotals) previewView {
	code := inv.Currency
	money := func(v float64) string {
		return currency.Format(totals.RoundToCents(v), code)
	}

	items := make([]itemView, 0, len(inv.Items))
	for _, item := range inv.Items {
		lb := totals.Line(item, inv.DiscountTiming)
		items = append(items, itemView{
			Description: item.Description,
			Quantity:    trimFloat(item.Quantity.Float()),
			UnitPrice:   money(item.UnitPrice.Float()),
			TaxRate:     trimFloat(item.TaxRatePercent.Float()) + "%",
			Discount:    money(lb.Discount),
			Amount:      money(lb.Total),
		})
	}

	timingLabel := "before tax"
	if inv.DiscountTiming == domain.DiscountAfterTax {
		timingLabel = "after tax"
	}

	businessName := inv.Business.Name
	if businessName == "" {
		businessName = "Invoice"
	}

	var footer []footerSection
	if inv.Payment.Terms != "" {
		footer = append(footer, footerSection{Label: "Payment terms", Text: inv.Payment.Terms})
	}
	if inv.Payment.Methods != "" {
		footer = append(footer, footerSection{Label: "Payment methods", Text: inv.Payment.Methods})
	}
	if inv.Payment.BankDetails != "" {
		footer = append(footer, footerSection{Label: "Bank details", Text: inv.Payment.BankDetails})
	}
	if inv.Payment.Notes != "" {
		footer = append(footer, footerSection{Label: "Notes", Text: inv.Payment.Notes})
	}
	if inv.Payment.TermsAndConditions != "" {
		footer = append(footer, footerSection{Label: "Terms & conditions", Text: inv.Payment.TermsAndConditions})
	}

	return previewView{
		Number:              inv.Number,
		ThemeColor:          sanitizeColor(inv.ThemeColor),
		BusinessName:        businessName,
		// data: URLs are rejected by html/template's URL sanitizer;
		// the logo is the user's own opaque blob, echoed as-is.
		LogoDataURL:         template.URL(inv.Business.LogoDataURL),
		BusinessLines:       contactLines(inv.Business.AddressLine1, inv.Business.AddressLine2, cityLine(inv.Business.City, inv.Business.State, inv.Business.PostalCode), inv.Business.Country, inv.Business.Email, inv.Business.Phone),
		CustomerName:        inv.Customer.DisplayName,
		CustomerLines:       contactLines(inv.Customer.AddressLine1, inv.Customer.AddressLine2, cityLine(inv.Customer.City, inv.Customer.State, inv.Customer.PostalCode), inv.Customer.Country, inv.Customer.Email, inv.Customer.Phone),
		Reference:           inv.Customer.Reference,
		IssueDate:           formatDate(inv.IssueDate),
		DueDate:             formatDate(inv.DueDate),
		Items:               items,
		Subtotal:            money(tot.Subtotal),
		DiscountTotal:       money(tot.DiscountTotal),
		TaxTotal:            money(tot.TaxTotal),
		GrandTotal:          money(tot.GrandTotal),
		DiscountTimingLabel: timingLabel,
		FooterSections:      footer,
	}
}

func sanitizeColor(hex string) string {
	if hexColorPattern.MatchString(hex) {
		return hex
	}
	return domain.DefaultThemeColor
}

func contactLines(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func cityLine(city, state, postal string) string {
	line := city
	if state != "" {
		if line != "" {
			line += ", "
		}
		line += state
	}
	if postal != "" {
		if line != "" {
			line += " "
		}
		line += postal
	}
	return line
}

func formatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2, 2006")
}

// trimFloat renders quantities and rates without trailing zeros:
// 2, 2.5, 7.25.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
