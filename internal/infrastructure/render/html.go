package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

// HTMLRenderer produces the on-screen invoice preview markup. It is a
// pure function of its inputs: the same document and options always
// yield byte-identical output, which is what makes the browser capture
// path reproducible.
type HTMLRenderer struct {
	tmpl     *template.Template
	currency *CurrencyFormatter
}

// HTMLOptions carries per-render inputs that are not part of the
// document itself.
type HTMLOptions struct {
	// LogoURL is the resolved image source for the document's logo.
	// Empty means no logo block is rendered even if a logo image is
	// attached.
	LogoURL string
}

// NewHTMLRenderer creates the preview renderer. A nil formatter falls
// back to English locale formatting.
func NewHTMLRenderer(currency *CurrencyFormatter) *HTMLRenderer {
	if currency == nil {
		currency = NewCurrencyFormatter("en")
	}
	return &HTMLRenderer{tmpl: previewTemplate, currency: currency}
}

// Render produces the full preview document. Sections hidden by the
// document's visibility settings are omitted from the markup entirely,
// not hidden with CSS.
func (r *HTMLRenderer) Render(doc *studio.Document, opts HTMLOptions) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}

	view := r.buildView(doc, opts)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "preview template execution failed", err)
	}
	return buf.String(), nil
}

type elementView struct {
	Lines []string
	Style template.CSS
}

type pairView struct {
	Label      string
	Value      string
	LabelStyle template.CSS
	ValueStyle template.CSS
}

type cellView struct {
	Text  string
	Style template.CSS
}

type totalView struct {
	Label      string
	Value      string
	LabelStyle template.CSS
	ValueStyle template.CSS
}

type tableView struct {
	Style     template.CSS
	HeadStyle template.CSS
	Headers   []cellView
	Rows      [][]cellView
}

type documentView struct {
	PageSize    string
	RootStyle   template.CSS
	HeaderClass string
	LogoURL     template.URL
	Title       elementView
	Meta        []pairView
	Seller      *elementView
	Client      *elementView
	Table       tableView
	Totals      []totalView
	Terms       *elementView
	ShowFooter  bool
}

func (r *HTMLRenderer) buildView(doc *studio.Document, opts HTMLOptions) documentView {
	tokens := doc.Tokens.Normalize()
	spacing := ComputeSpacing(tokens.SpacingScale)

	accent := tokens.AccentColorHex
	if !design.IsHexColor(accent) {
		accent = design.DefaultTokenSet().AccentColorHex
	}
	borderColor := doc.Table.BorderColor
	if !design.IsHexColor(borderColor) {
		borderColor = "#e5e7eb"
	}

	rootStyle := fmt.Sprintf(
		"--accent-color:%s;--border-color:%s;--section-gap:%gpx;--cell-pad:%gpx;font-family:%s;font-size:%gpx;color:%s;padding:%gpx;background:#ffffff",
		accent, borderColor, spacing.SectionGap, spacing.CellPad,
		FontStack(tokens.FontFamily), BaseSizePx(tokens.BaseTextSize),
		defaultTextColor, spacing.PagePad,
	)

	view := documentView{
		PageSize:    tokens.PageSize.String(),
		RootStyle:   template.CSS(rootStyle),
		HeaderClass: "header logo-" + tokens.LogoPosition.String(),
		Title:       textElement(doc.Title),
		Meta: []pairView{
			labeledPair(doc.InvoiceNo),
			labeledPair(doc.IssueDate),
			labeledPair(doc.DueDate),
		},
		Table:      r.buildTable(doc, tokens, borderColor, spacing),
		Totals:     r.buildTotals(doc),
		ShowFooter: doc.Visibility.Footer,
	}

	if opts.LogoURL != "" {
		view.LogoURL = template.URL(opts.LogoURL)
	}
	if doc.Visibility.CompanyDetails {
		v := textElement(doc.Seller)
		view.Seller = &v
	}
	if doc.Visibility.ClientDetails {
		v := textElement(doc.Client)
		view.Client = &v
	}
	if doc.Visibility.Terms && strings.TrimSpace(doc.Terms.Value) != "" {
		v := textElement(doc.Terms)
		view.Terms = &v
	}
	return view
}

func (r *HTMLRenderer) buildTable(doc *studio.Document, tokens design.TokenSet, borderColor string, spacing Spacing) tableView {
	border := BorderCSS(tokens.BorderStyle, borderColor)

	tableStyle := fmt.Sprintf("width:100%%;border-collapse:collapse;background:%s", safeHex(doc.Table.BackgroundColor, "#ffffff"))
	headStyle := template.CSS("border-bottom:" + border)

	cell := func(text string, s design.TextSettings) cellView {
		css := ComputeText(s).CSS() + ";padding:" + fmt.Sprintf("%gpx", spacing.CellPad)
		if border != "none" {
			css += ";border-bottom:" + border
		}
		return cellView{Text: text, Style: template.CSS(css)}
	}

	t := tableView{
		Style:     template.CSS(tableStyle),
		HeadStyle: headStyle,
		Headers: []cellView{
			cell(doc.Table.DescriptionHeaderSettings.Label, doc.Table.DescriptionHeaderSettings.TextSettings),
			cell(doc.Table.QuantityHeaderSettings.Label, doc.Table.QuantityHeaderSettings.TextSettings),
			cell(doc.Table.UnitPriceHeaderSettings.Label, doc.Table.UnitPriceHeaderSettings.TextSettings),
			cell(doc.Table.AmountHeaderSettings.Label, doc.Table.AmountHeaderSettings.TextSettings),
		},
	}

	for _, item := range doc.Items {
		t.Rows = append(t.Rows, []cellView{
			cell(item.Description, doc.Table.DescriptionRowSettings),
			cell(item.Quantity.String(), doc.Table.QuantityRowSettings),
			cell(r.currency.Format(item.UnitPrice, doc.Currency), doc.Table.UnitPriceRowSettings),
			cell(r.currency.Format(item.Amount, doc.Currency), doc.Table.AmountRowSettings),
		})
	}
	return t
}

func (r *HTMLRenderer) buildTotals(doc *studio.Document) []totalView {
	row := func(tr studio.TotalsRow, value string) totalView {
		return totalView{
			Label:      tr.Label,
			Value:      value,
			LabelStyle: template.CSS(ComputeText(tr.LabelSettings).CSS()),
			ValueStyle: template.CSS(ComputeText(tr.ValueSettings).CSS()),
		}
	}

	totals := []totalView{row(doc.SubtotalRow, r.currency.Format(doc.Subtotal, doc.Currency))}
	if doc.Visibility.TaxRow {
		totals = append(totals, row(doc.TaxRow, r.currency.Format(doc.TaxAmount, doc.Currency)))
	}
	if !doc.Fees.IsZero() {
		totals = append(totals, row(doc.FeesRow, r.currency.Format(doc.Fees, doc.Currency)))
	}
	if doc.Visibility.DiscountRow && !doc.Discounts.IsZero() {
		totals = append(totals, row(doc.DiscountsRow, "-"+r.currency.Format(doc.Discounts, doc.Currency)))
	}
	totals = append(totals, row(doc.TotalRow, r.currency.Format(doc.Total, doc.Currency)))
	return totals
}

func textElement(f studio.TextField) elementView {
	return elementView{
		Lines: SplitLines(f.Value),
		Style: template.CSS(ComputeText(f.Settings).CSS()),
	}
}

func labeledPair(f studio.LabeledField) pairView {
	return pairView{
		Label:      f.Label,
		Value:      f.Value,
		LabelStyle: template.CSS(ComputeText(f.LabelSettings).CSS()),
		ValueStyle: template.CSS(ComputeText(f.ValueSettings).CSS()),
	}
}

func safeHex(hex, fallback string) string {
	if design.IsHexColor(hex) {
		return hex
	}
	return fallback
}

var previewTemplate = template.Must(template.New("preview").Parse(previewTemplateText))

const previewTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
.invoice-root{margin:0 auto;max-width:800px;box-sizing:border-box}
.invoice-root section{margin-bottom:var(--section-gap)}
.invoice-root .header{display:flex;align-items:flex-start;gap:16px;margin-bottom:var(--section-gap)}
.invoice-root .header.logo-right{flex-direction:row-reverse}
.invoice-root .header.logo-top{flex-direction:column}
.invoice-root .header img{max-height:64px}
.invoice-root .header h1{flex:1;margin:0}
.invoice-root .meta{display:flex;gap:32px}
.invoice-root .totals{margin-left:auto;width:45%}
.invoice-root .totals .row{display:flex;justify-content:space-between;padding:3px 0}
.invoice-root .totals .row:last-child{border-top:2px solid var(--accent-color);padding-top:6px}
.invoice-root .footer{text-align:center;color:#9ca3af;font-size:10px;margin-top:var(--section-gap)}
.page-badge{text-align:right;color:#9ca3af;font-size:10px;margin-bottom:4px}
@media print{.no-print{display:none !important}}
</style>
</head>
<body>
<div class="no-print page-badge">{{.PageSize}}</div>
<div class="invoice-root" data-page-size="{{.PageSize}}" style="{{.RootStyle}}">
<div class="{{.HeaderClass}}">
{{- if .LogoURL}}
<img src="{{.LogoURL}}" alt="logo">
{{- end}}
<h1 style="{{.Title.Style}}">{{range .Title.Lines}}{{.}}{{end}}</h1>
</div>
<section class="meta">
{{- range .Meta}}
<div><span style="{{.LabelStyle}}">{{.Label}}</span><br><span style="{{.ValueStyle}}">{{.Value}}</span></div>
{{- end}}
</section>
{{- if .Seller}}
<section class="seller" style="{{.Seller.Style}}">
{{- range .Seller.Lines}}
<div>{{.}}</div>
{{- end}}
</section>
{{- end}}
{{- if .Client}}
<section class="client" style="{{.Client.Style}}">
{{- range .Client.Lines}}
<div>{{.}}</div>
{{- end}}
</section>
{{- end}}
<section class="items">
<table style="{{.Table.Style}}">
<thead><tr style="{{.Table.HeadStyle}}">
{{- range .Table.Headers}}
<th style="{{.Style}}">{{.Text}}</th>
{{- end}}
</tr></thead>
<tbody>
{{- range .Table.Rows}}
<tr>
{{- range .}}
<td style="{{.Style}}">{{.Text}}</td>
{{- end}}
</tr>
{{- end}}
</tbody>
</table>
</section>
<section class="totals">
{{- range .Totals}}
<div class="row"><span style="{{.LabelStyle}}">{{.Label}}</span><span style="{{.ValueStyle}}">{{.Value}}</span></div>
{{- end}}
</section>
{{- if .Terms}}
<section class="terms" style="{{.Terms.Style}}">
{{- range .Terms.Lines}}
<div>{{.}}</div>
{{- end}}
</section>
{{- end}}
{{- if .ShowFooter}}
<div class="footer">Powered by Invoice Studio</div>
{{- end}}
</div>
</body>
</html>
`
