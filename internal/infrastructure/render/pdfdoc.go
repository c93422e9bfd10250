package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/coregx/gxpdf/creator"
	"go.uber.org/zap"

	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/studio"
)

// Point geometry for the native renderer. Text settings carry px sizes;
// print uses pt at the standard 96dpi/72pt ratio.
const (
	pxToPt       = 0.75
	pageMarginPt = 40.0
	lineGapPt    = 4.0
)

// DocumentRenderer builds the invoice PDF directly, without a browser.
// It lays out the same sections as the HTML preview from the same
// computed styles, one fixed-size page per document.
type DocumentRenderer struct {
	currency *CurrencyFormatter
	fontDir  string
	logger   *zap.Logger
}

// NewDocumentRenderer creates the native PDF renderer. fontDir is where
// the embeddable TTF files for the non-builtin font families live; if
// empty, those families fall back to Helvetica.
func NewDocumentRenderer(currency *CurrencyFormatter, fontDir string, logger *zap.Logger) *DocumentRenderer {
	if currency == nil {
		currency = NewCurrencyFormatter("en")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{currency: currency, fontDir: fontDir, logger: logger}
}

// Render produces the PDF bytes for a studio document
func (r *DocumentRenderer) Render(ctx context.Context, doc *studio.Document) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidDocument, "document is nil", nil)
	}

	tokens := doc.Tokens.Normalize()

	c := creator.New()
	c.SetMetadata(firstLine(doc.Title.Value), "", "Invoice")

	pageSize := creator.A4
	if tokens.PageSize == design.PageSizeLetter {
		pageSize = creator.Letter
	}
	page, err := c.NewPageWithSize(pageSize)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "page creation failed", err)
	}

	if err := r.layout(page, doc, tokens); err != nil {
		return nil, err
	}

	// The creator writes files only, so round-trip through a temp file
	tmp, err := os.CreateTemp("", "invoice-*.pdf")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "temp file creation failed", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := c.WriteToFileContext(ctx, path); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF write failed", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF read-back failed", err)
	}
	if len(data) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	return data, nil
}

func (r *DocumentRenderer) layout(page *creator.Page, doc *studio.Document, tokens design.TokenSet) error {
	spacing := ComputeSpacing(tokens.SpacingScale)
	sectionGap := spacing.SectionGap * pxToPt
	cellPad := spacing.CellPad * pxToPt

	left := pageMarginPt
	right := page.Width() - pageMarginPt
	y := page.Height() - pageMarginPt

	accent := ParseHex(tokens.AccentColorHex, RGB{R: 0.12, G: 0.16, B: 0.22})

	// Header: title plus the accent rule standing in for the logo band
	titleStyle := ComputeText(doc.Title.Settings)
	y -= titleStyle.SizePx * pxToPt
	if err := r.drawAligned(page, firstLine(doc.Title.Value), left, right, y, titleStyle, tokens.FontFamily); err != nil {
		return err
	}
	y -= lineGapPt * 2
	if err := page.DrawLine(left, y, right, y, &creator.LineOptions{
		Color: creator.Color{R: accent.R, G: accent.G, B: accent.B},
		Width: 2,
	}); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "header rule failed", err)
	}
	y -= sectionGap

	// Meta row: number and dates across three columns
	colW := (right - left) / 3
	meta := []studio.LabeledField{doc.InvoiceNo, doc.IssueDate, doc.DueDate}
	metaTop := y
	for i, f := range meta {
		x := left + float64(i)*colW
		fy := metaTop
		labelStyle := ComputeText(f.LabelSettings)
		fy -= labelStyle.SizePx * pxToPt
		if err := r.drawText(page, f.Label, x, fy, labelStyle, tokens.FontFamily); err != nil {
			return err
		}
		valueStyle := ComputeText(f.ValueSettings)
		fy -= valueStyle.SizePx*pxToPt + lineGapPt
		if err := r.drawText(page, f.Value, x, fy, valueStyle, tokens.FontFamily); err != nil {
			return err
		}
		if fy < y {
			y = fy
		}
	}
	y -= sectionGap

	// Seller and client blocks
	if doc.Visibility.CompanyDetails {
		var err error
		y, err = r.drawBlock(page, doc.Seller, left, y, tokens.FontFamily)
		if err != nil {
			return err
		}
		y -= sectionGap
	}
	if doc.Visibility.ClientDetails {
		var err error
		y, err = r.drawBlock(page, doc.Client, left, y, tokens.FontFamily)
		if err != nil {
			return err
		}
		y -= sectionGap
	}

	// Line item table
	var err error
	y, err = r.drawTable(page, doc, tokens, left, right, y, cellPad)
	if err != nil {
		return err
	}
	y -= sectionGap

	// Totals block, right-hand half of the page
	y, err = r.drawTotals(page, doc, tokens, left+(right-left)/2, right, y, accent)
	if err != nil {
		return err
	}
	y -= sectionGap

	if doc.Visibility.Terms && strings.TrimSpace(doc.Terms.Value) != "" {
		if _, err := r.drawBlock(page, doc.Terms, left, y, tokens.FontFamily); err != nil {
			return err
		}
	}

	if doc.Visibility.Footer {
		footer := ComputedText{SizePx: 10, Weight: 400, Color: "#9ca3af", Align: design.AlignCenter}
		if err := r.drawAligned(page, "Powered by Invoice Studio", left, right, pageMarginPt, footer, tokens.FontFamily); err != nil {
			return err
		}
	}
	return nil
}

func (r *DocumentRenderer) drawBlock(page *creator.Page, f studio.TextField, x, y float64, family design.FontFamily) (float64, error) {
	style := ComputeText(f.Settings)
	lineH := style.SizePx*pxToPt + lineGapPt
	for _, line := range SplitLines(f.Value) {
		y -= lineH
		if err := r.drawText(page, line, x, y, style, family); err != nil {
			return y, err
		}
	}
	return y, nil
}

func (r *DocumentRenderer) drawTable(page *creator.Page, doc *studio.Document, tokens design.TokenSet, left, right, y, cellPad float64) (float64, error) {
	// Column bounds: description takes half the width, the numeric
	// columns split the rest
	numW := (right - left) / 6
	cols := []struct{ left, right float64 }{
		{left, right - 3*numW},
		{right - 3*numW, right - 2*numW},
		{right - 2*numW, right - numW},
		{right - numW, right},
	}

	borderColor := ParseHex(doc.Table.BorderColor, RGB{R: 0.9, G: 0.91, B: 0.92})
	borderWidth := 0.0
	switch tokens.BorderStyle {
	case design.BorderSubtle:
		borderWidth = 0.75
	case design.BorderStrong:
		borderWidth = 1.5
	}

	headers := []design.ColumnSettings{
		doc.Table.DescriptionHeaderSettings,
		doc.Table.QuantityHeaderSettings,
		doc.Table.UnitPriceHeaderSettings,
		doc.Table.AmountHeaderSettings,
	}
	rowStyles := []design.TextSettings{
		doc.Table.DescriptionRowSettings,
		doc.Table.QuantityRowSettings,
		doc.Table.UnitPriceRowSettings,
		doc.Table.AmountRowSettings,
	}

	rowHeight := func(styles []ComputedText) float64 {
		max := 0.0
		for _, s := range styles {
			if h := s.SizePx * pxToPt; h > max {
				max = h
			}
		}
		return max + 2*cellPad
	}

	drawRule := func(y float64) error {
		if borderWidth == 0 {
			return nil
		}
		return page.DrawLine(left, y, right, y, &creator.LineOptions{
			Color: creator.Color{R: borderColor.R, G: borderColor.G, B: borderColor.B},
			Width: borderWidth,
		})
	}

	// Header row
	headStyles := make([]ComputedText, len(headers))
	for i, h := range headers {
		headStyles[i] = ComputeText(h.TextSettings)
	}
	h := rowHeight(headStyles)
	baseline := y - h + cellPad
	for i, hd := range headers {
		if err := r.drawAligned(page, hd.Label, cols[i].left, cols[i].right, baseline, headStyles[i], tokens.FontFamily); err != nil {
			return y, err
		}
	}
	y -= h
	if err := drawRule(y); err != nil {
		return y, NewRenderError(ErrCodeRenderFailed, "table rule failed", err)
	}

	// Item rows
	cellStyles := make([]ComputedText, len(rowStyles))
	for i, s := range rowStyles {
		cellStyles[i] = ComputeText(s)
	}
	for _, item := range doc.Items {
		cells := []string{
			item.Description,
			item.Quantity.String(),
			r.currency.Format(item.UnitPrice, doc.Currency),
			r.currency.Format(item.Amount, doc.Currency),
		}
		h := rowHeight(cellStyles)
		baseline := y - h + cellPad
		for i, text := range cells {
			if err := r.drawAligned(page, text, cols[i].left, cols[i].right, baseline, cellStyles[i], tokens.FontFamily); err != nil {
				return y, err
			}
		}
		y -= h
		if err := drawRule(y); err != nil {
			return y, NewRenderError(ErrCodeRenderFailed, "table rule failed", err)
		}
	}
	return y, nil
}

func (r *DocumentRenderer) drawTotals(page *creator.Page, doc *studio.Document, tokens design.TokenSet, left, right, y float64, accent RGB) (float64, error) {
	type totalRow struct {
		row   studio.TotalsRow
		value string
		last  bool
	}
	rows := []totalRow{{row: doc.SubtotalRow, value: r.currency.Format(doc.Subtotal, doc.Currency)}}
	if doc.Visibility.TaxRow {
		rows = append(rows, totalRow{row: doc.TaxRow, value: r.currency.Format(doc.TaxAmount, doc.Currency)})
	}
	if !doc.Fees.IsZero() {
		rows = append(rows, totalRow{row: doc.FeesRow, value: r.currency.Format(doc.Fees, doc.Currency)})
	}
	if doc.Visibility.DiscountRow && !doc.Discounts.IsZero() {
		rows = append(rows, totalRow{row: doc.DiscountsRow, value: "-" + r.currency.Format(doc.Discounts, doc.Currency)})
	}
	rows = append(rows, totalRow{row: doc.TotalRow, value: r.currency.Format(doc.Total, doc.Currency), last: true})

	for _, tr := range rows {
		labelStyle := ComputeText(tr.row.LabelSettings)
		valueStyle := ComputeText(tr.row.ValueSettings)
		h := labelStyle.SizePx
		if valueStyle.SizePx > h {
			h = valueStyle.SizePx
		}
		h = h*pxToPt + lineGapPt

		if tr.last {
			y -= lineGapPt
			if err := page.DrawLine(left, y, right, y, &creator.LineOptions{
				Color: creator.Color{R: accent.R, G: accent.G, B: accent.B},
				Width: 1.5,
			}); err != nil {
				return y, NewRenderError(ErrCodeRenderFailed, "totals rule failed", err)
			}
		}

		y -= h
		labelStyle.Align = design.AlignLeft
		if err := r.drawText(page, tr.row.Label, left, y, labelStyle, tokens.FontFamily); err != nil {
			return y, err
		}
		valueStyle.Align = design.AlignRight
		if err := r.drawAligned(page, tr.value, left, right, y, valueStyle, tokens.FontFamily); err != nil {
			return y, err
		}
	}
	return y, nil
}

// drawAligned positions text within [left, right] per its alignment
func (r *DocumentRenderer) drawAligned(page *creator.Page, text string, left, right, y float64, style ComputedText, family design.FontFamily) error {
	x := left
	switch style.Align {
	case design.AlignRight:
		x = right - approxTextWidth(text, style.SizePx*pxToPt)
	case design.AlignCenter:
		x = left + (right-left-approxTextWidth(text, style.SizePx*pxToPt))/2
	}
	if x < left {
		x = left
	}
	return r.drawText(page, text, x, y, style, family)
}

func (r *DocumentRenderer) drawText(page *creator.Page, text string, x, y float64, style ComputedText, family design.FontFamily) error {
	if text == "" {
		return nil
	}
	color := colorOf(style.Color)
	size := style.SizePx * pxToPt

	if cf := r.customFont(family, style.Weight); cf != nil {
		if err := page.AddTextCustomFontColor(text, x, y, cf, size, color); err != nil {
			return NewRenderError(ErrCodeRenderFailed, "text draw failed", err)
		}
		return nil
	}
	if err := page.AddTextColor(text, x, y, builtinFont(style.Weight), size, color); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "text draw failed", err)
	}
	return nil
}

// customFont loads the TTF for the named family and weight, once per
// path for the whole process. A missing or broken font file logs once
// and falls back to the builtin fonts.
func (r *DocumentRenderer) customFont(family design.FontFamily, weight int) *creator.CustomFont {
	if r.fontDir == "" || family == design.FontFamilySystem {
		return nil
	}
	variant := "Regular"
	if weight >= 600 {
		variant = "Bold"
	}
	name := family.String()
	name = strings.ToUpper(name[:1]) + name[1:]
	path := filepath.Join(r.fontDir, fmt.Sprintf("%s-%s.ttf", name, variant))

	entry := fontEntry(path)
	entry.once.Do(func() {
		entry.font, entry.err = creator.LoadFont(path)
		if entry.err != nil {
			r.logger.Warn("custom font unavailable, using builtin",
				zap.String("path", path), zap.Error(entry.err))
		}
	})
	if entry.err != nil {
		return nil
	}
	return entry.font
}

func builtinFont(weight int) creator.FontName {
	if weight >= 600 {
		return creator.HelveticaBold
	}
	return creator.Helvetica
}

func colorOf(hex string) creator.Color {
	rgb := ParseHex(hex, RGB{R: 0.07, G: 0.09, B: 0.15})
	return creator.Color{R: rgb.R, G: rgb.G, B: rgb.B}
}

// approxTextWidth estimates a rendered string width in points. The
// creator exposes no text metrics, and an average advance of 0.52em
// keeps right-aligned numeric columns visually stable for the
// Helvetica-class faces this renderer uses.
func approxTextWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.52
}

func firstLine(s string) string {
	lines := SplitLines(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

type loadedFont struct {
	once sync.Once
	font *creator.CustomFont
	err  error
}

var (
	fontCacheMu sync.Mutex
	fontCache   = map[string]*loadedFont{}
)

func fontEntry(path string) *loadedFont {
	fontCacheMu.Lock()
	defer fontCacheMu.Unlock()
	entry, ok := fontCache[path]
	if !ok {
		entry = &loadedFont{}
		fontCache[path] = entry
	}
	return entry
}
