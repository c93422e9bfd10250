package studio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/invoicestudio/backend/internal/domain/design"
	"github.com/invoicestudio/backend/internal/domain/invoice"
)

// NewDocument creates a blank studio document with the canonical
// default styles. Two fresh documents differ only in id and timestamps.
func NewDocument() *Document {
	now := time.Now()

	label := design.TextSettings{
		Align:  design.AlignLeft,
		Size:   "11",
		Weight: design.WeightMedium,
		Color:  "#6b7280",
	}
	value := design.DefaultTextSettings()
	amount := design.TextSettings{
		Align:  design.AlignRight,
		Size:   "12",
		Weight: design.WeightNormal,
		Color:  "#111827",
	}

	doc := &Document{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,

		Tokens:     design.DefaultTokenSet(),
		Visibility: design.DefaultSectionVisibility(),
		Table:      design.DefaultTableSettings(),

		Title: TextField{
			Value: "Invoice",
			Settings: design.TextSettings{
				Align:  design.AlignLeft,
				Size:   "24",
				Weight: design.WeightBold,
				Color:  "#111827",
			},
		},
		InvoiceNo: LabeledField{
			Label:         "Invoice No.",
			LabelSettings: label,
			ValueSettings: value,
		},
		IssueDate: LabeledField{
			Label:         "Issue Date",
			Value:         now.Format("2006-01-02"),
			LabelSettings: label,
			ValueSettings: value,
		},
		DueDate: LabeledField{
			Label:         "Due Date",
			LabelSettings: label,
			ValueSettings: value,
		},
		Seller: TextField{Settings: value},
		Client: TextField{Settings: value},

		Currency: "USD",
		Items:    []invoice.LineItem{},

		TaxRate:   decimal.Zero,
		Fees:      decimal.Zero,
		Discounts: decimal.Zero,

		SubtotalRow:  TotalsRow{Label: "Subtotal", LabelSettings: label, ValueSettings: amount},
		TaxRow:       TotalsRow{Label: "Tax", LabelSettings: label, ValueSettings: amount},
		FeesRow:      TotalsRow{Label: "Fees", LabelSettings: label, ValueSettings: amount},
		DiscountsRow: TotalsRow{Label: "Discounts", LabelSettings: label, ValueSettings: amount},
		TotalRow: TotalsRow{
			Label:         "Total",
			LabelSettings: design.TextSettings{Align: design.AlignLeft, Size: "13", Weight: design.WeightBold, Color: "#111827"},
			ValueSettings: design.TextSettings{Align: design.AlignRight, Size: "13", Weight: design.WeightBold, Color: "#111827"},
		},

		Terms: TextField{Settings: value},
	}
	doc.Recalculate()
	return doc
}
