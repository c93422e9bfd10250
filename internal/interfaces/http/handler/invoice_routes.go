package handler

import (
	"github.com/invoicestudio/backend/internal/interfaces/http/router"
)

// InvoiceRoutes creates the route group for invoice endpoints
func InvoiceRoutes(handler *InvoiceHandler) *router.DomainGroup {
	group := router.NewDomainGroup("invoice", "/invoices")

	// CRUD
	group.POST("", handler.CreateInvoice)
	group.GET("", handler.ListInvoices)
	group.GET("/:id", handler.GetInvoice)
	group.PUT("/:id", handler.UpdateInvoice)
	group.DELETE("/:id", handler.DeleteInvoice)

	// Design snapshot
	group.POST("/:id/snapshot", handler.SaveSnapshot)

	// Rendering
	group.POST("/:id/preview", handler.PreviewInvoice)
	group.POST("/:id/export", handler.ExportInvoice)

	return group
}
