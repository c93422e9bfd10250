package handler

import (
	"github.com/invoicestudio/backend/internal/interfaces/http/router"
)

// StudioRoutes creates the route group for the live editing studio
func StudioRoutes(handler *StudioHandler) *router.DomainGroup {
	group := router.NewDomainGroup("studio", "/studio")

	// Documents
	group.POST("/documents", handler.CreateDocument)
	group.GET("/documents", handler.ListDocuments)
	group.GET("/documents/:id", handler.GetDocument)
	group.DELETE("/documents/:id", handler.DeleteDocument)

	// Editing session
	group.POST("/documents/:id/session", handler.OpenSession)
	group.DELETE("/documents/:id/session", handler.CloseSession)
	group.PATCH("/documents/:id/fields", handler.UpdateField)
	group.POST("/documents/:id/template", handler.SelectTemplate)
	group.POST("/documents/:id/save", handler.SaveDocument)
	group.POST("/documents/:id/save-as-template", handler.SaveAsTemplate)

	// Saved templates
	group.GET("/templates", handler.ListTemplates)
	group.DELETE("/templates/:id", handler.DeleteTemplate)

	// Logo images
	group.POST("/images", handler.UploadImage)
	group.GET("/images/:id", handler.GetImage)
	group.DELETE("/images/:id", handler.DeleteImage)

	// Rendering
	group.GET("/documents/:id/preview", handler.PreviewDocument)
	group.POST("/documents/:id/export", handler.ExportDocument)

	return group
}
