package handler

import (
	"github.com/invoicestudio/backend/internal/interfaces/http/router"
)

// DesignRoutes creates the route group for design template endpoints
func DesignRoutes(handler *DesignTemplateHandler) *router.DomainGroup {
	group := router.NewDomainGroup("design", "/design")

	// Templates
	group.POST("/templates", handler.CreateTemplate)
	group.GET("/templates", handler.ListTemplates)
	group.GET("/templates/:id", handler.GetTemplate)
	group.PUT("/templates/:id", handler.UpdateTemplate)
	group.DELETE("/templates/:id", handler.DeleteTemplate)
	group.POST("/templates/:id/default", handler.SetDefaultTemplate)

	// Built-in presets and resolution
	group.GET("/presets", handler.ListPresets)
	group.POST("/resolve", handler.ResolveDesign)

	return group
}
