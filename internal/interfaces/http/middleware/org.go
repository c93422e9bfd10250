package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicestudio/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrgIDKey is the key used to store the organization ID in gin.Context
const (
	OrgIDKey     = "org_id"
	OrgHeaderKey = "X-Org-ID"
)

// OrgValidator defines the interface for validating an organization
type OrgValidator interface {
	ValidateOrg(orgID string) error
}

// OrgMiddlewareConfig holds configuration for organization middleware
type OrgMiddlewareConfig struct {
	// HeaderEnabled enables X-Org-ID header extraction
	HeaderEnabled bool
	// SkipPaths are paths that don't require org context (e.g., health check)
	SkipPaths []string
	// Required determines if org context is mandatory
	Required bool
	// DefaultOrgID is used when no org is supplied and Required is false.
	// Single-workspace deployments run everything under one organization.
	DefaultOrgID string
	// Validator is an optional validator to check if the org exists and is active
	Validator OrgValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultOrgConfig returns default organization middleware configuration
func DefaultOrgConfig() OrgMiddlewareConfig {
	return OrgMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:      false,
		DefaultOrgID:  "00000000-0000-0000-0000-000000000001",
		Validator:     nil,
		Logger:        nil,
	}
}

// OrgMiddleware extracts the organization ID from the request
func OrgMiddleware() gin.HandlerFunc {
	return OrgMiddlewareWithConfig(DefaultOrgConfig())
}

// OrgMiddlewareWithConfig returns organization middleware with custom configuration
func OrgMiddlewareWithConfig(cfg OrgMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var orgID string
		if cfg.HeaderEnabled {
			orgID = c.GetHeader(OrgHeaderKey)
		}

		if orgID != "" {
			if _, err := uuid.Parse(orgID); err != nil {
				respondUnauthorized(c, "Invalid organization ID format")
				return
			}
		}

		if orgID == "" {
			if cfg.Required {
				respondUnauthorized(c, "Organization identification required")
				return
			}
			orgID = cfg.DefaultOrgID
		}

		if orgID != "" && cfg.Validator != nil {
			if err := cfg.Validator.ValidateOrg(orgID); err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Organization validation failed",
					zap.String("org_id", orgID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive organization")
				return
			}
		}

		if orgID != "" {
			c.Set(OrgIDKey, orgID)

			// Propagate into the request context for the service layer
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithOrgID(ctx, log, orgID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetOrgID retrieves the organization ID from gin.Context
func GetOrgID(c *gin.Context) string {
	if orgID, exists := c.Get(OrgIDKey); exists {
		if oid, ok := orgID.(string); ok {
			return oid
		}
	}
	return ""
}

// GetOrgUUID retrieves the organization ID as UUID from gin.Context
func GetOrgUUID(c *gin.Context) (uuid.UUID, error) {
	orgID := GetOrgID(c)
	if orgID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(orgID)
}

// RequiredOrgMiddleware creates middleware that rejects requests without an org
func RequiredOrgMiddleware() gin.HandlerFunc {
	cfg := DefaultOrgConfig()
	cfg.Required = true
	return OrgMiddlewareWithConfig(cfg)
}
