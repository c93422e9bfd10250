package render

import (
	"context"
	"time"

	"github.com/invoicestudio/backend/internal/domain/design"
)

// Margins are the print margins in millimeters
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins returns the standard print margins
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// CaptureRequest contains the parameters for capturing HTML to PDF
type CaptureRequest struct {
	// HTML is the preview markup to capture
	HTML string
	// PageSize defines the output page dimensions
	PageSize design.PageSize
	// Margins in millimeters
	Margins Margins
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default capture timeout
	Timeout time.Duration
}

// CaptureResult contains the output of a PDF capture
type CaptureResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// Duration is how long the capture took
	Duration time.Duration
}

// PDFCapturer converts preview HTML into a PDF document
type PDFCapturer interface {
	Capture(ctx context.Context, req *CaptureRequest) (*CaptureResult, error)
	// Close releases any resources held by the capturer
	Close() error
}

// RenderError represents a failure in one of the render adapters
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for render failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidHTML     = "INVALID_HTML"
	ErrCodeInvalidPageSize = "INVALID_PAGE_SIZE"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeFontUnavailable = "FONT_UNAVAILABLE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
