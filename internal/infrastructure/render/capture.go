package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultCaptureTimeout = 30 * time.Second
	defaultCaptureScale   = 1.0
)

// CaptureConfig contains configuration for the browser capture renderer
type CaptureConfig struct {
	// DefaultTimeout for capture operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp launches a new browser instance
	RemoteURL string
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for rendering (default: 1.0)
	Scale float64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromeCapturer renders preview HTML to PDF through the Chrome
// DevTools Protocol. It is the "browser print" export path: the PDF is
// whatever the browser's print engine makes of the preview markup, so
// the export matches the on-screen preview exactly.
type ChromeCapturer struct {
	config      *CaptureConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeCapturer creates a chromedp-based capture renderer
func NewChromeCapturer(config *CaptureConfig) (*ChromeCapturer, error) {
	if config == nil {
		config = &CaptureConfig{}
	}

	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultCaptureTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultCaptureScale
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ChromeCapturer{
		config: config,
		logger: logger,
	}
	c.initAllocator()
	return c, nil
}

func (c *ChromeCapturer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", c.config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if c.config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.config.RemoteURL)
	} else {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Capture converts preview HTML to PDF. The markup's print CSS is
// honored by the browser, so elements carrying the no-print class are
// excluded without the capturer touching the HTML.
func (c *ChromeCapturer) Capture(ctx context.Context, req *CaptureRequest) (*CaptureResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "capture request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PageSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPageSize, "invalid page size: "+req.PageSize.String(), nil)
	}

	start := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Chrome measures paper in inches
	widthMM, heightMM := req.PageSize.Dimensions()

	var pdfData []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(widthMM)).
				WithPaperHeight(mmToInches(heightMM)).
				WithMarginTop(mmToInches(req.Margins.Top)).
				WithMarginRight(mmToInches(req.Margins.Right)).
				WithMarginBottom(mmToInches(req.Margins.Bottom)).
				WithMarginLeft(mmToInches(req.Margins.Left)).
				WithScale(c.config.Scale).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF capture timed out after %v", timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF capture was cancelled", err)
		}

		c.logger.Error("chromedp capture failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	duration := time.Since(start)
	c.logger.Info("PDF captured",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", duration))

	return &CaptureResult{
		PDFData:  pdfData,
		Duration: duration,
	}, nil
}

// Close releases resources held by the capturer
func (c *ChromeCapturer) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFCapturer = (*ChromeCapturer)(nil)
