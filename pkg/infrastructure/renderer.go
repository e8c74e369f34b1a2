package infrastructure

import (
	"context"
	"fmt"
	"time"
)

// Renderer rasterizes a complete HTML document into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// PageOptions is the fixed print layout shared by every renderer.
type PageOptions struct {
	PaperWidth      float64 // inches
	PaperHeight     float64 // inches
	Margin          float64 // inches, all sides
	PrintBackground bool
	Timeout         time.Duration
	// IdleWait bounds how long to wait for the network to go quiet after
	// the document loads.
	IdleWait time.Duration
}

// A4 is 210mm x 297mm with 15mm margins.
func A4() PageOptions {
	return PageOptions{
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		Margin:          15.0 / 25.4,
		PrintBackground: true,
		Timeout:         60 * time.Second,
		IdleWait:        5 * time.Second,
	}
}

// NewRenderer picks the launch strategy. "managed" uses a browser that rod
// downloads and pins on first use; "local" drives an installed Chrome.
func NewRenderer(mode, chromePath string, opts PageOptions) (Renderer, error) {
	switch mode {
	case "managed":
		return NewRodRenderer(chromePath, opts), nil
	case "local", "":
		return NewChromedpRenderer(chromePath, opts), nil
	default:
		return nil, fmt.Errorf("unsupported browser mode: %s", mode)
	}
}
