package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// RodRenderer launches a browser through rod's launcher. With no binary
// configured the launcher fetches a pinned Chromium, which suits hosts that
// have no system Chrome.
type RodRenderer struct {
	bin  string
	opts PageOptions
}

func NewRodRenderer(bin string, opts PageOptions) *RodRenderer {
	return &RodRenderer{bin: bin, opts: opts}
}

func (r *RodRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	// deferred in reverse: close browser, kill process, remove profile dir
	defer l.Cleanup()
	defer l.Kill()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			slog.Debug("renderer: browser close", "error", err)
		}
	}()

	p, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	idlePage := p.Timeout(r.opts.IdleWait)
	waitIdle := idlePage.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
	if err := p.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to set content: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for load: %w", err)
	}
	waitIdle()
	idlePage.CancelTimeout()

	stream, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground: r.opts.PrintBackground,
		PaperWidth:      gson.Num(r.opts.PaperWidth),
		PaperHeight:     gson.Num(r.opts.PaperHeight),
		MarginTop:       gson.Num(r.opts.Margin),
		MarginBottom:    gson.Num(r.opts.Margin),
		MarginLeft:      gson.Num(r.opts.Margin),
		MarginRight:     gson.Num(r.opts.Margin),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return io.ReadAll(stream)
}
