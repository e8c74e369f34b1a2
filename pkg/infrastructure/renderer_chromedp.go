package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpRenderer starts a locally installed Chrome per call.
type ChromedpRenderer struct {
	chromePath string
	opts       PageOptions
}

func NewChromedpRenderer(chromePath string, opts PageOptions) *ChromedpRenderer {
	return &ChromedpRenderer{chromePath: chromePath, opts: opts}
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.chromePath))
	}

	// cancelling the allocator kills the browser process and waits for it
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.opts.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-render-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	idle := newIdleTracker()
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			idle.observe(e.LoaderID)
		}
	})

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// only the document's own loader counts, not the initial about:blank
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			if !idle.wait(ctx, tree.Frame.LoaderID, r.opts.IdleWait) {
				slog.Debug("renderer: network idle not observed, printing anyway")
			}
			return ctx.Err()
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(r.opts.PrintBackground).
				WithPaperWidth(r.opts.PaperWidth).
				WithPaperHeight(r.opts.PaperHeight).
				WithMarginTop(r.opts.Margin).
				WithMarginBottom(r.opts.Margin).
				WithMarginLeft(r.opts.Margin).
				WithMarginRight(r.opts.Margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// idleTracker records which loaders have reached networkIdle.
type idleTracker struct {
	mu     sync.Mutex
	seen   map[cdp.LoaderID]bool
	notify chan struct{}
}

func newIdleTracker() *idleTracker {
	return &idleTracker{seen: map[cdp.LoaderID]bool{}, notify: make(chan struct{}, 1)}
}

func (t *idleTracker) observe(id cdp.LoaderID) {
	t.mu.Lock()
	t.seen[id] = true
	t.mu.Unlock()
	select {
	case t.notify <- struct{}{}:
	default:
	}
}

func (t *idleTracker) idle(id cdp.LoaderID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen[id]
}

// wait blocks until loader id is idle, the timeout passes or ctx ends. It
// reports whether the loader went idle.
func (t *idleTracker) wait(ctx context.Context, id cdp.LoaderID, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for !t.idle(id) {
		select {
		case <-t.notify:
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
	return true
}
