package render

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrRenderFailed is matched by every error a renderer returns; the browser cause is attached
var ErrRenderFailed = errors.New("render failed")

type renderError struct {
	cause error
}

func (e *renderError) Error() string { return ErrRenderFailed.Error() + ": " + e.cause.Error() }
func (e *renderError) Cause() error  { return e.cause }
func (e *renderError) Unwrap() error { return e.cause }
func (e *renderError) Is(target error) bool {
	return target == ErrRenderFailed
}

func renderFailed(err error) error {
	if err == nil {
		return nil
	}
	return &renderError{cause: err}
}

// PDFRenderer turns a document into printable output
type PDFRenderer interface {
	RenderPDF(ctx context.Context, doc *Document) ([]byte, error)
	RenderPNG(ctx context.Context, doc *Document) ([]byte, error)
}

// A4 landscape in inches
const (
	paperWidth  = 11.69
	paperHeight = 8.27
)

// readyScript resolves once the page has loaded, every web font is ready and every image settled
const readyScript = `new Promise(function (resolve) {
  function settle() {
    var pending = Array.prototype.map.call(document.images, function (img) {
      if (img.complete) { return Promise.resolve(); }
      return new Promise(function (done) { img.onload = done; img.onerror = done; });
    });
    pending.push(document.fonts.ready);
    Promise.all(pending).then(function () { resolve(true); });
  }
  if (document.readyState === 'complete') { settle(); } else { window.addEventListener('load', settle); }
})`

type BrowserOptions struct {
	ExecPath    string
	Timeout     time.Duration
	Concurrency int
	Inliner     *AssetInliner
}

// BrowserRenderer prints documents with a headless Chrome that is started on
// first use and shared by every call; each call gets its own tab.
type BrowserRenderer struct {
	opts BrowserOptions
	sem  chan struct{}

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewBrowserRenderer(opts BrowserOptions) *BrowserRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &BrowserRenderer{opts: opts, sem: make(chan struct{}, opts.Concurrency)}
}

func (r *BrowserRenderer) browser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil && r.browserCtx.Err() == nil {
		return r.browserCtx, nil
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, errors.Wrap(err, "could not start browser")
	}

	log.Info("[RENDERER] headless browser started")
	r.allocCancel, r.browserCtx, r.browserCancel = allocCancel, browserCtx, browserCancel
	return browserCtx, nil
}

// Close stops the browser if it was started. It is safe to call more than once.
func (r *BrowserRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCancel == nil {
		return
	}
	r.browserCancel()
	r.allocCancel()
	r.browserCtx, r.browserCancel, r.allocCancel = nil, nil, nil
	log.Info("[RENDERER] headless browser stopped")
}

func (r *BrowserRenderer) RenderPDF(ctx context.Context, doc *Document) ([]byte, error) {
	return r.render(ctx, doc, func(ctx context.Context) ([]byte, error) {
		data, _, err := page.PrintToPDF().
			WithLandscape(true).
			WithPrintBackground(true).
			WithPaperWidth(paperWidth).
			WithPaperHeight(paperHeight).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			Do(ctx)
		return data, err
	})
}

func (r *BrowserRenderer) RenderPNG(ctx context.Context, doc *Document) ([]byte, error) {
	return r.render(ctx, doc, func(ctx context.Context) ([]byte, error) {
		return page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithClip(&page.Viewport{X: 0, Y: 0, Width: float64(doc.Width), Height: float64(doc.Height), Scale: 1}).
			Do(ctx)
	})
}

func (r *BrowserRenderer) render(ctx context.Context, doc *Document, capture func(context.Context) ([]byte, error)) ([]byte, error) {
	if r.opts.Inliner != nil {
		r.opts.Inliner.Inline(ctx, doc)
	}
	html, err := doc.HTML()
	if err != nil {
		return nil, renderFailed(err)
	}

	browserCtx, err := r.browser()
	if err != nil {
		return nil, renderFailed(err)
	}

	select {
	case r.sem <- struct{}{}:
		defer func() { <-r.sem }()
	case <-ctx.Done():
		return nil, renderFailed(ctx.Err())
	}

	out, err := r.attempt(ctx, browserCtx, doc, html, capture)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		log.WithField("timeout", r.opts.Timeout).Warn("[RENDERER] page not ready in time, retrying once")
		out, err = r.attempt(ctx, browserCtx, doc, html, capture)
	}
	if err != nil {
		log.WithError(err).Error("[RENDERER] render failed")
		return nil, renderFailed(err)
	}
	return out, nil
}

func (r *BrowserRenderer) attempt(ctx, browserCtx context.Context, doc *Document, html string, capture func(context.Context) ([]byte, error)) ([]byte, error) {
	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, r.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var out []byte
	var ready bool
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(doc.Width), int64(doc.Height)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Evaluate(readyScript, &ready, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := capture(ctx)
			out = data
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
