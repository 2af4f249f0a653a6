package gmaps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"gated-communities-scraper/config"
	"gated-communities-scraper/utils"
)

// ErrNoMatch is returned when a selector matches nothing on the page.
var ErrNoMatch = errors.New("no element matches selector")

// Page is the slice of browser automation the scraper needs. Selectors are
// XPath expressions. A Page is bound to the context it was opened with.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	Fill(sel, text string) error
	Submit(sel string) error
	// Settle waits until sel is visible or max elapses, whichever is first.
	// An empty sel waits the full duration.
	Settle(sel string, max time.Duration) error
	Hover(sel string) error
	Wheel(dx, dy float64) error
	Count(sel string) (int, error)
	// Parents returns the parent element of every node matching sel.
	Parents(sel string) ([]*cdp.Node, error)
	Click(node *cdp.Node) error
	HTML() (string, error)
	URL() (string, error)
	Close() error
}

// ChromePage drives a single Chrome tab through chromedp.
type ChromePage struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	mouseX, mouseY float64
}

// LaunchChrome starts a browser and opens one tab. The browser lives until
// Close is called or ctx is cancelled.
func LaunchChrome(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*ChromePage, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[gmaps] Using browser binary: %s (headless=%t)", chromeBin, cfg.Headless)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1366, 900),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// The first Run starts the browser; it must not carry a timeout.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromePage{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

func (p *ChromePage) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (p *ChromePage) Fill(sel, text string) error {
	return chromedp.Run(p.ctx,
		chromedp.Clear(sel, chromedp.BySearch),
		chromedp.SendKeys(sel, text, chromedp.BySearch),
	)
}

func (p *ChromePage) Submit(sel string) error {
	return chromedp.Run(p.ctx, chromedp.SendKeys(sel, kb.Enter, chromedp.BySearch))
}

func (p *ChromePage) Settle(sel string, max time.Duration) error {
	if sel == "" {
		select {
		case <-p.ctx.Done():
			return p.ctx.Err()
		case <-time.After(max):
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(p.ctx, max)
	defer cancel()
	err := chromedp.Run(ctx, chromedp.WaitVisible(sel, chromedp.BySearch))
	if errors.Is(err, context.DeadlineExceeded) && p.ctx.Err() == nil {
		return nil
	}
	return err
}

func (p *ChromePage) Hover(sel string) error {
	nodes, err := p.nodes(sel)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("hover %s: %w", sel, ErrNoMatch)
	}

	return chromedp.Run(p.ctx,
		chromedp.ScrollIntoView([]cdp.NodeID{nodes[0].NodeID}, chromedp.ByNodeID),
		chromedp.ActionFunc(func(ctx context.Context) error {
			box, err := dom.GetBoxModel().WithNodeID(nodes[0].NodeID).Do(ctx)
			if err != nil {
				return fmt.Errorf("box model: %w", err)
			}
			p.mouseX, p.mouseY = quadCenter(box.Content)
			return input.DispatchMouseEvent(input.MouseMoved, p.mouseX, p.mouseY).Do(ctx)
		}),
	)
}

func (p *ChromePage) Wheel(dx, dy float64) error {
	return chromedp.Run(p.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, p.mouseX, p.mouseY).
			WithDeltaX(dx).
			WithDeltaY(dy).
			Do(ctx)
	}))
}

func (p *ChromePage) Count(sel string) (int, error) {
	nodes, err := p.nodes(sel)
	return len(nodes), err
}

func (p *ChromePage) Parents(sel string) ([]*cdp.Node, error) {
	return p.nodes(sel + "/..")
}

func (p *ChromePage) Click(node *cdp.Node) error {
	return chromedp.Run(p.ctx, chromedp.MouseClickNode(node))
}

func (p *ChromePage) HTML() (string, error) {
	var html string
	err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (p *ChromePage) URL() (string, error) {
	var url string
	err := chromedp.Run(p.ctx, chromedp.Location(&url))
	return url, err
}

// Close shuts the browser down and releases the allocator.
func (p *ChromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancelTab()
	p.cancelAlloc()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *ChromePage) nodes(sel string) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(p.ctx, chromedp.Nodes(sel, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	return nodes, err
}

func quadCenter(q dom.Quad) (float64, float64) {
	if len(q) < 8 {
		return 0, 0
	}
	return (q[0] + q[2] + q[4] + q[6]) / 4, (q[1] + q[3] + q[5] + q[7]) / 4
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
