// Package cdp measures elements on a live page through the Chrome DevTools
// Protocol and records them as dom.Snapshot values.
package cdp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/shapes-cli/internal/browser/dom"
	"github.com/xkilldash9x/shapes-cli/internal/config"
	"go.uber.org/zap"
)

// snapshotJS measures the first element matching a CSS selector or an XPath
// expression. The snapshot field follows the dom.Snapshot JSON layout.
const snapshotJS = `(function(sel) {
	let el;
	if (sel.startsWith('/') || sel.startsWith('(')) {
		el = document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	} else {
		el = document.querySelector(sel);
	}
	if (!el || el.nodeType !== Node.ELEMENT_NODE) { return { found: false }; }
	const cs = getComputedStyle(el);
	const px = (v) => parseFloat(v) || 0;
	const edges = (prefix, suffix) => ({
		top: px(cs[prefix + 'Top' + suffix]),
		right: px(cs[prefix + 'Right' + suffix]),
		bottom: px(cs[prefix + 'Bottom' + suffix]),
		left: px(cs[prefix + 'Left' + suffix]),
	});
	const r = el.getBoundingClientRect();
	return { found: true, snapshot: {
		rect: { x: r.x, y: r.y, width: r.width, height: r.height },
		border: edges('border', 'Width'),
		padding: edges('padding', ''),
		margin: edges('margin', ''),
		font_size: px(cs.fontSize),
		root_font_size: px(getComputedStyle(document.documentElement).fontSize),
		scroll_x: window.scrollX,
		scroll_y: window.scrollY,
		viewport_width: window.innerWidth,
		viewport_height: window.innerHeight,
	} };
})(%s)`

// script embeds selector into snapshotJS as a JSON string literal.
func script(selector string) (string, error) {
	quoted, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(snapshotJS, quoted), nil
}

type result struct {
	Found    bool                `json:"found"`
	Snapshot jsoniter.RawMessage `json:"snapshot"`
}

// decodeResult turns the raw evaluation result into a snapshot.
func decodeResult(raw []byte, selector string) (*dom.Snapshot, error) {
	var res result
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding snapshot result: %w", err)
	}
	if !res.Found {
		return nil, fmt.Errorf("%w: %s", dom.ErrNoMatch, selector)
	}
	return dom.DecodeSnapshot(bytes.NewReader(res.Snapshot))
}

// ExecOptions builds the allocator options for cfg. Args entries are
// "name" for boolean flags or "name=value".
func ExecOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	for _, arg := range cfg.Args {
		key, value, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}

// Snapshotter opens a fresh browser for each snapshot.
type Snapshotter struct {
	cfg    config.BrowserConfig
	logger *zap.Logger
}

// New returns a Snapshotter. A nil logger discards browser output.
func New(cfg config.BrowserConfig, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{cfg: cfg, logger: logger.Named("cdp")}
}

// Snapshot loads url and records the element matching selector. The whole
// operation is bounded by the configured timeout.
func (s *Snapshotter) Snapshot(ctx context.Context, url, selector string) (*dom.Snapshot, error) {
	js, err := script(selector)
	if err != nil {
		return nil, fmt.Errorf("building snapshot script: %w", err)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, ExecOptions(s.cfg)...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(s.logger.Sugar().Debugf))
	defer cancelTab()

	s.logger.Debug("Capturing element snapshot.", zap.String("url", url), zap.String("selector", selector))

	var raw []byte
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(js, &raw),
	); err != nil {
		return nil, fmt.Errorf("capturing %s on %s: %w", selector, url, err)
	}
	return decodeResult(raw, selector)
}
