package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/shapes-cli/internal/browser/cdp"
	"github.com/xkilldash9x/shapes-cli/internal/browser/dom"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/config"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
)

// defaultBox is the size of a replaced element with no intrinsic size.
const defaultBox = "300x150"

// elementSource is the set of flags that pick the element a shape is
// resolved against. At most one source may be given.
type elementSource struct {
	box      string
	snapshot string
	html     string
	url      string
	selector string
}

func addElementFlags(cmd *cobra.Command, src *elementSource) {
	cmd.Flags().StringVar(&src.box, "box", "", "element border box as WxH (default "+defaultBox+")")
	cmd.Flags().StringVar(&src.snapshot, "snapshot", "", "JSON element snapshot file")
	cmd.Flags().StringVar(&src.html, "html", "", "HTML file to lay out; needs --select")
	cmd.Flags().StringVar(&src.url, "url", "", "page to snapshot in headless Chrome; needs --select")
	cmd.Flags().StringVarP(&src.selector, "select", "s", "", "CSS selector or XPath of the element")
}

func (src *elementSource) validate() error {
	set := 0
	for _, v := range []string{src.box, src.snapshot, src.html, src.url} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New("--box, --snapshot, --html and --url are mutually exclusive")
	}
	if (src.html != "" || src.url != "") && src.selector == "" {
		return errors.New("--select is required with --html and --url")
	}
	return nil
}

// resolve builds the element named by the flags.
func (src *elementSource) resolve(ctx context.Context, cfg config.Interface) (layout.Element, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	switch {
	case src.snapshot != "":
		f, err := os.Open(src.snapshot)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot: %w", err)
		}
		defer f.Close()
		s, err := dom.DecodeSnapshot(f)
		if err != nil {
			return nil, err
		}
		return s, nil

	case src.html != "":
		f, err := os.Open(src.html)
		if err != nil {
			return nil, fmt.Errorf("opening html: %w", err)
		}
		defer f.Close()
		doc, err := dom.Parse(f, cfg.Document())
		if err != nil {
			return nil, err
		}
		el, err := doc.Select(src.selector)
		if err != nil {
			return nil, err
		}
		return el, nil

	case src.url != "":
		s, err := cdp.New(cfg.Browser(), observability.GetLogger()).Snapshot(ctx, src.url, src.selector)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	box := src.box
	if box == "" {
		box = defaultBox
	}
	w, h, err := parseBox(box)
	if err != nil {
		return nil, err
	}
	s := dom.NewBoxSnapshot(w, h)
	doc := cfg.Document()
	if doc.RootFontSize > 0 {
		s.RootFontSize = doc.RootFontSize
	}
	if doc.ViewportWidth > 0 && doc.ViewportHeight > 0 {
		s.ViewportWidth, s.ViewportHeight = doc.ViewportWidth, doc.ViewportHeight
	}
	return s, nil
}

// parseBox reads "WxH", e.g. "400x300".
func parseBox(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --box %q: want WxH", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSuffix(ws, "px"), 64)
	if err != nil || w < 0 {
		return 0, 0, fmt.Errorf("invalid --box width %q", ws)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(hs, "px"), 64)
	if err != nil || h < 0 {
		return 0, 0, fmt.Errorf("invalid --box height %q", hs)
	}
	return w, h, nil
}
