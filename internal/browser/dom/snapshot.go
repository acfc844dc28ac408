// browser/dom/snapshot.go
package dom

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fallbacks for snapshots that leave the environment out.
const (
	DefaultViewportWidth  = 1280.0
	DefaultViewportHeight = 720.0
	DefaultFontSize       = 16.0
)

// ErrInvalidSnapshot is returned for a snapshot with negative sizes.
var ErrInvalidSnapshot = errors.New("dom: invalid snapshot")

// Snapshot is a recorded element layout. It is what a live page reports
// and can stand in for the element long after the page is gone.
type Snapshot struct {
	Rect           layout.Rect  `json:"rect" yaml:"rect"`
	Border         layout.Edges `json:"border" yaml:"border"`
	Padding        layout.Edges `json:"padding" yaml:"padding"`
	Margin         layout.Edges `json:"margin" yaml:"margin"`
	FontSize       float64      `json:"font_size" yaml:"font_size"`
	RootFontSize   float64      `json:"root_font_size" yaml:"root_font_size"`
	ScrollX        float64      `json:"scroll_x" yaml:"scroll_x"`
	ScrollY        float64      `json:"scroll_y" yaml:"scroll_y"`
	ViewportWidth  float64      `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64      `json:"viewport_height" yaml:"viewport_height"`
}

// NewBoxSnapshot is a bare w by h border box at the page origin.
func NewBoxSnapshot(w, h float64) *Snapshot {
	s := &Snapshot{Rect: layout.Rect{Width: w, Height: h}}
	s.applyDefaults()
	return s
}

// DecodeSnapshot reads one JSON snapshot. Missing font sizes and viewport
// dimensions take their defaults.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.applyDefaults()
	return &s, nil
}

// Validate rejects negative box and viewport sizes.
func (s *Snapshot) Validate() error {
	if s.Rect.Width < 0 || s.Rect.Height < 0 {
		return fmt.Errorf("%w: negative rect size %gx%g", ErrInvalidSnapshot, s.Rect.Width, s.Rect.Height)
	}
	for name, e := range map[string]layout.Edges{"border": s.Border, "padding": s.Padding} {
		if e.Top < 0 || e.Right < 0 || e.Bottom < 0 || e.Left < 0 {
			return fmt.Errorf("%w: negative %s width", ErrInvalidSnapshot, name)
		}
	}
	if s.ViewportWidth < 0 || s.ViewportHeight < 0 || s.FontSize < 0 || s.RootFontSize < 0 {
		return fmt.Errorf("%w: negative environment size", ErrInvalidSnapshot)
	}
	return nil
}

func (s *Snapshot) applyDefaults() {
	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	if s.RootFontSize == 0 {
		s.RootFontSize = DefaultFontSize
	}
	if s.ViewportWidth == 0 {
		s.ViewportWidth = DefaultViewportWidth
	}
	if s.ViewportHeight == 0 {
		s.ViewportHeight = DefaultViewportHeight
	}
}

// Encode writes the snapshot as indented JSON.
func (s *Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func (s *Snapshot) BoundingClientRect() layout.Rect { return s.Rect }

func (s *Snapshot) ComputedStyle() layout.ComputedStyle {
	return layout.ComputedStyle{
		Border:       s.Border,
		Padding:      s.Padding,
		Margin:       s.Margin,
		FontSize:     s.FontSize,
		RootFontSize: s.RootFontSize,
	}
}

func (s *Snapshot) ScrollOffset() (x, y float64) { return s.ScrollX, s.ScrollY }

func (s *Snapshot) Viewport() (width, height float64) { return s.ViewportWidth, s.ViewportHeight }

var _ layout.Element = (*Snapshot)(nil)
