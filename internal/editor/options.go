package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/config"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// TieBreak decides which edge receives a new vertex when several are in reach.
type TieBreak string

const (
	// TieBreakLast picks the last qualifying edge in vertex order.
	TieBreakLast TieBreak = "last"
	// TieBreakClosest picks the qualifying edge nearest the pointer.
	TieBreakClosest TieBreak = "closest"
)

// DefaultPointRadius is the vertex handle radius in pixels.
const DefaultPointRadius = 4.0

// DefaultProperty is the CSS property an editor reports in its events.
const DefaultProperty = "shape-outside"

type options struct {
	logger        *zap.Logger
	surface       Surface
	defaultRefBox layout.ReferenceBox
	pointRadius   float64
	tieBreak      TieBreak
	minVertices   int
	cycle         units.Cycle
	property      string
	observers     []pendingObserver
}

type pendingObserver struct {
	event EventType
	fn    Handler
}

func defaultOptions() options {
	return options{
		defaultRefBox: layout.DefaultReferenceBox,
		pointRadius:   DefaultPointRadius,
		tieBreak:      TieBreakLast,
		cycle:         units.NewCycle(nil),
		property:      DefaultProperty,
	}
}

// Option configures an Editor.
type Option func(*options)

// WithLogger sets the editor's logger. The editor names a child logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSurface sets the drawing surface. The default is a surface.Memory.
func WithSurface(s Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithDefaultRefBox sets the box used when a value names none. Unknown
// boxes are ignored.
func WithDefaultRefBox(box string) Option {
	return func(o *options) {
		if b, err := layout.ParseReferenceBox(box); err == nil {
			o.defaultRefBox = b
		}
	}
}

// WithPointRadius sets the vertex handle radius, which is also the reach of
// edge insertion.
func WithPointRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.pointRadius = r
		}
	}
}

// WithEdgeTieBreak selects the edge insertion policy.
func WithEdgeTieBreak(t TieBreak) Option {
	return func(o *options) {
		switch TieBreak(strings.ToLower(string(t))) {
		case TieBreakClosest:
			o.tieBreak = TieBreakClosest
		default:
			o.tieBreak = TieBreakLast
		}
	}
}

// WithMinVertices stops double-click deletion from taking a polygon below n
// vertices. Zero leaves deletion unguarded.
func WithMinVertices(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minVertices = n
		}
	}
}

// WithUnitCycle sets the order ConvertUnits steps through.
func WithUnitCycle(us ...units.Unit) Option {
	return func(o *options) { o.cycle = units.NewCycle(us) }
}

// WithProperty records which CSS property the edited value belongs to.
func WithProperty(p string) Option {
	return func(o *options) {
		if p != "" {
			o.property = p
		}
	}
}

// WithObserver registers a handler before the editor is built, so it sees
// the ready event.
func WithObserver(t EventType, fn Handler) Option {
	return func(o *options) { o.observers = append(o.observers, pendingObserver{event: t, fn: fn}) }
}

// FromConfig turns the editor section of the configuration into options.
func FromConfig(cfg config.EditorConfig) []Option {
	cycle := make([]units.Unit, 0, len(cfg.UnitCycle))
	for _, s := range cfg.UnitCycle {
		cycle = append(cycle, units.Unit(s))
	}
	return []Option{
		WithDefaultRefBox(cfg.DefaultRefBox),
		WithPointRadius(cfg.PointRadius),
		WithEdgeTieBreak(TieBreak(cfg.EdgeTieBreak)),
		WithMinVertices(cfg.MinVertices),
		WithUnitCycle(cycle...),
		WithProperty(cfg.Property),
	}
}
