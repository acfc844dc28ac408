// Package editor keeps one CSS shape value live against a target element.
//
// The editor stores geometry in page coordinates while it is being edited.
// Offsets to the element's reference box are added after every parse and
// taken off again whenever the value is serialized.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/observability"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
	"github.com/xkilldash9x/shapes-cli/internal/surface"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

var (
	// ErrRemoved is returned by every mutation after Remove.
	ErrRemoved = errors.New("editor removed")
	// ErrNoTransform is returned by ApplyTransform while free transform is off.
	ErrNoTransform = errors.New("free transform is off")
)

// Surface is what the editor draws on. It also answers vertex picking,
// since it knows where the handles ended up.
type Surface interface {
	Render(scene surface.Scene) error
	HitVertex(p layout.Point, radius float64) (int, bool)
	Clear()
}

// Editor owns the geometry of one shape value.
type Editor struct {
	id     string
	target layout.Element
	opts   options
	logger *zap.Logger
	obs    observers

	mu             sync.Mutex
	geometry       shapes.Geometry
	offset         layout.Point
	offsetsApplied bool
	transforming   bool
	baseline       shapes.Geometry
	active         int
	cycle          units.Cycle
	removed        bool
	pending        []Event
}

// New parses value against target, draws it and emits ready. Observers
// that must see ready are registered with WithObserver.
func New(target layout.Element, value string, opts ...Option) (*Editor, error) {
	if target == nil {
		return nil, shapes.ErrInvalidTarget
	}
	if strings.TrimSpace(value) == shapes.None {
		return nil, fmt.Errorf("%w: %q leaves nothing to edit", shapes.ErrNotAShapeFunction, value)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.GetLogger()
	}
	if o.surface == nil {
		o.surface = surface.NewMemory()
	}

	e := &Editor{
		id:     uuid.NewString(),
		target: target,
		opts:   o,
		active: -1,
		cycle:  o.cycle,
	}
	e.logger = o.logger.Named("editor").With(zap.String("editor_id", e.id))
	for _, p := range o.observers {
		e.obs.add(p.event, p.fn)
	}

	err := e.mutate(func() error {
		g, err := shapes.Parse(value, e.env())
		if err != nil {
			return err
		}
		e.geometry = g
		if err := e.recomputeOffset(); err != nil {
			return err
		}
		e.applyOffsets()
		e.draw()
		e.queue(EventReady)
		return nil
	})
	if err != nil {
		e.logger.Debug("Failed to set up editor.", zap.String("value", value), zap.Error(err))
		return nil, err
	}
	e.logger.Debug("Editor ready.", zap.String("kind", string(e.geometry.Kind())))
	return e, nil
}

// ID is the editor's unique identifier.
func (e *Editor) ID() string { return e.id }

// Property is the CSS property the edited value belongs to.
func (e *Editor) Property() string { return e.opts.property }

// On registers fn for events of type t and returns a function that
// unregisters it.
func (e *Editor) On(t EventType, fn Handler) (cancel func()) {
	return e.obs.add(t, fn)
}

// Off drops every handler registered for t.
func (e *Editor) Off(t EventType) {
	e.obs.clear(t)
}

// Update replaces the shape with a new value. "none" removes the editor.
// A value that fails to parse leaves the current shape untouched.
func (e *Editor) Update(value string) error {
	if strings.TrimSpace(value) == shapes.None {
		return e.Remove()
	}
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		wasTransforming, baseline, active := e.transforming, e.baseline, e.active
		e.setTransform(false)
		e.removeOffsets()

		g, err := shapes.Parse(value, e.env())
		if err != nil {
			// The baseline survives a rejected value untouched, so the next
			// ApplyTransform still starts from it.
			e.applyOffsets()
			e.transforming, e.baseline, e.active = wasTransforming, baseline, active
			return err
		}
		e.geometry = g
		e.active = -1
		if err := e.recomputeOffset(); err != nil {
			return err
		}
		e.applyOffsets()
		e.setTransform(wasTransforming)
		e.draw()
		return nil
	})
}

// Refresh re-reads the element box after a resize and redraws. Calling it
// again without a layout change yields the same geometry.
func (e *Editor) Refresh() error {
	return e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		wasTransforming, baseline, before := e.transforming, e.baseline, e.offset
		e.setTransform(false)
		e.removeOffsets()
		err := e.recomputeOffset()
		e.applyOffsets()
		if wasTransforming {
			// Keep the original baseline, moved with the element.
			baseline.Translate(e.offset.X-before.X, e.offset.Y-before.Y)
			e.transforming, e.baseline = true, baseline
		}
		if err != nil {
			return err
		}
		e.draw()
		return nil
	})
}

// Remove drops all geometry and emits removed. Removing twice is a no-op.
func (e *Editor) Remove() error {
	return e.mutate(func() error {
		if e.removed {
			return nil
		}
		kind := e.geometry.Kind()
		e.removed = true
		e.geometry, e.baseline = nil, nil
		e.transforming, e.offsetsApplied = false, false
		e.active = -1
		e.opts.surface.Clear()
		e.pending = append(e.pending, Event{Type: EventRemoved, EditorID: e.id, Property: e.opts.property, Kind: kind})
		e.logger.Debug("Editor removed.")
		return nil
	})
}

// Removed reports whether Remove has run.
func (e *Editor) Removed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removed
}

// CSSValue serializes the shape in the units it was written with. A removed
// editor reports "none".
func (e *Editor) CSSValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cssValue(nil)
}

// CSSValueIn serializes the shape with every coordinate in unit. Unknown
// units fall back to px.
func (e *Editor) CSSValueIn(unit string) string {
	u, _ := units.ParseUnit(unit)
	if u == units.None {
		u = units.Px
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cssValue(&u)
}

// ConvertUnits advances the unit cycle, re-stamps every coordinate with the
// new unit and redraws. It returns the unit now in use.
func (e *Editor) ConvertUnits() (units.Unit, error) {
	var u units.Unit
	err := e.mutate(func() error {
		if e.removed {
			return ErrRemoved
		}
		e.cycle = e.cycle.Next()
		u = e.cycle.Current()
		e.geometry.ConvertUnits(u)
		if e.baseline != nil {
			e.baseline.ConvertUnits(u)
		}
		e.draw()
		return nil
	})
	return u, err
}

// Kind is the shape function being edited, or empty once removed.
func (e *Editor) Kind() shapes.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.geometry == nil {
		return ""
	}
	return e.geometry.Kind()
}

// Geometry returns an element relative copy of the shape, or nil once removed.
func (e *Editor) Geometry() shapes.Geometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.relative()
}

// Offset is the page position of the reference box origin.
func (e *Editor) Offset() layout.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

func (e *Editor) env() shapes.Environment {
	return shapes.Environment{Element: e.target, DefaultRefBox: e.opts.defaultRefBox}
}

func (e *Editor) recomputeOffset() error {
	box, _ := e.geometry.RefBox()
	x, y, err := layout.PageOffset(e.target, box)
	if err != nil {
		return fmt.Errorf("could not locate %s: %w", box, err)
	}
	e.offset = layout.Point{X: x, Y: y}
	return nil
}

// applyOffsets and removeOffsets strictly alternate; a repeated call does nothing.
func (e *Editor) applyOffsets() {
	if e.offsetsApplied || e.geometry == nil {
		return
	}
	e.geometry.Translate(e.offset.X, e.offset.Y)
	e.offsetsApplied = true
}

func (e *Editor) removeOffsets() {
	if !e.offsetsApplied || e.geometry == nil {
		return
	}
	e.geometry.Translate(-e.offset.X, -e.offset.Y)
	e.offsetsApplied = false
}

// relative returns a copy of the geometry with offsets taken off.
func (e *Editor) relative() shapes.Geometry {
	if e.geometry == nil {
		return nil
	}
	g := e.geometry.Clone()
	if e.offsetsApplied {
		g.Translate(-e.offset.X, -e.offset.Y)
	}
	return g
}

func (e *Editor) cssValue(override *units.Unit) string {
	g := e.relative()
	if g == nil {
		return shapes.None
	}
	box, _ := g.RefBox()
	conv, err := shapes.ConverterFor(e.target, box)
	if err != nil {
		e.logger.Warn("Could not build unit converter.", zap.Error(err))
		return ""
	}
	if override != nil {
		return g.SerializeIn(conv, *override)
	}
	return g.Serialize(conv)
}

// draw renders the current frame and queues shapechange.
func (e *Editor) draw() {
	if err := e.opts.surface.Render(e.scene()); err != nil {
		e.logger.Warn("Surface render failed.", zap.Error(err))
	}
	e.queue(EventShapeChange)
}

func (e *Editor) queue(t EventType) {
	e.pending = append(e.pending, Event{
		Type:     t,
		EditorID: e.id,
		Property: e.opts.property,
		Kind:     e.geometry.Kind(),
		Value:    e.cssValue(nil),
		Geometry: e.relative(),
	})
}

// mutate runs fn under the lock, then delivers the events fn queued. Handlers
// run unlocked so they may call back into the editor.
func (e *Editor) mutate(fn func() error) error {
	return locked(e, fn)
}

func locked[T any](e *Editor, fn func() T) T {
	e.mu.Lock()
	result := fn()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, ev := range pending {
		e.obs.emit(ev)
	}
	return result
}
