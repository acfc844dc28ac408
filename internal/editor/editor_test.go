package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
	"github.com/xkilldash9x/shapes-cli/internal/config"
	"github.com/xkilldash9x/shapes-cli/internal/shapes"
	"github.com/xkilldash9x/shapes-cli/internal/surface"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

// pageElement is a layout.Element placed somewhere on the page.
type pageElement struct {
	rect    layout.Rect
	style   layout.ComputedStyle
	scrollX float64
	scrollY float64
}

func (e *pageElement) BoundingClientRect() layout.Rect     { return e.rect }
func (e *pageElement) ComputedStyle() layout.ComputedStyle { return e.style }
func (e *pageElement) ScrollOffset() (float64, float64)    { return e.scrollX, e.scrollY }
func (e *pageElement) Viewport() (float64, float64)        { return 1280, 720 }

func elementAt(x, y float64) *pageElement {
	return &pageElement{
		rect:  layout.Rect{X: x, Y: y, Width: 400, Height: 200},
		style: layout.ComputedStyle{FontSize: 16, RootFontSize: 16},
	}
}

// recorder collects event types in delivery order.
type recorder struct {
	events []Event
}

func (r *recorder) handler(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func newEditor(t *testing.T, el layout.Element, value string, opts ...Option) (*Editor, *surface.Memory) {
	t.Helper()
	mem := surface.NewMemory()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithSurface(mem)}, opts...)
	e, err := New(el, value, opts...)
	require.NoError(t, err)
	return e, mem
}

func TestNew(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		_, err := New(nil, "circle()")
		assert.ErrorIs(t, err, shapes.ErrInvalidTarget)
	})

	t.Run("none", func(t *testing.T) {
		_, err := New(elementAt(0, 0), "none")
		assert.ErrorIs(t, err, shapes.ErrNotAShapeFunction)
	})

	t.Run("parse errors surface", func(t *testing.T) {
		_, err := New(elementAt(0, 0), "circle(-5px)", WithLogger(zaptest.NewLogger(t)))
		assert.ErrorIs(t, err, shapes.ErrInvalidRadius)
	})

	t.Run("ready after the first draw", func(t *testing.T) {
		rec := &recorder{}
		e, mem := newEditor(t, elementAt(50, 30), "circle(50px at 100px 100px)",
			WithObserver(EventReady, rec.handler),
			WithObserver(EventShapeChange, rec.handler),
		)
		if diff := cmp.Diff([]EventType{EventShapeChange, EventReady}, rec.types()); diff != "" {
			t.Errorf("unexpected event order (-want +got):\n%s", diff)
		}
		assert.Equal(t, e.ID(), rec.events[1].EditorID)
		assert.Equal(t, DefaultProperty, rec.events[1].Property)
		assert.Equal(t, "circle(50px at 100px 100px)", rec.events[1].Value)
		assert.Equal(t, 1, mem.Frames())
	})
}

func TestOffsets(t *testing.T) {
	e, mem := newEditor(t, elementAt(50, 30), "polygon(nonzero, 0px 0px, 100px 0px, 100px 100px)")

	assert.Equal(t, layout.Point{X: 50, Y: 30}, e.Offset())
	assert.Equal(t, "polygon(nonzero, 0px 0px, 100px 0px, 100px 100px)", e.CSSValue())

	scene := mem.Scene()
	require.Len(t, scene.Path, 3)
	assert.Equal(t, layout.Point{X: 150, Y: 130}, scene.Path[2], "drawn in page space")

	poly, ok := e.Geometry().(*shapes.Polygon)
	require.True(t, ok)
	assert.Equal(t, 100.0, poly.Vertices[2].Y.Px, "reported relative to the box")
}

func TestCSSValueIn(t *testing.T) {
	e, _ := newEditor(t, elementAt(50, 30), "polygon(nonzero, 0px 0px, 100px 0px, 100px 100px)")
	assert.Equal(t, "polygon(nonzero, 0% 0%, 25% 0%, 25% 50%)", e.CSSValueIn("%"))
	assert.Equal(t, "polygon(nonzero, 0px 0px, 100px 0px, 100px 100px)", e.CSSValueIn("furlongs"))
	assert.Equal(t, "polygon(nonzero, 0px 0px, 100px 0px, 100px 100px)", e.CSSValueIn(""))
}

func TestUpdate(t *testing.T) {
	rec := &recorder{}
	e, _ := newEditor(t, elementAt(10, 10), "polygon(0px 0px, 10px 0px, 10px 10px)")
	e.On(EventShapeChange, rec.handler)

	require.NoError(t, e.Update("circle(20px at 30px 40px) border-box"))
	assert.Equal(t, shapes.KindCircle, e.Kind())
	assert.Equal(t, "circle(20px at 30px 40px) border-box", e.CSSValue())
	require.Len(t, rec.events, 1)
	assert.Equal(t, "circle(20px at 30px 40px) border-box", rec.events[0].Value)

	err := e.Update("ellipse(-1px 2px)")
	assert.ErrorIs(t, err, shapes.ErrInvalidRadius)
	assert.Equal(t, "circle(20px at 30px 40px) border-box", e.CSSValue(), "a bad value keeps the old shape")
	assert.Equal(t, layout.Point{X: 10, Y: 10}, e.Offset())
	assert.Len(t, rec.events, 1)
}

func TestUpdateKeepsFreeTransform(t *testing.T) {
	e, mem := newEditor(t, elementAt(0, 0), "circle(10px at 10px 10px)")
	require.NoError(t, e.TurnOnFreeTransform())
	require.NoError(t, e.Update("ellipse(10px 20px at 50px 50px)"))
	assert.True(t, e.Transforming())
	assert.True(t, mem.Scene().Transforming)

	require.NoError(t, e.ApplyTransform(layout.ScaleMatrix(2, 2)))
	assert.Equal(t, "ellipse(20px 40px at 100px 100px)", e.CSSValue(), "baseline follows the new value")
}

func TestRejectedUpdateKeepsFreeTransformBaseline(t *testing.T) {
	e, mem := newEditor(t, elementAt(0, 0), "polygon(0px 0px, 100px 0px, 100px 100px)")
	require.NoError(t, e.TurnOnFreeTransform())
	require.NoError(t, e.ApplyTransform(layout.ScaleMatrix(2, 2)))

	before := mem.Scene()
	require.Error(t, e.Update("polygon(oops)"))
	assert.True(t, e.Transforming())
	assert.Equal(t, "polygon(0px 0px, 200px 0px, 200px 200px)", e.CSSValue())
	if diff := cmp.Diff(before, mem.Scene()); diff != "" {
		t.Errorf("rejected value redrew the shape (-before +after):\n%s", diff)
	}

	require.NoError(t, e.ApplyTransform(layout.ScaleMatrix(3, 3)))
	assert.Equal(t, "polygon(0px 0px, 300px 0px, 300px 300px)", e.CSSValue(), "3x of the untouched baseline")
}

func TestRemove(t *testing.T) {
	rec := &recorder{}
	e, mem := newEditor(t, elementAt(0, 0), "polygon(0px 0px, 10px 0px, 10px 10px)")
	e.On(EventRemoved, rec.handler)

	require.NoError(t, e.Update("none"))
	assert.True(t, e.Removed())
	assert.True(t, mem.Cleared())
	assert.Equal(t, shapes.None, e.CSSValue())
	assert.Nil(t, e.Geometry())
	assert.Empty(t, e.Kind())
	require.Len(t, rec.events, 1)
	assert.Equal(t, shapes.KindPolygon, rec.events[0].Kind)

	assert.ErrorIs(t, e.Update("circle()"), ErrRemoved)
	assert.ErrorIs(t, e.Refresh(), ErrRemoved)
	assert.ErrorIs(t, e.TurnOnFreeTransform(), ErrRemoved)
	_, err := e.ConvertUnits()
	assert.ErrorIs(t, err, ErrRemoved)
	assert.False(t, e.PointerDown(layout.Point{}))
	assert.False(t, e.DoubleClick(layout.Point{}))

	assert.NoError(t, e.Remove())
	assert.NoError(t, e.Update("none"))
	assert.Len(t, rec.events, 1, "removed fires once")
}

func TestRefresh(t *testing.T) {
	el := elementAt(50, 30)
	e, mem := newEditor(t, el, "polygon(0px 0px, 100px 0px, 100px 100px)")

	el.rect.X, el.rect.Y = 80, 60
	el.scrollY = 15
	require.NoError(t, e.Refresh())
	assert.Equal(t, layout.Point{X: 80, Y: 75}, e.Offset())
	assert.Equal(t, layout.Point{X: 80, Y: 75}, mem.Scene().Path[0])
	assert.Equal(t, "polygon(0px 0px, 100px 0px, 100px 100px)", e.CSSValue())

	before := mem.Scene()
	require.NoError(t, e.Refresh())
	if diff := cmp.Diff(before, mem.Scene()); diff != "" {
		t.Errorf("second refresh moved the shape (-first +second):\n%s", diff)
	}
}

func TestDefaultRefBox(t *testing.T) {
	el := elementAt(0, 0)
	el.style.Padding = layout.Edges{Top: 10, Right: 10, Bottom: 10, Left: 10}

	e, _ := newEditor(t, el, "circle(5px at 0 0)", WithDefaultRefBox("content-box"))
	assert.Equal(t, layout.Point{X: 10, Y: 10}, e.Offset())
	assert.Equal(t, "circle(5px at 0 0)", e.CSSValue())

	e, _ = newEditor(t, el, "circle(5px at 0 0)", WithDefaultRefBox("view-box"))
	assert.Equal(t, layout.Point{}, e.Offset())
}

func TestConvertUnits(t *testing.T) {
	e, _ := newEditor(t, elementAt(0, 0), "polygon(0px 0px, 400px 0px, 400px 200px)")

	u, err := e.ConvertUnits()
	require.NoError(t, err)
	assert.Equal(t, units.Percent, u)
	assert.Equal(t, "polygon(0% 0%, 100% 0%, 100% 100%)", e.CSSValue())

	u, err = e.ConvertUnits()
	require.NoError(t, err)
	assert.Equal(t, units.Em, u)
	assert.Equal(t, "polygon(0em 0em, 25em 0em, 25em 12.5em)", e.CSSValue())

	t.Run("custom cycle", func(t *testing.T) {
		e, _ := newEditor(t, elementAt(0, 0), "circle(10px at 20px 20px)", WithUnitCycle(units.Px, units.Rem))
		u, err := e.ConvertUnits()
		require.NoError(t, err)
		assert.Equal(t, units.Rem, u)
		u, _ = e.ConvertUnits()
		assert.Equal(t, units.Px, u)
	})
}

func TestObservers(t *testing.T) {
	e, _ := newEditor(t, elementAt(0, 0), "circle(10px at 20px 20px)")

	var seen []string
	cancel := e.On(EventShapeChange, func(Event) { seen = append(seen, e.CSSValue()) })
	require.NoError(t, e.Update("circle(11px at 20px 20px)"))
	cancel()
	cancel()
	require.NoError(t, e.Update("circle(12px at 20px 20px)"))
	assert.Equal(t, []string{"circle(11px at 20px 20px)"}, seen, "handlers may read back from the editor")

	count := 0
	e.On(EventShapeChange, func(Event) { count++ })
	e.On(EventShapeChange, func(Event) { count++ })
	require.NoError(t, e.Refresh())
	assert.Equal(t, 2, count)
	e.Off(EventShapeChange)
	require.NoError(t, e.Refresh())
	assert.Equal(t, 2, count)
}

func TestFromConfig(t *testing.T) {
	cfg := config.EditorConfig{
		DefaultRefBox: "border-box",
		PointRadius:   6,
		EdgeTieBreak:  "closest",
		MinVertices:   3,
		UnitCycle:     []string{"px", "vw", "bogus"},
		Property:      "clip-path",
	}
	o := defaultOptions()
	for _, opt := range FromConfig(cfg) {
		opt(&o)
	}
	assert.Equal(t, layout.BorderBox, o.defaultRefBox)
	assert.Equal(t, 6.0, o.pointRadius)
	assert.Equal(t, TieBreakClosest, o.tieBreak)
	assert.Equal(t, 3, o.minVertices)
	assert.Equal(t, 2, o.cycle.Len())
	assert.Equal(t, "clip-path", o.property)
}
