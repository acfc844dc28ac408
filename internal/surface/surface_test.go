package surface

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/shapes-cli/internal/browser/layout"
)

func triangle() Scene {
	pts := []layout.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	return Scene{Path: pts, Handles: pts, PointRadius: 4}
}

func TestMemoryHitVertex(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Render(triangle()))

	i, ok := m.HitVertex(layout.Point{X: 98, Y: 3}, 4)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = m.HitVertex(layout.Point{X: 50, Y: 50}, 4)
	assert.False(t, ok)

	t.Run("topmost handle wins", func(t *testing.T) {
		s := triangle()
		s.Handles = append(s.Handles, layout.Point{X: 101, Y: 1})
		require.NoError(t, m.Render(s))
		i, ok := m.HitVertex(layout.Point{X: 100, Y: 0}, 4)
		assert.True(t, ok)
		assert.Equal(t, 3, i)
	})
}

func TestMemoryKeepsACopy(t *testing.T) {
	m := NewMemory()
	s := triangle()
	require.NoError(t, m.Render(s))
	s.Handles[0] = layout.Point{X: 500, Y: 500}

	_, ok := m.HitVertex(layout.Point{X: 500, Y: 500}, 4)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Frames())

	m.Clear()
	assert.True(t, m.Cleared())
	assert.Empty(t, m.Scene().Handles)
}

func TestSVGDocument(t *testing.T) {
	s := NewSVG(800, 600)
	scene := triangle()
	scene.Ellipse = &Ellipse{Center: layout.Point{X: 50, Y: 50}, RX: 20, RY: 10}
	scene.Rect = &RoundRect{Rect: layout.Rect{X: 1, Y: 2, Width: 3, Height: 4}, RX: 1, RY: 1}
	require.NoError(t, s.Render(scene))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "svg", root.Tag)
	assert.Equal(t, "800", root.SelectAttrValue("width", ""))

	path := doc.FindElement("//path")
	require.NotNil(t, path)
	assert.Equal(t, "M0 0 L100 0 L100 100 Z", path.SelectAttrValue("d", ""))
	assert.Len(t, doc.FindElements("//circle"), 3)

	ellipse := doc.FindElement("//ellipse")
	require.NotNil(t, ellipse)
	assert.Equal(t, "20", ellipse.SelectAttrValue("rx", ""))
	assert.NotNil(t, doc.FindElement("//rect"))
}
