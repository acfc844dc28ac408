package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/xkilldash9x/shapes-cli/internal/units"
)

const svgNS = "http://www.w3.org/2000/svg"

// SVG is a Memory surface that can write its current frame as an SVG overlay.
type SVG struct {
	*Memory
	width, height float64
	stroke        string
}

// NewSVG returns an overlay of the given page size.
func NewSVG(width, height float64) *SVG {
	return &SVG{Memory: NewMemory(), width: width, height: height, stroke: "#e20074"}
}

// Document builds the SVG document for the current frame.
func (s *SVG) Document() *etree.Document {
	scene := s.Scene()
	num := units.FormatNumber

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNS)
	root.CreateAttr("width", num(s.width))
	root.CreateAttr("height", num(s.height))

	g := root.CreateElement("g")
	g.CreateAttr("fill", "none")
	g.CreateAttr("stroke", s.stroke)
	if scene.Transforming {
		g.CreateAttr("stroke-dasharray", "4 2")
	}

	if len(scene.Path) > 0 {
		var d strings.Builder
		for i, p := range scene.Path {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s%s %s ", cmd, num(p.X), num(p.Y))
		}
		d.WriteString("Z")
		g.CreateElement("path").CreateAttr("d", d.String())
	}
	if e := scene.Ellipse; e != nil {
		el := g.CreateElement("ellipse")
		el.CreateAttr("cx", num(e.Center.X))
		el.CreateAttr("cy", num(e.Center.Y))
		el.CreateAttr("rx", num(e.RX))
		el.CreateAttr("ry", num(e.RY))
	}
	if r := scene.Rect; r != nil {
		el := g.CreateElement("rect")
		el.CreateAttr("x", num(r.X))
		el.CreateAttr("y", num(r.Y))
		el.CreateAttr("width", num(r.Width))
		el.CreateAttr("height", num(r.Height))
		if r.RX > 0 || r.RY > 0 {
			el.CreateAttr("rx", num(r.RX))
			el.CreateAttr("ry", num(r.RY))
		}
	}

	if len(scene.Handles) > 0 {
		handles := root.CreateElement("g")
		handles.CreateAttr("class", "handles")
		handles.CreateAttr("fill", s.stroke)
		for _, h := range scene.Handles {
			c := handles.CreateElement("circle")
			c.CreateAttr("cx", num(h.X))
			c.CreateAttr("cy", num(h.Y))
			c.CreateAttr("r", num(scene.PointRadius))
		}
	}

	doc.Indent(2)
	return doc
}

// WriteTo writes the current frame as an SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	return s.Document().WriteTo(w)
}
