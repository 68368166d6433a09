package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

// CellSize is the width and height in pixels of one grid cell
const CellSize = 80.0

var (
	lowColour      = color.RGBA{R: 214, G: 69, B: 65, A: 255}
	highColour     = color.RGBA{R: 76, G: 175, B: 80, A: 255}
	gridColour     = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	arrowColour    = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	pathColour     = color.RGBA{R: 33, G: 99, B: 220, A: 200}
	terminalColour = color.RGBA{R: 255, G: 193, B: 7, A: 255}
)

// Scene is what gets drawn: a value heatmap with the greedy arrows of a
// policy and optionally the path an agent followed. Values, Policy and
// Path may each be nil.
type Scene struct {
	Grid   *grid.Spec
	Values *table.Value
	Policy *table.Policy
	Path   []grid.State
	Title  string
}

// Draw renders the scene onto a new drawing context
func Draw(s Scene) *gg.Context {
	n := float64(s.Grid.N())
	top := 0.0
	if s.Title != "" {
		top = CellSize / 2
	}
	dc := gg.NewContext(int(n*CellSize), int(n*CellSize+top))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if s.Title != "" {
		dc.SetColor(arrowColour)
		dc.DrawStringAnchored(s.Title, n*CellSize/2, top/2, 0.5, 0.5)
	}
	dc.Translate(0, top)

	drawCells(dc, s)
	if s.Policy != nil {
		drawPolicy(dc, s.Grid, s.Policy)
	}
	if len(s.Path) > 0 {
		drawPath(dc, s.Path)
	}
	return dc
}

// PNG renders the scene and saves it as a PNG image at filename
func PNG(filename string, s Scene) error {
	if err := Draw(s).SavePNG(filename); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	return nil
}

// EncodePNG renders the scene and writes it to w as a PNG image
func EncodePNG(w io.Writer, s Scene) error {
	if err := Draw(s).EncodePNG(w); err != nil {
		return fmt.Errorf("encodePNG: %w", err)
	}
	return nil
}

func drawCells(dc *gg.Context, s Scene) {
	var values []float64
	if s.Values != nil {
		for _, row := range s.Values.Rows() {
			values = append(values, row...)
		}
	}

	for _, st := range s.Grid.States() {
		x, y := float64(st.Col)*CellSize, float64(st.Row)*CellSize

		dc.DrawRectangle(x, y, CellSize, CellSize)
		switch {
		case s.Grid.IsTerminal(st):
			dc.SetColor(terminalColour)
		case values != nil:
			scale := floatutils.Scale(s.Values.At(st),
				floatutils.Range(values...))
			dc.SetColor(lerp(lowColour, highColour, scale))
		default:
			dc.SetRGB(0.95, 0.95, 0.95)
		}
		dc.FillPreserve()
		dc.SetColor(gridColour)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.SetColor(arrowColour)
		label := fmt.Sprintf("r=%g", s.Grid.Reward(st))
		if s.Values != nil {
			label = fmt.Sprintf("%.2f", s.Values.At(st))
		}
		dc.DrawStringAnchored(label, x+CellSize/2, y+CellSize/8, 0.5, 0.5)

		switch st {
		case s.Grid.Terminal():
			dc.DrawStringAnchored("G", x+CellSize/2, y+CellSize/2, 0.5, 0.5)
		case s.Grid.Start():
			dc.DrawStringAnchored("S", x+CellSize/8, y+CellSize*7/8, 0.5,
				0.5)
		}
	}
}

func drawPolicy(dc *gg.Context, g *grid.Spec, p *table.Policy) {
	dc.SetColor(arrowColour)
	dc.SetLineWidth(2)
	length := CellSize / 4

	for _, s := range g.NonTerminal() {
		dr, dcol := p.At(s).Delta()
		dx, dy := float64(dcol), float64(dr)
		cx := float64(s.Col)*CellSize + CellSize/2
		cy := float64(s.Row)*CellSize + CellSize/2

		tipX, tipY := cx+dx*length, cy+dy*length
		dc.DrawLine(cx-dx*length, cy-dy*length, tipX, tipY)
		dc.Stroke()

		// Arrow head, perpendicular to the heading is (-dy, dx)
		head := length / 2
		dc.MoveTo(tipX+dx*head/2, tipY+dy*head/2)
		dc.LineTo(tipX-dx*head/2-dy*head/2, tipY-dy*head/2+dx*head/2)
		dc.LineTo(tipX-dx*head/2+dy*head/2, tipY-dy*head/2-dx*head/2)
		dc.ClosePath()
		dc.Fill()
	}
}

func drawPath(dc *gg.Context, path []grid.State) {
	centre := func(s grid.State) (float64, float64) {
		return float64(s.Col)*CellSize + CellSize/2,
			float64(s.Row)*CellSize + CellSize/2
	}

	dc.SetColor(pathColour)
	dc.SetLineWidth(4)
	x, y := centre(path[0])
	dc.MoveTo(x, y)
	for _, s := range path[1:] {
		dc.LineTo(centre(s))
	}
	dc.Stroke()

	for _, s := range path {
		x, y := centre(s)
		dc.DrawCircle(x, y, 4)
		dc.Fill()
	}
}

func lerp(from, to color.RGBA, t float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	return color.RGBA{
		R: mix(from.R, to.R),
		G: mix(from.G, to.G),
		B: mix(from.B, to.B),
		A: 255,
	}
}
