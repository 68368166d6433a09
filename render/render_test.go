package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gridmdp/examples"
	"github.com/samuelfneumann/gridmdp/grid"
	"github.com/samuelfneumann/gridmdp/table"
)

func TestFormatPolicyMarksTerminal(t *testing.T) {
	g := examples.Simple()
	got := FormatPolicy(examples.SimplePolicy(), g)
	assert.Equal(t, "E E G\nE E N\nE E N", got)
}

func TestFormatValues(t *testing.T) {
	v := table.NewValue(2)
	v.Set(grid.State{Row: 0, Col: 1}, 1.5)
	v.Set(grid.State{Row: 1, Col: 0}, -2)

	got := FormatValues(v)
	assert.Contains(t, got, "1.50")
	assert.Contains(t, got, "-2.00")
	assert.Len(t, bytes.Split([]byte(got), []byte("\n")), 2)
}

func TestFormatPath(t *testing.T) {
	got := FormatPath([]grid.State{{Row: 1, Col: 0}, {Row: 0, Col: 0}})
	assert.Equal(t, "(1, 0) → (0, 0)", got)
}

func TestEncodePNG(t *testing.T) {
	g := examples.Simple()
	v := table.NewTerminalValue(g)
	v.Set(g.Start(), -3)

	var buf bytes.Buffer
	err := EncodePNG(&buf, Scene{
		Grid:   g,
		Values: v,
		Policy: examples.SimplePolicy(),
		Path:   []grid.State{g.Start(), {Row: 2, Col: 1}},
		Title:  "simple",
	})
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, int(3*CellSize), bounds.Dx())
	assert.Equal(t, int(3*CellSize+CellSize/2), bounds.Dy())
}

func TestPNGWritesFile(t *testing.T) {
	g := examples.Simple()
	err := PNG(filepath.Join(t.TempDir(), "grid.png"), Scene{Grid: g})
	assert.NoError(t, err)
}
