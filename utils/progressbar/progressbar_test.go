package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	assert.Equal(t, 1.0, p.Progress())

	p.Display()
	assert.Contains(t, out.String(), "100.00%")
	assert.Equal(t, 10, strings.Count(out.String(), "█"))
}

func TestManualProgressBarPartial(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)
	p.Increment()

	p.Display()
	assert.Equal(t, 0.25, p.Progress())
	assert.Contains(t, out.String(), "25.00%")
}
