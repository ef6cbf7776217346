package localstream

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when media reports a non-positive size.
var ErrInvalidGeometry = errors.New("invalid media geometry")

// Geometry is the natural pixel size of visual media.
type Geometry struct {
	Width  int
	Height int
	Ratio  float64 // Width / Height, always recomputed
}

// NewGeometry builds a Geometry and computes its aspect ratio.
func NewGeometry(width, height int) (Geometry, error) {
	if width <= 0 || height <= 0 {
		return Geometry{}, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}
	return Geometry{
		Width:  width,
		Height: height,
		Ratio:  float64(width) / float64(height),
	}, nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d (%.4f)", g.Width, g.Height, g.Ratio)
}
