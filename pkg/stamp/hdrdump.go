package stamp

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/phasepose/pkg/emath"
)

// phaseImage shows a FloatGrid as an hdr.Image, so an unwrapped phase map
// keeps its full range. RGBE can't hold negatives, so values are shifted
// up by the grid minimum.
type phaseImage struct {
	*emath.FloatGrid
	min float64
}

func newPhaseImage(g *emath.FloatGrid) phaseImage {
	min, _ := g.MinMax()
	return phaseImage{FloatGrid: g, min: min}
}

// Implement image.Image
func (pi phaseImage) ColorModel() color.Model  { return hdrcolor.RGBModel }
func (pi phaseImage) Bounds() image.Rectangle { return pi.FloatGrid.Bounds() }
func (pi phaseImage) At(x, y int) color.Color { return pi.HDRAt(x, y) }

// Implement hdr.Image
func (pi phaseImage) HDRAt(x, y int) hdrcolor.Color {
	v := pi.Get(x, y) - pi.min
	return hdrcolor.RGB{R: v, G: v, B: v}
}
func (pi phaseImage) Size() int { return pi.Dx() * pi.Dy() }

// WritePhaseHDR outputs a Radiance .hdr of a phase grid.
func WritePhaseHDR(g *emath.FloatGrid, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WritePhaseHDR, open+w '%s': %w", filename, err)
	} else {
		defer writer.Close()
		err := rgbe.Encode(writer, newPhaseImage(g))
		if err != nil {
			log.Printf("WritePhaseHDR, encoding RGBE file: %v\n", err)
		}
		return err
	}
}
