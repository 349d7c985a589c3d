package stamp

import (
	"fmt"
	"image"

	"golang.org/x/image/draw" // replace by "image/draw" at some point

	"github.com/abworrall/phasepose/pkg/emath"
)

// Snapshot cuts a size x size grayscale grid, values 0-1, out of img,
// centered on c. Any part that falls off the image is left at 0.
func Snapshot(img image.Image, c image.Point, size int) (emath.FloatGrid, error) {
	r := SnapshotRect(c, size)
	if r.Intersect(img.Bounds()).Empty() {
		return emath.FloatGrid{}, fmt.Errorf("snapshot %s is outside image %s", r, img.Bounds())
	}

	gray := image.NewGray16(image.Rect(0, 0, size, size))
	draw.Draw(gray, gray.Bounds(), img, r.Min, draw.Src)

	g := emath.NewFloatGrid(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g.Set(x, y, float64(gray.Gray16At(x, y).Y)/0xFFFF)
		}
	}
	return g, nil
}
