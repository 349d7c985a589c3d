package stamp

// A few helper routines for golang's image libraries

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

func RectCenter(b image.Rectangle) image.Point {
	return image.Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// SnapshotRect is the square of side size centered on c, using the same
// center convention as emath.FloatGrid.
func SnapshotRect(c image.Point, size int) image.Rectangle {
	min := image.Point{c.X - size/2, c.Y - size/2}
	return image.Rectangle{Min: min, Max: min.Add(image.Point{size, size})}
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
