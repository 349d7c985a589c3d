package stamp

import (
	"fmt"
	"image"
	"path/filepath"
	"time"
)

// A Frame holds an image.Image loaded from an input file, plus whatever
// the file told us about the camera.
type Frame struct {
	LoadFilename string
	CameraModel  string
	TakenAt      time.Time // zero if the file had no EXIF timestamp

	image.Image
}

func (f Frame) String() string {
	str := fmt.Sprintf("%s: %s", f.Filename(), f.Bounds())
	if f.CameraModel != "" {
		str += fmt.Sprintf(", %s", f.CameraModel)
	}
	if !f.TakenAt.IsZero() {
		str += fmt.Sprintf(", %s", f.TakenAt.Format(time.RFC3339))
	}
	return str
}

func (f Frame) Filename() string {
	return filepath.Base(f.LoadFilename)
}

// Center is the image point that poses are reported for.
func (f Frame) Center() image.Point {
	return RectCenter(f.Bounds())
}
