package stamp

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/phasepose/pkg/emath"
)

// candidateColor gives each candidate its own hue.
func candidateColor(i, n int) color.Color {
	if n < 1 {
		n = 1
	}
	return colorful.Hsv(360.0*float64(i)/float64(n), 0.8, 1.0)
}

// DrawOverlay saves a copy of the frame with each candidate's snapshot
// outlined, and the pattern axes of each found pose drawn in.
func DrawOverlay(cfg Config, f Frame, results []Result, filename string) error {
	dc := gg.NewContextForImage(f.Image)
	dc.SetLineWidth(2)

	axisLen := float64(cfg.SnapshotSize) / 2

	for i, r := range results {
		dc.SetColor(candidateColor(i, len(results)))

		snap := SnapshotRect(image.Point{r.X, r.Y}, cfg.SnapshotSize)
		dc.DrawRectangle(float64(snap.Min.X), float64(snap.Min.Y), float64(snap.Dx()), float64(snap.Dy()))
		dc.Stroke()

		cx, cy := float64(r.X), float64(r.Y)
		if !r.Found {
			dc.DrawString("not found", float64(snap.Min.X)+2, float64(snap.Min.Y)-4)
			continue
		}

		// Pattern +x runs against plane 1's gradient, +y against plane 2's;
		// turn them back from camera axes into image axes.
		for j, theta := range []float64{r.Plane1.Angle(), r.Plane2.Angle()} {
			ux, uy := turnOffset(-math.Cos(theta), -math.Sin(theta), -cfg.CameraQuarterTurns)
			ex, ey := cx+axisLen*ux, cy+axisLen*uy
			dc.DrawLine(cx, cy, ex, ey)
			dc.Stroke()
			dc.DrawCircle(ex, ey, 3)
			dc.Fill()
			dc.DrawString([]string{"x", "y"}[j], ex+4, ey+4)
		}
		dc.DrawString(fmt.Sprintf("%s %s", r.Name, r.Pose), float64(snap.Min.X)+2, float64(snap.Min.Y)-4)
	}

	return dc.SavePNG(filename)
}

// DumpPhaseMaps writes the unwrapped phase maps of each found result, as
// PNGs to look at and as .hdr files to measure.
func DumpPhaseMaps(cfg Config, f Frame, results []Result) error {
	stem := strings.TrimSuffix(f.Filename(), filepath.Ext(f.Filename()))
	for _, r := range results {
		if !r.Found || r.Phase1 == nil {
			continue
		}
		for j, phase := range []*emath.FloatGrid{r.Phase1, r.Phase2} {
			base := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s-%s-phase%d", stem, r.Name, j+1))
			if err := phase.ToImg(fmt.Sprintf("%s phase %d", r.Name, j+1), base+".png"); err != nil {
				return fmt.Errorf("dump %s: %w", base, err)
			}
			if err := WritePhaseHDR(phase, base+".hdr"); err != nil {
				return fmt.Errorf("dump %s: %w", base, err)
			}
		}
	}
	return nil
}
