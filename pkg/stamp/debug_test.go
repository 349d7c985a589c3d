package stamp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/phasepose/pkg/emath"
	"github.com/abworrall/phasepose/pkg/pose"
)

func fileSize(t *testing.T, filename string) int64 {
	t.Helper()
	info, err := os.Stat(filename)
	require.NoError(t, err)
	return info.Size()
}

func TestWritePhaseHDR(t *testing.T) {
	g := emath.NewFloatGrid(8, 4)
	for i := range g.Values() {
		g.Values()[i] = float64(i) - 10 // negatives get shifted up
	}

	pi := newPhaseImage(&g)
	assert.Equal(t, 32, pi.Size())
	assert.Equal(t, g.Bounds(), pi.Bounds())
	c, ok := pi.HDRAt(0, 0).(hdrcolor.RGB)
	require.True(t, ok)
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, 31.0, pi.HDRAt(7, 3).(hdrcolor.RGB).G)

	filename := filepath.Join(t.TempDir(), "phase.hdr")
	require.NoError(t, WritePhaseHDR(&g, filename))
	assert.Greater(t, fileSize(t, filename), int64(0))

	assert.Error(t, WritePhaseHDR(&g, filepath.Join(t.TempDir(), "nodir", "phase.hdr")))
}

func TestDrawOverlayAndDump(t *testing.T) {
	cam := camera{x: 2, y: 1, alpha: 0.3, pixelSize: 0.5}
	f := Frame{LoadFilename: "grid.png", Image: renderGrid(200, 160, 5, cam)}

	cfg := testConfig()
	cfg.DumpPhaseMaps = true
	cfg.OutputDir = t.TempDir()
	cfg.Candidates = []Candidate{{Name: "a", X: 100, Y: 80}, {Name: "gone", X: -500, Y: 0}}
	d, err := NewDetector(cfg)
	require.NoError(t, err)
	results := d.Detect(f)

	overlay := filepath.Join(cfg.OutputDir, "overlay.png")
	require.NoError(t, DrawOverlay(cfg, f, results, overlay))
	assert.Greater(t, fileSize(t, overlay), int64(0))

	require.NoError(t, DumpPhaseMaps(cfg, f, results))
	for _, name := range []string{"grid-a-phase1.png", "grid-a-phase2.png", "grid-a-phase1.hdr", "grid-a-phase2.hdr"} {
		assert.Greater(t, fileSize(t, filepath.Join(cfg.OutputDir, name)), int64(0), name)
	}
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "grid-gone-phase1.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCandidateColors(t *testing.T) {
	r1, g1, b1, _ := candidateColor(0, 3).RGBA()
	r2, g2, b2, _ := candidateColor(1, 3).RGBA()
	assert.NotEqual(t, []uint32{r1, g1, b1}, []uint32{r2, g2, b2})

	_, _, _, a := candidateColor(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

func TestRunStats(t *testing.T) {
	s := NewRunStats()
	s.Add(Result{Found: true, Residual1: 0.01, Residual2: 0.02, Duration: 3 * time.Millisecond})
	s.Add(Result{Found: true, Residual1: 0.03, Residual2: 0.01, Duration: 5 * time.Millisecond})
	s.Add(Result{Err: pose.ErrPatternNotFound, Duration: time.Microsecond})
	s.Add(Result{Found: true, Duration: 0})

	assert.Equal(t, 3, s.Found)
	assert.Equal(t, 1, s.Missed)
	assert.InDelta(t, 5000, s.LatencyQuantile(100), 10)
	assert.Contains(t, s.String(), "found 3, missed 1")
}

func TestSessionRun(t *testing.T) {
	cam := camera{x: 2, y: 1, alpha: 0.3, pixelSize: 0.5}

	s := NewSession()
	s.Config = testConfig()
	s.OutputDir = t.TempDir()
	s.OverlayFilename = "overlay.png"
	s.AddFrame(Frame{LoadFilename: "one.png", Image: renderGrid(200, 160, 5, cam)})
	s.AddFrame(Frame{LoadFilename: "two.png", Image: renderNoise(200, 160, 1)})

	require.NoError(t, s.Run())
	require.Len(t, s.Results, 2)
	require.Len(t, s.Results[0], 1)
	assert.True(t, s.Results[0][0].Found)
	assert.False(t, s.Results[1][0].Found)
	assert.Equal(t, 1, s.Stats.Found)
	assert.Equal(t, 1, s.Stats.Missed)

	assert.Greater(t, fileSize(t, filepath.Join(s.OutputDir, "overlay-one.png")), int64(0))
	assert.Greater(t, fileSize(t, filepath.Join(s.OutputDir, "overlay-two.png")), int64(0))

	s.Workers = 0
	assert.Error(t, s.Run())
}

func TestOverlayName(t *testing.T) {
	f := Frame{LoadFilename: "/x/frame7.tif"}
	assert.Equal(t, "ov.png", overlayName("ov.png", f, 1))
	assert.Equal(t, "ov-frame7.png", overlayName("ov.png", f, 2))
}
