package stamp

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func TestLoadFilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	require.NoError(t, WritePNG(renderGrid(40, 30, 5, camera{pixelSize: 0.5}), filepath.Join(dir, "b.png")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cfg.yaml"), []byte("physicalperiod: 7\nverbosity: 1\n"), 0644))

	f, err := os.Create(filepath.Join(sub, "a.tif"))
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, image.NewGray(image.Rect(0, 0, 16, 8)), nil))
	require.NoError(t, f.Close())

	s := NewSession()
	require.NoError(t, s.LoadFilesAndDirs(dir))

	assert.Equal(t, 7.0, s.PhysicalPeriod)
	assert.Equal(t, 1, s.Verbosity)

	require.Len(t, s.Frames, 2)
	assert.Equal(t, "b.png", s.Frames[0].Filename())
	assert.Equal(t, image.Rect(0, 0, 40, 30), s.Frames[0].Bounds())
	assert.Equal(t, "a.tif", s.Frames[1].Filename())
	assert.Equal(t, image.Rect(0, 0, 16, 8), s.Frames[1].Bounds())

	// No EXIF in these
	assert.Equal(t, "", s.Frames[0].CameraModel)
	assert.True(t, s.Frames[0].TakenAt.IsZero())
	assert.Contains(t, s.String(), "b.png")
}

func TestLoadErrors(t *testing.T) {
	s := NewSession()
	assert.Error(t, s.LoadFilesAndDirs(filepath.Join(t.TempDir(), "missing.png")))

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0644))
	assert.Error(t, s.LoadFilesAndDirs(bad))

	badYaml := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badYaml, []byte("workers: [1"), 0644))
	assert.Error(t, s.LoadFilesAndDirs(badYaml))
}

func TestAddFrameOrder(t *testing.T) {
	t0 := time.Date(2024, 4, 8, 18, 0, 0, 0, time.UTC)
	img := image.NewGray(image.Rect(0, 0, 2, 2))

	s := NewSession()
	s.AddFrame(Frame{LoadFilename: "c.png", TakenAt: t0.Add(time.Second), Image: img})
	s.AddFrame(Frame{LoadFilename: "b.png", TakenAt: t0, Image: img})
	s.AddFrame(Frame{LoadFilename: "a.png", TakenAt: t0, Image: img})

	names := []string{}
	for _, f := range s.Frames {
		names = append(names, f.Filename())
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, names)
}

func TestFrameString(t *testing.T) {
	f := Frame{
		LoadFilename: "/some/where/x.tif",
		CameraModel:  "NIKON Df",
		TakenAt:      time.Date(2017, 8, 21, 11, 34, 53, 0, time.UTC),
		Image:        image.NewGray(image.Rect(0, 0, 10, 6)),
	}
	assert.Equal(t, "x.tif: (0,0)-(10,6), NIKON Df, 2017-08-21T11:34:53Z", f.String())
	assert.Equal(t, image.Point{5, 3}, f.Center())
}

func TestSnapshot(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(1000*x + y)})
		}
	}

	g, err := Snapshot(img, image.Point{10, 5}, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, g.Dx())
	assert.Equal(t, 8, g.Dy())

	// The grid center lands on the requested point
	cx, cy := g.Center()
	assert.InDelta(t, float64(1000*10+5)/0xFFFF, g.Get(cx, cy), 1e-12)
	assert.InDelta(t, float64(1000*6+1)/0xFFFF, g.Get(0, 0), 1e-12)

	// Hanging off the edge reads as black
	g, err = Snapshot(img, image.Point{0, 0}, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.Get(0, 0))
	assert.InDelta(t, float64(1000*1+2)/0xFFFF, g.Get(5, 6), 1e-12)

	_, err = Snapshot(img, image.Point{100, 100}, 8)
	assert.Error(t, err)
}

func TestSnapshotRect(t *testing.T) {
	assert.Equal(t, image.Rect(6, 1, 14, 9), SnapshotRect(image.Point{10, 5}, 8))
	assert.Equal(t, image.Rect(7, 2, 14, 9), SnapshotRect(image.Point{10, 5}, 7))
}
