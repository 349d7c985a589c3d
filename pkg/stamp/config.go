package stamp

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/phasepose/pkg/pose"
	"github.com/abworrall/phasepose/pkg/spectrum"
)

type Config struct {
	Verbosity int

	PhysicalPeriod float64 // pattern units per period; 0 if not known
	PixelScale     float64 // pattern units per pixel, only used when PhysicalPeriod is 0

	SnapshotSize        int     // pixels, square
	FitMargin           int     // pixels around the snapshot edge left out of the plane fit
	MinPeakRadius       float64 // bins
	MinPeakRatio        float64
	OrthogonalityTolDeg float64
	FilterSigma         float64 // bins
	RefinePasses        int     // extra demodulations at the fitted frequency
	MinAmplitude        float64 // phase samples weaker than this (0-1) are not fitted

	CameraQuarterTurns int // clockwise quarter turns from image axes to camera axes

	PeriodShifter string // "fixed" or "nearest"
	FixedShift1   int
	FixedShift2   int

	Workers    int
	Candidates []Candidate

	DumpPhaseMaps   bool
	OverlayFilename string
	OutputDir       string
}

// A Candidate is a place in the frame that might hold the pattern, as
// found by some outside marker detector.
type Candidate struct {
	Name string
	X, Y int // snapshot center, pixels

	// Where we roughly think the camera is, for picking the period shift.
	HasCoarse        bool
	CoarseX, CoarseY float64
}

func (c Candidate) String() string {
	if c.HasCoarse {
		return fmt.Sprintf("%s@(%d,%d)~(%g,%g)", c.Name, c.X, c.Y, c.CoarseX, c.CoarseY)
	}
	return fmt.Sprintf("%s@(%d,%d)", c.Name, c.X, c.Y)
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func NewConfig() Config {
	return Config{
		SnapshotSize:        128,
		FitMargin:           4,
		MinPeakRadius:       3,
		MinPeakRatio:        5,
		OrthogonalityTolDeg: 15,
		FilterSigma:         2,
		RefinePasses:        1,
		MinAmplitude:        0.1,
		PeriodShifter:       "fixed",
		Workers:             4,
		Candidates:          []Candidate{},
		OutputDir:           ".",
	}
}

// Finalize checks the config hangs together, after yaml and flags have
// both had their say.
func (c Config) Finalize() error {
	switch {
	case c.SnapshotSize < 8:
		return fmt.Errorf("config: snapshot size %d too small", c.SnapshotSize)
	case 2*c.FitMargin >= c.SnapshotSize:
		return fmt.Errorf("config: fit margin %d leaves nothing of a %d snapshot", c.FitMargin, c.SnapshotSize)
	case c.FilterSigma <= 0:
		return fmt.Errorf("config: filter sigma must be positive, not %g", c.FilterSigma)
	case c.RefinePasses < 0:
		return fmt.Errorf("config: negative refine passes %d", c.RefinePasses)
	case c.Workers < 1:
		return fmt.Errorf("config: need at least one worker, not %d", c.Workers)
	case c.PhysicalPeriod < 0:
		return fmt.Errorf("config: negative physical period %g", c.PhysicalPeriod)
	}
	if _, err := c.GetPeriodShifter(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GetPeriodShifter returns nil for "fixed": the shifts then come straight
// from FixedShift1 and FixedShift2.
func (c Config) GetPeriodShifter() (pose.PeriodShiftResolver, error) {
	switch c.PeriodShifter {
	case "fixed", "":
		return nil, nil
	case "nearest":
		return pose.NearestShift{}, nil
	default:
		return nil, fmt.Errorf("no PeriodShifter strategy named '%s'", c.PeriodShifter)
	}
}

func (c Config) PeakSearch() spectrum.PeakSearch {
	return spectrum.PeakSearch{
		MinRadius:           c.MinPeakRadius,
		MinPeakRatio:        c.MinPeakRatio,
		OrthogonalityTolDeg: c.OrthogonalityTolDeg,
	}
}

func (c Config) Reconstruction() pose.Reconstruction {
	return pose.Reconstruction{
		PhysicalPeriod: c.PhysicalPeriod,
		PixelScale:     c.PixelScale,
		PeriodShift1:   c.FixedShift1,
		PeriodShift2:   c.FixedShift2,
	}
}
