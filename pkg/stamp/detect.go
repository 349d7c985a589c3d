package stamp

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/abworrall/phasepose/pkg/emath"
	"github.com/abworrall/phasepose/pkg/phaseplane"
	"github.com/abworrall/phasepose/pkg/pose"
	"github.com/abworrall/phasepose/pkg/spectrum"
	"github.com/abworrall/phasepose/pkg/unwrap"
)

// A Result is what came of looking for the pattern around one candidate.
type Result struct {
	Candidate

	Found bool
	Err   error // why not found
	Pose  pose.Pose

	Peak1, Peak2         spectrum.Peak
	Plane1, Plane2       phaseplane.Plane // in camera axes, about the snapshot center
	Residual1, Residual2 float64          // RMS, radians

	Duration time.Duration

	// Unwrapped phase maps, only kept when Config.DumpPhaseMaps is set
	Phase1, Phase2 *emath.FloatGrid
}

func (r Result) String() string {
	if !r.Found {
		return fmt.Sprintf("%s: %v", r.Candidate, r.Err)
	}
	return fmt.Sprintf("%s: %s (resid %.3f,%.3f; %s)", r.Candidate, r.Pose, r.Residual1, r.Residual2, r.Duration)
}

// A Detector runs the phase pipeline over the candidates in a frame.
type Detector struct {
	Config
	shifter pose.PeriodShiftResolver
}

func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	shifter, err := cfg.GetPeriodShifter()
	if err != nil {
		return nil, err
	}
	return &Detector{Config: cfg, shifter: shifter}, nil
}

type detectJob struct {
	// Inputs for the job
	Index     int
	Candidate Candidate

	// Output
	Result Result
}

// Detect uses a pool of goroutines to look at each candidate in img, and
// returns one result per candidate, in candidate order. With no
// candidates configured it looks at the middle of the image.
func (d *Detector) Detect(img image.Image) []Result {
	cands := d.Candidates
	if len(cands) == 0 {
		c := RectCenter(img.Bounds())
		cands = []Candidate{{Name: "center", X: c.X, Y: c.Y}}
	}

	var wg sync.WaitGroup
	jobsChan := make(chan detectJob, len(cands))
	resultsChan := make(chan detectJob, len(cands))

	// Kick off worker pool
	nWorkers := d.Workers
	if nWorkers > len(cands) {
		nWorkers = len(cands)
	}
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				job.Result = d.DetectCandidate(img, job.Candidate)
				resultsChan <- job
			}
		}()
	}

	// Feed in jobs
	for i, c := range cands {
		jobsChan <- detectJob{Index: i, Candidate: c}
	}

	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	jobs := []detectJob{}
	for job := range resultsChan {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Index < jobs[j].Index })

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = job.Result
	}
	return results
}

// DetectCandidate runs the whole pipeline for a single candidate. The
// pose is reported for the center of img, not the snapshot.
func (d *Detector) DetectCandidate(img image.Image, c Candidate) (r Result) {
	start := time.Now()
	r.Candidate = c
	defer func() { r.Duration = time.Since(start) }()

	if err := d.detect(img, &r); err != nil {
		r.Err = err
		if d.Verbosity > 0 {
			log.Printf("%s: %v\n", c, err)
		}
		return r
	}

	r.Found = true
	if d.Verbosity > 0 {
		log.Printf("%s\n", r)
	}
	return r
}

func (d *Detector) detect(img image.Image, r *Result) error {
	snapCenter := image.Point{r.X, r.Y}
	snap, err := Snapshot(img, snapCenter, d.SnapshotSize)
	if err != nil {
		return fmt.Errorf("%w: %v", pose.ErrPatternNotFound, err)
	}

	spectrum.RemoveMean(&snap)
	spectrum.HannWindow(&snap)
	spec := spectrum.New(&snap)

	var ok bool
	r.Peak1, r.Peak2, ok = spec.FindPeaks(d.PeakSearch())
	if !ok {
		return fmt.Errorf("%w: no spectral peaks", pose.ErrPatternNotFound)
	}
	if d.Verbosity > 1 {
		log.Printf("%s: peaks %s, %s\n", r.Candidate, r.Peak1, r.Peak2)
	}

	p1, res1, phase1, err := d.fitPeak(spec, r.Peak1)
	if err != nil {
		return err
	}
	p2, res2, phase2, err := d.fitPeak(spec, r.Peak2)
	if err != nil {
		return err
	}
	r.Residual1, r.Residual2 = res1, res2
	if d.DumpPhaseMaps {
		r.Phase1, r.Phase2 = phase1, phase2
	}

	// From image axes into camera axes
	p1 = p1.TurnQuarters(d.CameraQuarterTurns)
	p2 = pose.AlignSecondPlane(p1, p2.TurnQuarters(d.CameraQuarterTurns))
	r.Plane1, r.Plane2 = p1, p2

	if ortho := pose.Orthogonality(p1, p2); ortho > emath.Deg2Rad(d.OrthogonalityTolDeg) {
		return fmt.Errorf("%w: planes are %.1fdeg off orthogonal", pose.ErrPatternNotFound, emath.Rad2Deg(ortho))
	}

	imgCenter := RectCenter(img.Bounds())
	dx, dy := turnOffset(float64(imgCenter.X-snapCenter.X), float64(imgCenter.Y-snapCenter.Y), d.CameraQuarterTurns)

	opts := d.Reconstruction()
	atSnap, err := pose.Reconstruct(p1, p2, opts)
	if err != nil {
		return err
	}

	if d.shifter != nil && r.HasCoarse {
		// The coarse position is for the image center; move it back to
		// the snapshot center, where the planes were fitted.
		moved := atSnap.CompensateSnapshotOffset(dx, dy)
		cx := r.CoarseX - (moved.X - atSnap.X)
		cy := r.CoarseY - (moved.Y - atSnap.Y)
		if opts.PhysicalPeriod <= 0 && opts.PixelScale > 0 {
			cx, cy = cx/opts.PixelScale, cy/opts.PixelScale
		}
		opts = pose.ResolveShifts(d.shifter, p1, p2, opts, cx, cy)
		if atSnap, err = pose.Reconstruct(p1, p2, opts); err != nil {
			return err
		}
	}

	r.Pose = atSnap.CompensateSnapshotOffset(dx, dy)
	return nil
}

// fitPeak demodulates one peak, unwraps it and fits a plane to it. The
// peak is only good to a bin, so the plane's own frequency is used to
// demodulate again, RefinePasses times.
func (d *Detector) fitPeak(spec *spectrum.Spectrum, pk spectrum.Peak) (phaseplane.Plane, float64, *emath.FloatGrid, error) {
	u, v := float64(pk.U), float64(pk.V)

	var p phaseplane.Plane
	var phase, weights emath.FloatGrid
	for pass := 0; pass <= d.RefinePasses; pass++ {
		var amp emath.FloatGrid
		phase, amp = spec.PhaseMapAt(u, v, d.FilterSigma)
		if err := unwrap.UnwrapInPlace(&phase); err != nil {
			return phaseplane.Plane{}, 0, nil, fmt.Errorf("unwrap %s: %w", pk, err)
		}

		weights = d.fitWeights(&amp)
		var err error
		p, err = phaseplane.Fit(&phase, &weights)
		if errors.Is(err, phaseplane.ErrDegenerateFit) {
			return phaseplane.Plane{}, 0, nil, fmt.Errorf("%w: %v", pose.ErrPatternNotFound, err)
		} else if err != nil {
			return phaseplane.Plane{}, 0, nil, err
		}

		u = p.A * float64(spec.W) / emath.TwoPi
		v = p.B * float64(spec.H) / emath.TwoPi
	}

	return p, phaseplane.FitResidual(&phase, &weights, p), &phase, nil
}

// fitWeights uses the demodulated amplitude as confidence, dropping the
// margin (where the window has killed the signal and the unwrap is least
// trustworthy) and anything too weak.
func (d *Detector) fitWeights(amp *emath.FloatGrid) emath.FloatGrid {
	w := amp.NewFromThis()
	m := d.FitMargin
	for y := m; y < amp.Dy()-m; y++ {
		for x := m; x < amp.Dx()-m; x++ {
			if a := amp.Get(x, y); a >= d.MinAmplitude {
				w.Set(x, y, a)
			}
		}
	}
	return w
}

// turnOffset re-expresses an image offset in camera axes, matching
// phaseplane.Plane.TurnQuarters.
func turnOffset(dx, dy float64, quarters int) (float64, float64) {
	quarters %= 4
	if quarters < 0 {
		quarters += 4
	}
	for i := 0; i < quarters; i++ {
		dx, dy = -dy, dx
	}
	return dx, dy
}
