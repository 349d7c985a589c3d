package stamp

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
)

// A Session holds the frames to look at, and the config to look at them
// with.
type Session struct {
	Frames []Frame
	Config

	Results [][]Result // per frame, per candidate
	Stats   *RunStats
}

func NewSession() Session {
	return Session{
		Frames: []Frame{},
		Config: NewConfig(),
		Stats:  NewRunStats(),
	}
}

func (s Session) String() string {
	str := "Session [\n"
	for _, f := range s.Frames {
		str += fmt.Sprintf("  %s\n", f)
	}
	return str + "]\n"
}

// AddFrame keeps frames in the order they were taken, falling back to
// filename order.
func (s *Session) AddFrame(f Frame) {
	s.Frames = append(s.Frames, f)
	sort.SliceStable(s.Frames, func(i, j int) bool {
		ti, tj := s.Frames[i].TakenAt, s.Frames[j].TakenAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return s.Frames[i].LoadFilename < s.Frames[j].LoadFilename
	})
}

// Run looks for the pattern in every frame, and writes out whatever debug
// output the config asks for.
func (s *Session) Run() error {
	d, err := NewDetector(s.Config)
	if err != nil {
		return err
	}
	if s.Stats == nil {
		s.Stats = NewRunStats()
	}

	log.Printf("Detecting over %d frames, %d candidates each\n", len(s.Frames), len(s.Candidates))

	s.Results = make([][]Result, len(s.Frames))
	for i, f := range s.Frames {
		results := d.Detect(f.Image)
		s.Results[i] = results
		for _, r := range results {
			s.Stats.Add(r)
		}

		if s.DumpPhaseMaps {
			if err := DumpPhaseMaps(s.Config, f, results); err != nil {
				return fmt.Errorf("frame %s: %w", f.Filename(), err)
			}
		}
		if s.OverlayFilename != "" {
			filename := filepath.Join(s.OutputDir, overlayName(s.OverlayFilename, f, len(s.Frames)))
			if err := DrawOverlay(s.Config, f, results, filename); err != nil {
				return fmt.Errorf("frame %s: %w", f.Filename(), err)
			}
		}
	}

	if s.Verbosity > 0 {
		log.Printf("%s", s.Stats)
	}
	return nil
}

// overlayName adds the frame's name to the overlay filename when there's
// more than one frame.
func overlayName(name string, f Frame, nFrames int) string {
	if nFrames < 2 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(f.Filename(), filepath.Ext(f.Filename()))
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(name, ext), stem, ext)
}
