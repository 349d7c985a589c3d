package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/abworrall/phasepose/pkg/stamp"
)

var (
	fVerbosity     int
	fPeriod        float64
	fPixelScale    float64
	fSnapshotSize  int
	fWorkers       int
	fQuarterTurns  int
	fPeriodShifter string
	fOverlay       string
	fOutputDir     string
	fDumpMaps      bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.Float64Var(&fPeriod, "period", 0, "physical pattern period, in pattern units (0: report in pixels)")
	flag.Float64Var(&fPixelScale, "pixelscale", 0, "pattern units per pixel, if the period is not known")
	flag.IntVar(&fSnapshotSize, "snapshot", 0, "snapshot size in pixels (0: use config)")
	flag.IntVar(&fWorkers, "workers", 0, "how many candidates to work on at once (0: use config)")
	flag.IntVar(&fQuarterTurns, "quarterturns", 0, "clockwise quarter turns from image axes to camera axes")
	flag.StringVar(&fPeriodShifter, "shifter", "", "how to pick the period shift: fixed, nearest (default: use config)")
	flag.StringVar(&fOverlay, "overlay", "", "write an overlay PNG of the poses to this file")
	flag.StringVar(&fOutputDir, "outdir", "", "where to write debug output (default: use config)")
	flag.BoolVar(&fDumpMaps, "dumpmaps", false, "write out the unwrapped phase maps as PNG and HDR")
	flag.Parse()

	log.Printf("phasepose starting\n")
}

func main() {
	s := stamp.NewSession()
	if err := s.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	if len(s.Frames) == 0 {
		log.Fatal("no frames loaded")
	}

	// Flags override the yaml, but only when set
	if fVerbosity > 0 {
		s.Config.Verbosity = fVerbosity
	}
	s.Config.DumpPhaseMaps = s.Config.DumpPhaseMaps || fDumpMaps
	s.Config.CameraQuarterTurns += fQuarterTurns
	if fPeriod > 0 {
		s.Config.PhysicalPeriod = fPeriod
	}
	if fPixelScale > 0 {
		s.Config.PixelScale = fPixelScale
	}
	if fSnapshotSize > 0 {
		s.Config.SnapshotSize = fSnapshotSize
	}
	if fWorkers > 0 {
		s.Config.Workers = fWorkers
	}
	if fPeriodShifter != "" {
		s.Config.PeriodShifter = fPeriodShifter
	}
	if fOverlay != "" {
		s.Config.OverlayFilename = fOverlay
	}
	if fOutputDir != "" {
		s.Config.OutputDir = fOutputDir
	}

	if s.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", s.Config.AsYaml())
	}

	if err := s.Run(); err != nil {
		log.Fatal(err)
	}

	for i, f := range s.Frames {
		for _, r := range s.Results[i] {
			if r.Found {
				fmt.Printf("%s %s: %s\n", f.Filename(), r.Name, r.Pose)
			} else {
				fmt.Printf("%s %s: pattern not found\n", f.Filename(), r.Name)
			}
		}
	}

	log.Printf("%s", s.Stats)
}
