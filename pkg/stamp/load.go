package stamp

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"
)

func (s *Session) LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %w", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %w", arg, err)
			}
			for _, content := range contents {
				if err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default: // is a file, load it
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

func (s *Session) loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".png":
		f, err := loadFrame(filename, png.Decode)
		if err != nil {
			return fmt.Errorf("Loading %s as PNG failed: %w", filename, err)
		}
		s.AddFrame(f)

	case ".tif", ".tiff":
		f, err := loadFrame(filename, tiff.Decode)
		if err != nil {
			return fmt.Errorf("Loading %s as TIFF failed: %w", filename, err)
		}
		s.AddFrame(f)

	case ".yaml":
		cfg, err := loadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %w", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

func loadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %w", filename, err)
	}

	return newConfigFromYaml(contents)
}

func loadFrame(filename string, decode func(io.Reader) (image.Image, error)) (Frame, error) {
	f := Frame{LoadFilename: filename}

	// EXIF is optional; most PNGs won't have any.
	if reader, err := os.Open(filename); err != nil {
		return f, fmt.Errorf("open+r exif '%s': %w", filename, err)
	} else {
		readExif(reader, &f)
		reader.Close()
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return f, fmt.Errorf("open+r img '%s': %w", filename, err)
	} else {
		defer reader.Close()
		img, err := decode(reader)
		if err != nil {
			return f, fmt.Errorf("decoding '%s': %w", filename, err)
		}
		f.Image = img
	}

	return f, nil
}

func readExif(r io.Reader, f *Frame) {
	ex, err := exif.Decode(r)
	if err != nil {
		return
	}

	if tag, err := ex.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			f.CameraModel = strings.TrimSpace(model)
		}
	}
	if t, err := ex.DateTime(); err == nil {
		f.TakenAt = t
	}
}
