package emath

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"gonum.org/v1/gonum/floats"
)

// A FloatGrid is a grid of floats, with some operations. Phase maps,
// amplitude maps and grayscale snapshots all live in one of these.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

// NewFloatGridFromRows copies a row-major [][]float64 into a grid. All
// rows must be the same length.
func NewFloatGridFromRows(rows [][]float64) (FloatGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return FloatGrid{}, fmt.Errorf("grid from rows: no values")
	}
	w := len(rows[0])
	g := NewFloatGrid(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return FloatGrid{}, fmt.Errorf("grid from rows: row %d has %d values, want %d", y, len(row), w)
		}
		copy(g.values[y*w:(y+1)*w], row)
	}
	return g, nil
}

func (g1 *FloatGrid) NewFromThis() FloatGrid   { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid) Set(x, y int, v float64)   { fg.values[fg.stride*y+x] = v }
func (fg *FloatGrid) Get(x, y int) float64      { return fg.values[fg.stride*y+x] }
func (fg *FloatGrid) Stride() int               { return fg.stride }
func (fg *FloatGrid) Values() []float64         { return fg.values } // row-major, shared with the grid
func (fg *FloatGrid) IsEmpty() bool             { return fg.stride == 0 || len(fg.values) == 0 }
func (fg *FloatGrid) Bounds() image.Rectangle   { return image.Rect(0, 0, fg.Dx(), fg.Dy()) }
func (fg *FloatGrid) Center() (int, int)        { return fg.Dx() / 2, fg.Dy() / 2 }

func (fg *FloatGrid) Dx() int { return fg.stride }
func (fg *FloatGrid) Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (g1 *FloatGrid) Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Rows returns a copy of the grid as row-major slices.
func (fg *FloatGrid) Rows() [][]float64 {
	rows := make([][]float64, fg.Dy())
	for y := range rows {
		rows[y] = make([]float64, fg.stride)
		copy(rows[y], fg.values[y*fg.stride:(y+1)*fg.stride])
	}
	return rows
}

func (fg *FloatGrid) Mean() float64 {
	if len(fg.values) == 0 {
		return 0
	}
	return floats.Sum(fg.values) / float64(len(fg.values))
}

// AddScalar adds v to every value in the grid.
func (fg *FloatGrid) AddScalar(v float64) {
	floats.AddConst(v, fg.values)
}

// MinMax returns the smallest and largest values in the grid.
func (fg *FloatGrid) MinMax() (float64, float64) {
	if len(fg.values) == 0 {
		return 0, 0
	}
	return floats.Min(fg.values), floats.Max(fg.values)
}

func (fg *FloatGrid) Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision
func (fg *FloatGrid) ToImg(title, filename string) error {
	min, max := fg.MinMax()
	span := max - min
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{fg.Dx(), fg.Dy()}})
	for x := 0; x < fg.Dx(); x++ {
		for y := 0; y < fg.Dy(); y++ {
			gray := GammaExpand_F64((fg.Get(x, y) - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 0.2, 0.2)
	dc.DrawString(title, 4, 12)
	return dc.SavePNG(filename)
}

// A Strip is a strided 1D view into a grid's backing values, so a row
// or a column can be walked without copying it out.
type Strip struct {
	values []float64
	offset int
	step   int
	n      int
}

// Row returns a view of row y, indexed by x.
func (fg *FloatGrid) Row(y int) Strip {
	return Strip{values: fg.values, offset: y * fg.stride, step: 1, n: fg.stride}
}

// Col returns a view of column x, indexed by y.
func (fg *FloatGrid) Col(x int) Strip {
	return Strip{values: fg.values, offset: x, step: fg.stride, n: fg.Dy()}
}

func (s Strip) Len() int             { return s.n }
func (s Strip) At(i int) float64     { return s.values[s.offset+i*s.step] }
func (s Strip) Set(i int, v float64) { s.values[s.offset+i*s.step] = v }

// IsPhaseWrapped reports whether every value lies in (-π, π].
func (fg *FloatGrid) IsPhaseWrapped() bool {
	for _, v := range fg.values {
		if !(v > -math.Pi && v <= math.Pi) {
			return false
		}
	}
	return true
}
