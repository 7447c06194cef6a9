// Package chart renders score distributions and scoring trends as PNG images.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/pfrederiksen/nhl-scores/internal/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	distWidth     = 6.5 * vg.Inch
	distHeight    = 8.5 * vg.Inch
	colorBarWidth = 1.1 * vg.Inch
	paletteSize   = 255
)

// DistributionOptions controls a score distribution heat map.
// Cells below Min are drawn white and cells above Max take the top color;
// zero bounds are taken from the data.
type DistributionOptions struct {
	Title string
	Log   bool // color by log10 of the cell value
	Min   float64
	Max   float64
}

// scoreCells adapts a ScoreGrid to plotter.GridXYZ.
// Empty cells map to -Inf so they fall below any color range.
type scoreCells struct {
	grid *stats.ScoreGrid
	log  bool
}

func (c scoreCells) Dims() (int, int) {
	return c.grid.LosingBins, c.grid.WinningBins
}

func (c scoreCells) Z(col, row int) float64 {
	v := c.grid.At(col, row)
	if v <= 0 {
		return math.Inf(-1)
	}
	if c.log {
		return math.Log10(v)
	}
	return v
}

func (c scoreCells) X(col int) float64 {
	return float64(col) + 0.5
}

func (c scoreCells) Y(row int) float64 {
	return float64(row) + 0.5
}

// colorRange returns the bounds of the color scale in the cell value space
func colorRange(grid *stats.ScoreGrid, opts DistributionOptions) (float64, float64) {
	lo, hi := opts.Min, opts.Max
	if hi <= 0 {
		hi = grid.Max()
	}

	if opts.Log {
		if lo <= 0 {
			lo = smallestCell(grid)
		}
		lo, hi = math.Log10(lo), math.Log10(math.Max(hi, lo))
	}

	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// smallestCell returns the smallest non-zero cell, or 1 for an empty grid
func smallestCell(grid *stats.ScoreGrid) float64 {
	lo := math.Inf(1)
	for _, row := range grid.Counts {
		for _, v := range row {
			if v > 0 && v < lo {
				lo = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 1
	}
	return lo
}

// ScoreDistribution writes a heat map of losing score (x) against winning score (y)
func ScoreDistribution(grid *stats.ScoreGrid, path string, opts DistributionOptions) error {
	lo, hi := colorRange(grid, opts)

	colors := moreland.ExtendedBlackBody()
	colors.SetMin(lo)
	colors.SetMax(hi)
	pal := colors.Palette(paletteSize)

	hm := plotter.NewHeatMap(scoreCells{grid: grid, log: opts.Log}, pal)
	hm.Min, hm.Max = lo, hi
	hm.Underflow = nil
	hm.Overflow = topColor(pal)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Losing score"
	p.Y.Label.Text = "Winning score"
	p.X.Min, p.X.Max = 0, float64(grid.LosingBins)
	p.Y.Min, p.Y.Max = 0, float64(grid.WinningBins)
	p.X.Tick.Marker = integerTicks{}
	p.Y.Tick.Marker = integerTicks{}
	p.Add(hm, plotter.NewGrid())

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: colors, Vertical: true})
	bar.HideX()
	if opts.Log {
		bar.Y.Label.Text = "log10"
	}
	bar.Y.Padding = 0

	img := vgimg.New(distWidth, distHeight)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(dc, distWidth-colorBarWidth, 0, vg.Inch, -vg.Inch))

	return writePNG(img, path)
}

func topColor(pal palette.Palette) color.Color {
	colors := pal.Colors()
	if len(colors) == 0 {
		return nil
	}
	return colors[len(colors)-1]
}

// integerTicks labels each unit bin at its center
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		ticks = append(ticks, plot.Tick{Value: v})
		if v+0.5 < max {
			ticks = append(ticks, plot.Tick{Value: v + 0.5, Label: fmt.Sprintf("%d", int(v))})
		}
	}
	return ticks
}

func writePNG(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
