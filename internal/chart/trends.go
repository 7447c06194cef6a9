package chart

import (
	"fmt"
	"math"

	"github.com/pfrederiksen/nhl-scores/internal/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	trendsWidth    = 7 * vg.Inch
	trendsHeight   = 8.5 * vg.Inch
	trendsTitlePad = 0.6 * vg.Inch
)

type series struct {
	label  string
	values func(stats.YearTrend) float64
}

// Trends writes four stacked panels: mean winner and loser scores, mean
// combined score, mean differential and games played. Years without scored
// games leave a gap in every line.
func Trends(trends []stats.YearTrend, title, path string) error {
	panels := []struct {
		title  string
		series []series
	}{
		{"Mean scores", []series{
			{"Winner", func(t stats.YearTrend) float64 { return t.MeanWinning }},
			{"Loser", func(t stats.YearTrend) float64 { return t.MeanLosing }},
		}},
		{"Mean combined score", []series{
			{"", func(t stats.YearTrend) float64 { return t.MeanTotal }},
		}},
		{"Mean score differential", []series{
			{"", func(t stats.YearTrend) float64 { return t.MeanDiff }},
		}},
		{"Games played", []series{
			{"", func(t stats.YearTrend) float64 { return float64(t.GamesPlayed) }},
		}},
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p, err := trendPanel(trends, panel.title, panel.series)
		if err != nil {
			return fmt.Errorf("%s panel: %w", panel.title, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(trendsWidth, trendsHeight)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    trendsTitlePad,
		PadBottom: vg.Millimeter,
		PadLeft:   vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	header := plot.New()
	header.Title.Text = title
	header.Title.TextStyle.Font.Size = vg.Points(16)
	header.HideAxes()
	header.Draw(draw.Crop(dc, 0, 0, trendsHeight-trendsTitlePad, 0))

	return writePNG(img, path)
}

func trendPanel(trends []stats.YearTrend, title string, lines []series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range lines {
		segments := splitAtNaN(trends, s.values)
		for j, xys := range segments {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			line.LineStyle.Color = plotutil.Color(i)
			line.LineStyle.Width = vg.Points(1.2)
			p.Add(line)
			if j == 0 && s.label != "" {
				p.Legend.Add(s.label, line)
			}
		}
	}

	return p, nil
}

// splitAtNaN breaks a series into runs of consecutive finite points
func splitAtNaN(trends []stats.YearTrend, value func(stats.YearTrend) float64) []plotter.XYs {
	var segments []plotter.XYs
	var current plotter.XYs

	for _, t := range trends {
		v := value(t)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: float64(t.Year), Y: v})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}
