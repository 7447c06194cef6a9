package stats

// Default histogram extents: losing scores 0-10, winning scores 0-17
const (
	DefaultLosingBins  = 10
	DefaultWinningBins = 17
)

// ScoreGrid is a 2-D histogram of final scores with unit-width bins.
// Bin i covers [i, i+1), except the last bin of each axis which also takes
// the upper edge. Scores beyond the upper edge are not counted.
type ScoreGrid struct {
	LosingBins  int
	WinningBins int
	Counts      [][]float64 // [losing][winning]
	Total       float64     // sum of all cells
}

// NewScoreGrid bins the scored games of a summary
func NewScoreGrid(s *Summary, losingBins, winningBins int) *ScoreGrid {
	g := &ScoreGrid{
		LosingBins:  losingBins,
		WinningBins: winningBins,
		Counts:      make([][]float64, losingBins),
	}
	for i := range g.Counts {
		g.Counts[i] = make([]float64, winningBins)
	}

	for i := range s.WinningScores {
		l, ok := bin(s.LosingScores[i], losingBins)
		if !ok {
			continue
		}
		w, ok := bin(s.WinningScores[i], winningBins)
		if !ok {
			continue
		}
		g.Counts[l][w]++
		g.Total++
	}
	return g
}

func bin(v, n int) (int, bool) {
	switch {
	case v < 0 || v > n:
		return 0, false
	case v == n:
		return n - 1, true
	default:
		return v, true
	}
}

// Normalize returns a copy whose cells hold densities that sum to 1.
// An empty grid stays all zeros.
func (g *ScoreGrid) Normalize() *ScoreGrid {
	out := &ScoreGrid{
		LosingBins:  g.LosingBins,
		WinningBins: g.WinningBins,
		Counts:      make([][]float64, len(g.Counts)),
	}
	for i, row := range g.Counts {
		out.Counts[i] = make([]float64, len(row))
		for j, v := range row {
			if g.Total > 0 {
				out.Counts[i][j] = v / g.Total
			}
		}
	}
	if g.Total > 0 {
		out.Total = 1
	}
	return out
}

// At returns the value of a cell
func (g *ScoreGrid) At(losing, winning int) float64 {
	return g.Counts[losing][winning]
}

// Max returns the largest cell value
func (g *ScoreGrid) Max() float64 {
	max := 0.0
	for _, row := range g.Counts {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}
