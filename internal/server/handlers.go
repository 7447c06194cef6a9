package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pfrederiksen/nhl-scores/internal/filter"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/pfrederiksen/nhl-scores/internal/stats"
)

// Handler contains the archive served by the API
type Handler struct {
	archive *game.Archive
}

// NewHandler creates a new handler
func NewHandler(archive *game.Archive) *Handler {
	if archive == nil {
		archive = game.NewArchive()
	}
	return &Handler{archive: archive}
}

// SeasonInfo summarizes one collected season
type SeasonInfo struct {
	Year          int              `json:"year"`
	Season        string           `json:"season"`
	RegularGames  int              `json:"regular_games"`
	PlayoffGames  int              `json:"playoff_games"`
	RegularStatus game.TableStatus `json:"regular_status"`
	PlayoffStatus game.TableStatus `json:"playoff_status"`
}

// SeasonsResponse lists the collected seasons and the years that failed
type SeasonsResponse struct {
	Seasons  []SeasonInfo   `json:"seasons"`
	Failures []game.Failure `json:"failures"`
	Games    int            `json:"games"`
}

// SeasonResponse holds every game of one season
type SeasonResponse struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
	*game.SeasonGames
}

// SummaryResponse is the overall analysis of the selected games
type SummaryResponse struct {
	Filter  string         `json:"filter"`
	Summary *stats.Summary `json:"summary"`
}

// TrendsResponse holds per-season scoring means of the selected games
type TrendsResponse struct {
	Filter string            `json:"filter"`
	Trends []stats.YearTrend `json:"trends"`
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"service":    "nhl-scores",
		"run_id":     h.archive.RunID,
		"updated_at": h.archive.UpdatedAt,
		"seasons":    len(h.archive.Seasons),
		"games":      h.archive.GameCount(),
	})
}

// ListSeasons returns every collected season in ascending order
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	report := game.NewReport(h.archive)

	resp := SeasonsResponse{
		Seasons:  make([]SeasonInfo, 0, len(report.Succeeded)),
		Failures: report.Failed,
		Games:    report.Games,
	}
	for _, year := range report.Succeeded {
		s := h.archive.Seasons[year]
		resp.Seasons = append(resp.Seasons, SeasonInfo{
			Year:          year,
			Season:        game.SeasonLabel(year),
			RegularGames:  len(s.Regular),
			PlayoffGames:  len(s.Playoff),
			RegularStatus: s.RegularStatus,
			PlayoffStatus: s.PlayoffStatus,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetSeason returns the games of one season
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year", err)
		return
	}

	season, ok := h.archive.Season(year)
	if !ok {
		if reason, failed := h.archive.Failures[year]; failed {
			respondError(w, http.StatusNotFound, fmt.Sprintf("season %d was not collected: %s", year, reason), nil)
			return
		}
		respondError(w, http.StatusNotFound, fmt.Sprintf("season %d not found", year), nil)
		return
	}

	respondJSON(w, http.StatusOK, SeasonResponse{
		Year:        year,
		Season:      game.SeasonLabel(year),
		SeasonGames: season,
	})
}

// GetSummary analyzes the games selected by the query
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	f, err := queryFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		Filter:  f.String(),
		Summary: stats.Analyze(f.Apply(h.archive)),
	})
}

// GetTrends returns per-season scoring means of the games selected by the query
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	f, err := queryFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid filter", err)
		return
	}

	respondJSON(w, http.StatusOK, TrendsResponse{
		Filter: f.String(),
		Trends: stats.Trends(f.ByYear(h.archive)),
	})
}

// GetMetrics returns the request counters and timings recorded so far
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

// queryFilter builds a filter from the years, type, team and exclude query parameters
func queryFilter(r *http.Request) (*filter.Filter, error) {
	q := r.URL.Query()
	f := filter.NewFilter()

	if years := q.Get("years"); years != "" {
		from, to, err := filter.ParseYearRange(years)
		if err != nil {
			return nil, err
		}
		f.FromYear, f.ToYear = from, to
	}

	if kinds := q.Get("type"); kinds != "" {
		types, err := filter.ParseTypes(kinds)
		if err != nil {
			return nil, err
		}
		f.Types = types
	}

	if teams := q.Get("team"); teams != "" {
		f.Teams = filter.ParseList(teams)
	}

	if exclude := q.Get("exclude"); exclude != "" {
		for _, item := range filter.ParseList(exclude) {
			year, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("invalid excluded year %q", item)
			}
			f.ExcludeYears = append(f.ExcludeYears, year)
		}
	}

	return f, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", nil, err)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	respondJSON(w, status, body)
}
