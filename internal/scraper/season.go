package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
)

// Table ids on a season results page
const (
	RegularTableID = "games"
	PlayoffTableID = "games_playoffs"
)

// Collector fetches and parses whole seasons
type Collector struct {
	fetcher Fetcher
}

// NewCollector creates a collector that reads pages through f
func NewCollector(f Fetcher) *Collector {
	return &Collector{fetcher: f}
}

// CollectSeason fetches one season page and returns its regular season and playoff games.
// Only fetch and document errors are returned; a missing or malformed table
// yields an empty list and a matching status.
func (c *Collector) CollectSeason(ctx context.Context, year int) (*game.SeasonGames, error) {
	body, err := c.fetcher.FetchSeason(ctx, year)
	if err != nil {
		return nil, err
	}

	season, err := ParseSeason(bytes.NewReader(body), year)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}
	return season, nil
}

// ParseSeason parses both results tables of a season page
func ParseSeason(r io.Reader, year int) (*game.SeasonGames, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	season := game.NewSeasonGames()

	season.Regular, season.RegularStatus, err = collectTable(doc, RegularTableID, year)
	if err != nil {
		return nil, err
	}
	season.Playoff, season.PlayoffStatus, err = collectTable(doc, PlayoffTableID, year)
	if err != nil {
		return nil, err
	}

	return season, nil
}

func collectTable(doc *goquery.Document, id string, year int) ([]game.Game, game.TableStatus, error) {
	table, err := ParseTable(doc, id)
	if err == nil {
		return table.Games, game.TablePresent, nil
	}

	if errors.Is(err, ErrTableNotFound) {
		logger.Debug("Table not on page", logger.Fields{"year": year, "table": id})
		return make([]game.Game, 0), game.TableAbsent, nil
	}

	var structErr *StructuralParseError
	if errors.As(err, &structErr) {
		logger.Warn("Malformed table", logger.Fields{
			"year":   year,
			"table":  id,
			"reason": structErr.Reason,
		})
		return make([]game.Game, 0), game.TableMalformed, nil
	}

	return nil, game.TableAbsent, err
}
