package game

import (
	"encoding/json"
	"fmt"
)

// TableStatus records how a season table was found on the page
type TableStatus int

const (
	// TableAbsent means the page has no such table
	TableAbsent TableStatus = iota
	// TablePresent means the table was parsed; it may still have zero rows
	TablePresent
	// TableMalformed means the table exists but lacks a header or body section
	TableMalformed
)

func (s TableStatus) String() string {
	switch s {
	case TableAbsent:
		return "absent"
	case TablePresent:
		return "present"
	case TableMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("TableStatus(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its name
func (s TableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name
func (s *TableStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "absent", "":
		*s = TableAbsent
	case "present":
		*s = TablePresent
	case "malformed":
		*s = TableMalformed
	default:
		return fmt.Errorf("unknown table status %q", name)
	}
	return nil
}

// Game types, used as keys in the persisted archive
const (
	TypeRegular = "regular"
	TypePlayoff = "playoff"
)

// SeasonGames holds the regular season and playoff games of one season
type SeasonGames struct {
	Regular       []Game      `json:"regular"`
	Playoff       []Game      `json:"playoff"`
	RegularStatus TableStatus `json:"regular_status"`
	PlayoffStatus TableStatus `json:"playoff_status"`
}

// NewSeasonGames creates a season with empty, non-nil game lists
func NewSeasonGames() *SeasonGames {
	return &SeasonGames{
		Regular: make([]Game, 0),
		Playoff: make([]Game, 0),
	}
}

// ByType returns the games of one type ("regular" or "playoff")
func (s *SeasonGames) ByType(kind string) []Game {
	switch kind {
	case TypeRegular:
		return s.Regular
	case TypePlayoff:
		return s.Playoff
	default:
		return nil
	}
}

// All returns regular season games followed by playoff games
func (s *SeasonGames) All() []Game {
	all := make([]Game, 0, len(s.Regular)+len(s.Playoff))
	all = append(all, s.Regular...)
	all = append(all, s.Playoff...)
	return all
}

// Empty reports whether either list has no games
func (s *SeasonGames) Empty() bool {
	return len(s.Regular) == 0 || len(s.Playoff) == 0
}
