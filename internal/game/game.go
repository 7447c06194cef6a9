package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names used by hockey-reference season pages
const (
	FieldDate         = "date_game"
	FieldVisitorTeam  = "visitor_team_name"
	FieldVisitorGoals = "visitor_goals"
	FieldHomeTeam     = "home_team_name"
	FieldHomeGoals    = "home_goals"
	FieldOvertimes    = "overtimes"
	FieldAttendance   = "attendance"
	FieldDuration     = "game_duration"
	FieldRemarks      = "game_remarks"

	// BoxscoreLinkKey is the serialized key holding the boxscore link
	BoxscoreLinkKey = "boxscore_link"
)

// RequiredFields are the columns statistics depend on
var RequiredFields = []string{FieldHomeTeam, FieldHomeGoals, FieldVisitorTeam, FieldVisitorGoals}

// IsDateField reports whether a column carries the game date (and the boxscore link)
func IsDateField(name string) bool {
	return name == FieldDate || name == "date"
}

// Field is a single column of a game row
type Field struct {
	Name  string
	Value string
}

// Game is an immutable, ordered row of a season results table
type Game struct {
	fields       []Field
	boxscoreLink *string
}

// New creates a Game from fields in document order. A repeated name keeps its
// first position and takes the last value. A nil link means no boxscore.
func New(fields []Field, boxscoreLink *string) Game {
	g := Game{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		if i := g.index(f.Name); i >= 0 {
			g.fields[i].Value = f.Value
			continue
		}
		g.fields = append(g.fields, f)
	}
	if boxscoreLink != nil {
		link := *boxscoreLink
		g.boxscoreLink = &link
	}
	return g
}

func (g Game) index(name string) int {
	for i, f := range g.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of a column and whether it is present
func (g Game) Get(name string) (string, bool) {
	if i := g.index(name); i >= 0 {
		return g.fields[i].Value, true
	}
	return "", false
}

// Value returns the value of a column, or "" when absent
func (g Game) Value(name string) string {
	v, _ := g.Get(name)
	return v
}

// Keys returns the column names in document order
func (g Game) Keys() []string {
	keys := make([]string, len(g.fields))
	for i, f := range g.fields {
		keys[i] = f.Name
	}
	return keys
}

// Fields returns a copy of the columns in document order
func (g Game) Fields() []Field {
	out := make([]Field, len(g.fields))
	copy(out, g.fields)
	return out
}

// Len returns the number of columns
func (g Game) Len() int {
	return len(g.fields)
}

// BoxscoreLink returns the boxscore URL, if the date cell carried one
func (g Game) BoxscoreLink() (string, bool) {
	if g.boxscoreLink == nil {
		return "", false
	}
	return *g.boxscoreLink, true
}

// Equal reports whether two games hold the same columns in the same order and the same link
func (g Game) Equal(other Game) bool {
	if len(g.fields) != len(other.fields) {
		return false
	}
	for i := range g.fields {
		if g.fields[i] != other.fields[i] {
			return false
		}
	}
	a, aok := g.BoxscoreLink()
	b, bok := other.BoxscoreLink()
	return aok == bok && a == b
}

// Date parses the game date column. Returns false if missing or unparseable.
func (g Game) Date() (time.Time, bool) {
	text, ok := g.Get(FieldDate)
	if !ok {
		text, ok = g.Get("date")
	}
	if !ok {
		return time.Time{}, false
	}
	t := ParseDate(text)
	return t, !t.IsZero()
}

// Goals returns the home and visitor goals.
// Returns a *ScoreError when either column is missing or not a number.
func (g Game) Goals() (home, visitor int, err error) {
	home, err = g.intField(FieldHomeGoals)
	if err != nil {
		return 0, 0, err
	}
	visitor, err = g.intField(FieldVisitorGoals)
	if err != nil {
		return 0, 0, err
	}
	return home, visitor, nil
}

func (g Game) intField(name string) (int, error) {
	text, ok := g.Get(name)
	if !ok {
		return 0, &ScoreError{Field: name, Value: "", Missing: true}
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &ScoreError{Field: name, Value: text}
	}
	return n, nil
}

// Missing returns the required columns this game lacks
func (g Game) Missing() []string {
	var missing []string
	for _, name := range RequiredFields {
		if _, ok := g.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// ScoreError describes a goal column that could not be read
type ScoreError struct {
	Field   string
	Value   string
	Missing bool
}

func (e *ScoreError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing score column %s", e.Field)
	}
	return fmt.Sprintf("invalid score in %s: %q", e.Field, e.Value)
}

// MarshalJSON encodes the game as an object in column order, followed by boxscore_link
func (g Game) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, f := range g.fields {
		if f.Name == BoxscoreLinkKey {
			continue
		}
		if err := writeMember(&buf, f.Name, f.Value); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, BoxscoreLinkKey, g.boxscoreLink); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value interface{}) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON decodes an object produced by MarshalJSON, keeping member order
func (g *Game) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding game: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding game: expected object, got %v", tok)
	}

	var fields []Field
	var link *string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding game: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding game: unexpected key %v", tok)
		}

		if key == BoxscoreLinkKey {
			if err := dec.Decode(&link); err != nil {
				return fmt.Errorf("decoding %s: %w", key, err)
			}
			continue
		}

		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding game: %w", err)
	}

	*g = New(fields, link)
	return nil
}
