package game

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func sampleGame(link *string) Game {
	return New([]Field{
		{Name: FieldDate, Value: "2016-10-12"},
		{Name: FieldVisitorTeam, Value: "Team B"},
		{Name: FieldVisitorGoals, Value: "2"},
		{Name: FieldHomeTeam, Value: "Team A"},
		{Name: FieldHomeGoals, Value: "3"},
	}, link)
}

func TestNew(t *testing.T) {
	g := New([]Field{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
		{Name: "a", Value: "3"},
	}, nil)

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	if !reflect.DeepEqual(g.Keys(), []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", g.Keys())
	}

	if g.Value("a") != "3" {
		t.Errorf("Value(a) = %q, want last value 3", g.Value("a"))
	}

	if _, ok := g.Get("missing"); ok {
		t.Error("Get(missing) reported present")
	}

	if _, ok := g.BoxscoreLink(); ok {
		t.Error("BoxscoreLink() reported present for nil link")
	}
}

func TestNew_CopiesInput(t *testing.T) {
	fields := []Field{{Name: "a", Value: "1"}}
	link := "/boxscores/1.html"
	g := New(fields, &link)

	fields[0].Value = "changed"
	link = "changed"

	if g.Value("a") != "1" {
		t.Errorf("game changed with its input slice: %q", g.Value("a"))
	}
	if got, _ := g.BoxscoreLink(); got != "/boxscores/1.html" {
		t.Errorf("game changed with its input link: %q", got)
	}

	out := g.Fields()
	out[0].Value = "changed"
	if g.Value("a") != "1" {
		t.Error("Fields() exposed internal storage")
	}
}

func TestGoals(t *testing.T) {
	tests := []struct {
		name        string
		game        Game
		wantHome    int
		wantVisitor int
		wantErr     bool
		wantMissing bool
	}{
		{
			name:        "numeric scores",
			game:        sampleGame(nil),
			wantHome:    3,
			wantVisitor: 2,
		},
		{
			name: "whitespace around score",
			game: New([]Field{
				{Name: FieldHomeGoals, Value: " 4 "},
				{Name: FieldVisitorGoals, Value: "1\n"},
			}, nil),
			wantHome:    4,
			wantVisitor: 1,
		},
		{
			name: "future game without score",
			game: New([]Field{
				{Name: FieldHomeGoals, Value: ""},
				{Name: FieldVisitorGoals, Value: ""},
			}, nil),
			wantErr: true,
		},
		{
			name:        "missing column",
			game:        New([]Field{{Name: FieldHomeGoals, Value: "2"}}, nil),
			wantErr:     true,
			wantMissing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, visitor, err := tt.game.Goals()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Goals() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var scoreErr *ScoreError
				if !errors.As(err, &scoreErr) {
					t.Fatalf("Goals() error type = %T, want *ScoreError", err)
				}
				if scoreErr.Missing != tt.wantMissing {
					t.Errorf("ScoreError.Missing = %v, want %v", scoreErr.Missing, tt.wantMissing)
				}
				return
			}
			if home != tt.wantHome || visitor != tt.wantVisitor {
				t.Errorf("Goals() = %d, %d, want %d, %d", home, visitor, tt.wantHome, tt.wantVisitor)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	if missing := sampleGame(nil).Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}

	g := New([]Field{{Name: FieldHomeTeam, Value: "Team A"}}, nil)
	want := []string{FieldHomeGoals, FieldVisitorTeam, FieldVisitorGoals}
	if got := g.Missing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestDate(t *testing.T) {
	d, ok := sampleGame(nil).Date()
	if !ok {
		t.Fatal("Date() not parsed")
	}
	if d.Year() != 2016 || d.Month() != 10 || d.Day() != 12 {
		t.Errorf("Date() = %v, want 2016-10-12", d)
	}

	if _, ok := New([]Field{{Name: "date", Value: "2016-10-12"}}, nil).Date(); !ok {
		t.Error("Date() should accept a column named date")
	}

	if _, ok := New([]Field{{Name: FieldDate, Value: "TBD"}}, nil).Date(); ok {
		t.Error("Date() parsed an invalid date")
	}
}

func TestGameJSON(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want string
	}{
		{
			name: "null boxscore link",
			game: sampleGame(nil),
			want: `{"date_game":"2016-10-12","visitor_team_name":"Team B","visitor_goals":"2","home_team_name":"Team A","home_goals":"3","boxscore_link":null}`,
		},
		{
			name: "with boxscore link",
			game: New([]Field{{Name: FieldDate, Value: "2016-10-12"}}, strPtr("/boxscores/201610120CHI.html")),
			want: `{"date_game":"2016-10-12","boxscore_link":"/boxscores/201610120CHI.html"}`,
		},
		{
			name: "empty game",
			game: New(nil, nil),
			want: `{"boxscore_link":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.game)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var decoded Game
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !decoded.Equal(tt.game) {
				t.Errorf("decoded game = %v, want %v", decoded.Fields(), tt.game.Fields())
			}
		})
	}
}

func TestGameUnmarshal_Invalid(t *testing.T) {
	inputs := []string{
		`[]`,
		`{"home_goals": 3}`,
		`{"boxscore_link": 5}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var g Game
			if err := json.Unmarshal([]byte(in), &g); err == nil {
				t.Errorf("Unmarshal(%s) expected error", in)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := sampleGame(strPtr("/a.html"))
	b := sampleGame(strPtr("/a.html"))
	if !a.Equal(b) {
		t.Error("identical games not equal")
	}

	if a.Equal(sampleGame(nil)) {
		t.Error("games with and without link reported equal")
	}

	if a.Equal(sampleGame(strPtr("/b.html"))) {
		t.Error("games with different links reported equal")
	}

	reordered := New([]Field{
		{Name: FieldVisitorTeam, Value: "Team B"},
		{Name: FieldDate, Value: "2016-10-12"},
		{Name: FieldVisitorGoals, Value: "2"},
		{Name: FieldHomeTeam, Value: "Team A"},
		{Name: FieldHomeGoals, Value: "3"},
	}, strPtr("/a.html"))
	if a.Equal(reordered) {
		t.Error("games with different column order reported equal")
	}
}
