package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf, FormatJSON)

	tests := []struct {
		name    string
		log     func()
		want    bool // should log
		wantMsg string
	}{
		{
			name:    "info message",
			log:     func() { logger.Info("test message", Fields{"key": "value"}) },
			want:    true,
			wantMsg: "test message",
		},
		{
			name: "debug below threshold",
			log:  func() { logger.Debug("debug message", nil) },
			want: false,
		},
		{
			name:    "warn message",
			log:     func() { logger.Warn("empty table", Fields{"year": "2005"}) },
			want:    true,
			wantMsg: "empty table",
		},
		{
			name:    "error with err",
			log:     func() { logger.Error("error occurred", nil, errors.New("test error")) },
			want:    true,
			wantMsg: "error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("logged = %v, want %v (output %q)", logged, tt.want, buf.String())
			}
			if !tt.want {
				return
			}

			var entry map[string]interface{}
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
				t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
			}
			if entry["msg"] != tt.wantMsg {
				t.Errorf("msg = %v, want %v", entry["msg"], tt.wantMsg)
			}
			if _, ok := entry["time"]; !ok {
				t.Error("entry has no timestamp")
			}
		})
	}
}

func TestLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	New(LevelDebug, &buf, FormatJSON).Error("fetch failed", Fields{"year": "1919"}, errors.New("status 503"))

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error"] != "status 503" {
		t.Errorf("error = %v, want status 503", entry["error"])
	}
	if entry["year"] != "1919" {
		t.Errorf("year = %v, want 1919", entry["year"])
	}
	if level, _ := entry["level"].(string); !strings.EqualFold(level, "error") {
		t.Errorf("level = %v, want error", entry["level"])
	}
}

func TestLogger_SortedFields(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf, FormatJSON).Info("sorted", Fields{
		"zeta":  "z",
		"alpha": "a",
		"mid":   "m",
	})

	out := buf.String()
	a := strings.Index(out, `"alpha"`)
	m := strings.Index(out, `"mid"`)
	z := strings.Index(out, `"zeta"`)
	if a < 0 || m < 0 || z < 0 {
		t.Fatalf("fields missing from %q", out)
	}
	if !(a < m && m < z) {
		t.Errorf("fields not in sorted order: %q", out)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf, FormatText).Info("season collected", Fields{"year": 2016})

	out := buf.String()
	if !strings.Contains(out, "season collected") {
		t.Errorf("text output missing message: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text output looks like JSON: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("TEXT"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(TEXT) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf, FormatJSON))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("got %d log lines, want 4", len(lines))
	}
}
