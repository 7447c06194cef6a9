package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/game"
)

// DefaultPath is the archive file written by a scrape run
const DefaultPath = "gameData.json"

// ErrNoArchive is returned when the archive file does not exist
var ErrNoArchive = errors.New("no archive found")

// Storage handles persistence of the game archive
type Storage struct {
	path string
	now  func() time.Time
}

// New creates a new Storage instance for the archive at path
func New(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &Storage{
		path: path,
		now:  time.Now,
	}, nil
}

// Path returns the archive file location
func (s *Storage) Path() string {
	return s.path
}

// LoadArchive loads the archive from disk
func (s *Storage) LoadArchive() (*game.Archive, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoArchive, s.path)
		}
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return Decode(f)
}

// SaveArchive writes the archive in one step: the data goes to a temporary
// file next to the target, which is then renamed over it.
func (s *Storage) SaveArchive(archive *game.Archive) error {
	archive.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	// Create the parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if err := Encode(tmp, archive); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("syncing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting archive permissions: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	return nil
}

// Encode writes the archive as indented JSON
func Encode(w io.Writer, archive *game.Archive) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return fmt.Errorf("encoding archive: %w", err)
	}
	return nil
}

// Decode reads an archive written by Encode
func Decode(r io.Reader) (*game.Archive, error) {
	var archive game.Archive
	if err := json.NewDecoder(r).Decode(&archive); err != nil {
		return nil, fmt.Errorf("parsing archive: %w", err)
	}

	// Ensure maps are initialized
	if archive.Seasons == nil {
		archive.Seasons = make(map[int]*game.SeasonGames)
	}
	if archive.Failures == nil {
		archive.Failures = make(map[int]string)
	}
	for year, season := range archive.Seasons {
		if season == nil {
			archive.Seasons[year] = game.NewSeasonGames()
			continue
		}
		if season.Regular == nil {
			season.Regular = make([]game.Game, 0)
		}
		if season.Playoff == nil {
			season.Playoff = make([]game.Game, 0)
		}
	}

	return &archive, nil
}
