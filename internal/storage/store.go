package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/game"
)

var ErrNotWon = errors.New("only won games are recorded")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Record struct {
	ID          string        `json:"id"`
	Surface     string        `json:"surface"`
	Height      int           `json:"height"`
	Width       int           `json:"width"`
	Probability float64       `json:"initial_on_probability"`
	Seed        int64         `json:"seed"`
	Moves       int           `json:"moves"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Duration    time.Duration `json:"duration_ns"`
	Initial     string        `json:"initial"`
}

// Save writes metadata.json and presses.csv for a won game and returns its id.
func (s *Store) Save(surface string, result game.Result) (string, error) {
	if result.FinishedAt.IsZero() {
		return "", ErrNotWon
	}
	runDir := filepath.Join(s.baseDir, result.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := Record{
		ID:          result.ID,
		Surface:     surface,
		Height:      result.Height,
		Width:       result.Width,
		Probability: result.Probability,
		Seed:        result.Seed,
		Moves:       result.Moves,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
		Duration:    result.FinishedAt.Sub(result.StartedAt),
		Initial:     result.Initial.String(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "presses.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"move", "row", "col", "lit_after"}); err != nil {
		return "", err
	}
	g := result.Initial
	for i, c := range result.Presses {
		g = g.ToggleAround(c)
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(c.Row),
			strconv.Itoa(c.Col),
			strconv.Itoa(g.LitCount()),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return result.ID, nil
}

// List returns every readable record, oldest finish first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		records = append(records, *meta)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].FinishedAt.Before(records[j].FinishedAt)
	})
	return records, nil
}

func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta Record
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	return &meta, nil
}

// LoadPresses reads back the press sequence of a record.
func (s *Store) LoadPresses(id string) ([]board.Coord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "presses.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []board.Coord{}, nil
	}

	presses := make([]board.Coord, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 3 {
			return nil, fmt.Errorf("presses.csv line %d: short record", i+2)
		}
		r, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("presses.csv line %d: %w", i+2, err)
		}
		c, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("presses.csv line %d: %w", i+2, err)
		}
		presses = append(presses, board.Coord{Row: r, Col: c})
	}
	return presses, nil
}
