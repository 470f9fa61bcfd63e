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

	"github.com/san-kum/lifechart/internal/grid"
	"github.com/san-kum/lifechart/internal/machine"
)

var ErrNotFound = errors.New("storage: session not found")

const (
	metadataFile   = "metadata.json"
	gridFile       = "grid.cells"
	populationFile = "population.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SessionMetadata struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
	Seed       int64     `json:"seed"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Speed      float64   `json:"speed"`
	Mode       string    `json:"mode"`
	Generation int       `json:"generation"`
	Population int       `json:"population"`
}

// Save writes the snapshot as a new session directory and returns its id.
func (s *Store) Save(name string, seed int64, snap machine.Snapshot) (string, error) {
	if name == "" {
		name = "session"
	}
	now := time.Now()
	sessionID := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	sessionDir := filepath.Join(s.baseDir, sessionID)
	for i := 1; ; i++ {
		if _, err := os.Stat(sessionDir); os.IsNotExist(err) {
			break
		}
		sessionID = fmt.Sprintf("%s_%d_%d", name, now.UnixMilli(), i)
		sessionDir = filepath.Join(s.baseDir, sessionID)
	}

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", err
	}

	meta := SessionMetadata{
		ID:         sessionID,
		Name:       name,
		Timestamp:  now,
		Seed:       seed,
		Rows:       snap.Rows,
		Cols:       snap.Cols,
		Speed:      snap.Speed,
		Mode:       snap.Mode.String(),
		Generation: snap.Generation,
		Population: snap.Population,
	}

	metaFile, err := os.Create(filepath.Join(sessionDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if snap.Grid != nil {
		body := fmt.Sprintf("!Name: %s\n!Generation: %d\n%s", name, snap.Generation, snap.Grid.String())
		if err := os.WriteFile(filepath.Join(sessionDir, gridFile), []byte(body), 0644); err != nil {
			return "", err
		}
	}

	csvFile, err := os.Create(filepath.Join(sessionDir, populationFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"generation", "population"}); err != nil {
		return "", err
	}
	first := snap.Generation - len(snap.Populations) + 1
	for i, pop := range snap.Populations {
		row := []string{strconv.Itoa(first + i), strconv.Itoa(pop)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return sessionID, nil
}

// List returns saved sessions, oldest first.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.Before(sessions[j].Timestamp)
	})
	return sessions, nil
}

func (s *Store) Load(sessionID string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, sessionID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", sessionID, err)
	}
	return &meta, nil
}

func (s *Store) LoadGrid(sessionID string) (*grid.Grid, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, sessionID, gridFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return nil, err
	}
	return grid.Parse(string(data))
}

// LoadPopulation returns the recorded generations and their populations.
func (s *Store) LoadPopulation(sessionID string) ([]int, []int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, sessionID, populationFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []int{}, []int{}, nil
	}

	gens := make([]int, 0, len(records)-1)
	pops := make([]int, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		g, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		p, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		gens = append(gens, g)
		pops = append(pops, p)
	}
	return gens, pops, nil
}
