package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/vancomm/sweeper/internal/mines"
)

// entry is stored as a [name, seconds] pair.
type entry struct {
	Name    string
	Seconds float64
}

func (e entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Name, e.Seconds})
}

func (e *entry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("score entry must be a [name, time] pair")
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Seconds)
}

type table map[string][]entry

func emptyTable() table {
	t := make(table, len(mines.Difficulties))
	for _, d := range mines.Difficulties {
		t[d.String()] = []entry{}
	}
	return t
}

// FileStore keeps the score table in a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (table, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyTable(), nil
	}
	if err != nil {
		return nil, err
	}
	t := emptyTable()
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("malformed score file %s: %w", s.path, err)
	}
	return t, nil
}

func (s *FileStore) save(t table) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".scores-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path)
}

func (s *FileStore) Insert(ctx context.Context, score Score) (int, error) {
	if err := ctx.Err(); err != nil {
		return mines.NotRanked, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.load()
	if err != nil {
		return mines.NotRanked, err
	}

	key := score.Difficulty.String()
	list := t[key]
	seconds := score.Elapsed.Seconds()
	rank := sort.Search(len(list), func(i int) bool {
		return list[i].Seconds > seconds
	})
	t[key] = slices.Insert(list, rank, entry{Name: score.Name, Seconds: seconds})

	if err := s.save(t); err != nil {
		return mines.NotRanked, fmt.Errorf("unable to write scores: %w", err)
	}
	return rank, nil
}

func (s *FileStore) Top(ctx context.Context, difficulty mines.Difficulty, limit int) ([]Score, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	t, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	list := t[difficulty.String()]
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	scores := make([]Score, 0, len(list))
	for _, e := range list {
		scores = append(scores, Score{
			Name:       e.Name,
			Difficulty: difficulty,
			Elapsed:    time.Duration(e.Seconds * float64(time.Second)),
		})
	}
	return scores, nil
}
