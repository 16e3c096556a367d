package registry

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Record is one stored shortcut.
type Record struct {
	Keyword string `msgpack:"k"`
	URL     string `msgpack:"u"`
	Title   string `msgpack:"t,omitempty"`
}

// Store holds user-defined shortcuts decoded from a msgpack file. The file
// is loaded once, on first use; a missing file is an empty store rather
// than an error.
type Store struct {
	path string

	once    sync.Once
	mu      sync.RWMutex
	records map[string]Record
	loadErr error
}

// NewStore creates a store backed by the msgpack file at path. Nothing is
// read until the first Fetch or BulkList.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[string]Record),
	}
}

func (s *Store) load() {
	if s.path == "" {
		return
	}
	f, err := os.Open(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.loadErr = err
			log.Warnf("Failed to open shortcut store %s: %v", s.path, err)
		}
		return
	}
	defer f.Close()

	var records []Record
	if err := msgpack.NewDecoder(f).Decode(&records); err != nil {
		s.loadErr = err
		log.Warnf("Failed to decode shortcut store %s: %v", s.path, err)
		return
	}

	s.mu.Lock()
	for _, r := range records {
		kw := strings.ToLower(r.Keyword)
		if kw == "" {
			continue
		}
		s.records[kw] = r
	}
	s.mu.Unlock()
	log.Debugf("Loaded %d shortcuts from %s", len(records), s.path)
}

// Fetch reports whether token is a stored shortcut keyword.
func (s *Store) Fetch(ctx context.Context, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.once.Do(s.load)
	if s.loadErr != nil {
		return false, s.loadErr
	}
	s.mu.RLock()
	_, ok := s.records[strings.ToLower(token)]
	s.mu.RUnlock()
	return ok, nil
}

// Get returns the full record for token.
func (s *Store) Get(token string) (Record, bool) {
	s.once.Do(s.load)
	s.mu.RLock()
	r, ok := s.records[strings.ToLower(token)]
	s.mu.RUnlock()
	return r, ok
}

// BulkList returns every stored shortcut keyword, for cache warming.
func (s *Store) BulkList(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(s.load)
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	s.mu.RLock()
	keywords := make([]string, 0, len(s.records))
	for kw := range s.records {
		keywords = append(keywords, kw)
	}
	s.mu.RUnlock()
	return keywords, nil
}

// Add inserts or replaces a record in memory. Save persists it.
func (s *Store) Add(r Record) {
	s.once.Do(s.load)
	if r.Keyword == "" {
		return
	}
	s.mu.Lock()
	s.records[strings.ToLower(r.Keyword)] = r
	s.mu.Unlock()
}

// Save writes the current records to path as msgpack.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	s.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return msgpack.NewEncoder(f).Encode(records)
}
