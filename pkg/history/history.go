// Package history is the suggestion source: a patricia-trie prefix index
// over visited entries ranked by visit count. Matches are streamed onto the
// event loop one append at a time, which is what makes the suggestion list
// grow asynchronously under the selection controller.
package history

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"github.com/vmihailenco/msgpack/v5"
)

// Entry is one visited page.
type Entry struct {
	URL    string `msgpack:"u"`
	Title  string `msgpack:"t,omitempty"`
	Visits int    `msgpack:"v"`
}

// Provider indexes entries for prefix search.
type Provider struct {
	mu      sync.RWMutex
	trie    *patricia.Trie
	entries []*Entry
	limit   int
}

// NewProvider creates an empty provider returning at most limit matches
// per search.
func NewProvider(limit int) *Provider {
	if limit < 1 {
		limit = 10
	}
	return &Provider{
		trie:  patricia.NewTrie(),
		limit: limit,
	}
}

// Load reads msgpack-encoded entries from path. A missing file leaves the
// provider empty.
func (p *Provider) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No history file at %s, starting empty", path)
			return nil
		}
		return err
	}
	defer f.Close()

	var entries []Entry
	if err := msgpack.NewDecoder(f).Decode(&entries); err != nil {
		return err
	}
	for i := range entries {
		p.Add(entries[i])
	}
	log.Debugf("Loaded %d history entries from %s", len(entries), path)
	return nil
}

// Save writes all entries to path as msgpack.
func (p *Provider) Save(path string) error {
	p.mu.RLock()
	entries := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, *e)
	}
	p.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return msgpack.NewEncoder(f).Encode(entries)
}

// Add indexes an entry under its lowercase title and scheme-stripped URL.
func (p *Provider) Add(e Entry) {
	if e.URL == "" {
		return
	}
	if e.Visits < 1 {
		e.Visits = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := &e
	idx := len(p.entries)
	p.entries = append(p.entries, entry)

	for _, key := range indexKeys(e) {
		p.trie.Insert(patricia.Prefix(key), idx)
	}
}

// AddVisit bumps the visit count for url, creating the entry if needed.
func (p *Provider) AddVisit(url, title string) {
	p.mu.Lock()
	for _, e := range p.entries {
		if e.URL == url {
			e.Visits++
			p.mu.Unlock()
			return
		}
	}
	p.mu.Unlock()
	p.Add(Entry{URL: url, Title: title, Visits: 1})
}

// Len reports how many entries are indexed.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Match returns up to limit entries whose index keys start with query,
// most visited first.
func (p *Provider) Match(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	p.mu.RLock()
	seen := make(map[int]bool)
	var matched []*Entry
	err := p.trie.VisitSubtree(patricia.Prefix(query), func(pr patricia.Prefix, item patricia.Item) error {
		idx := item.(int)
		if seen[idx] {
			return nil
		}
		seen[idx] = true
		matched = append(matched, p.entries[idx])
		return nil
	})
	p.mu.RUnlock()
	if err != nil {
		log.Errorf("Error visiting history trie: %v", err)
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Visits > matched[j].Visits
	})
	if len(matched) > p.limit {
		matched = matched[:p.limit]
	}

	out := make([]Entry, len(matched))
	for i, e := range matched {
		out[i] = *e
	}
	return out
}

// indexKeys lowercases the title, its individual words and the URL without
// its scheme, so "gith", "cats" and a mid-title word all reach the entry.
func indexKeys(e Entry) []string {
	keys := make([]string, 0, 4)
	title := strings.ToLower(strings.TrimSpace(e.Title))
	if title != "" {
		keys = append(keys, title)
		for _, w := range strings.Fields(title) {
			if w != title {
				keys = append(keys, w)
			}
		}
	}
	url := strings.ToLower(e.URL)
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	url = strings.TrimPrefix(url, "www.")
	if url != "" {
		keys = append(keys, url)
	}
	return keys
}
