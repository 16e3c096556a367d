// Package registry provides the two shortcut backends the keyword cache is
// built on: a synchronous search-engine alias set and a msgpack-encoded
// store of user-defined shortcuts.
package registry

import (
	"sort"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Engine is a search engine reachable through a typed alias.
type Engine struct {
	Alias     string
	Name      string
	SearchURL string
}

// defaultEngines mirrors the aliases shipped by common browsers.
var defaultEngines = []Engine{
	{Alias: "@google", Name: "Google", SearchURL: "https://www.google.com/search?q=%s"},
	{Alias: "@bing", Name: "Bing", SearchURL: "https://www.bing.com/search?q=%s"},
	{Alias: "@ddg", Name: "DuckDuckGo", SearchURL: "https://duckduckgo.com/?q=%s"},
	{Alias: "@wikipedia", Name: "Wikipedia", SearchURL: "https://en.wikipedia.org/wiki/Special:Search?search=%s"},
	{Alias: "@amazon", Name: "Amazon", SearchURL: "https://www.amazon.com/s?k=%s"},
}

// EngineSet is the synchronous alias registry. Aliases are indexed in a
// patricia trie so the CLI can list matches by prefix.
type EngineSet struct {
	mu   sync.RWMutex
	trie *patricia.Trie
}

// NewEngineSet creates a set preloaded with the default engine aliases.
func NewEngineSet() *EngineSet {
	es := &EngineSet{trie: patricia.NewTrie()}
	for _, e := range defaultEngines {
		es.trie.Insert(patricia.Prefix(e.Alias), e)
	}
	return es
}

// Add registers an alias, replacing any previous engine under it.
func (es *EngineSet) Add(e Engine) {
	if e.Alias == "" {
		return
	}
	es.mu.Lock()
	es.trie.Set(patricia.Prefix(e.Alias), e)
	es.mu.Unlock()
}

// LookupAlias returns the engine registered under token, exact match only.
func (es *EngineSet) LookupAlias(token string) (Engine, bool) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	item := es.trie.Get(patricia.Prefix(token))
	if item == nil {
		return Engine{}, false
	}
	return item.(Engine), true
}

// HasAlias reports whether token is a registered alias.
func (es *EngineSet) HasAlias(token string) bool {
	_, ok := es.LookupAlias(token)
	return ok
}

// AliasesWithPrefix returns up to limit engines whose alias starts with
// prefix, sorted by alias. Limit <= 0 means no cap.
func (es *EngineSet) AliasesWithPrefix(prefix string, limit int) []Engine {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var engines []Engine
	es.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		engines = append(engines, item.(Engine))
		return nil
	})
	sort.Slice(engines, func(i, j int) bool {
		return engines[i].Alias < engines[j].Alias
	})
	if limit > 0 && len(engines) > limit {
		engines = engines[:limit]
	}
	return engines
}
