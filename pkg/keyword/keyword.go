// Package keyword answers "is this token a known shortcut?" without ever
// blocking the caller. Answers are backed by a process-wide tri-state cache
// shared across every attached field; cache misses trigger one asynchronous
// backend lookup and report an optimistic miss until it resolves.
package keyword

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// State of a token in the cache. Once a token reaches StateKnown or
// StateNotKnown it never changes for the rest of the process.
type State uint8

const (
	StateUnknown State = iota
	StatePending
	StateKnown
	StateNotKnown
)

// AliasRegistry is the synchronous search-engine alias lookup.
type AliasRegistry interface {
	HasAlias(token string) bool
}

// Backend is the shortcut storage the classifier warms its cache from.
type Backend interface {
	// Fetch reports whether token is a stored shortcut.
	Fetch(ctx context.Context, token string) (bool, error)
	// BulkList returns every stored shortcut token.
	BulkList(ctx context.Context) ([]string, error)
}

// Classifier holds the shared shortcut cache. One instance serves all
// controllers in the process.
type Classifier struct {
	mu      sync.RWMutex
	cache   map[string]State
	aliases AliasRegistry
	backend Backend

	// onResolve, when set, observes each asynchronous resolution (tests).
	onResolve func(token string, st State)
}

// New creates a classifier with an empty cache.
func New(aliases AliasRegistry, backend Backend) *Classifier {
	return &Classifier{
		cache:   make(map[string]State),
		aliases: aliases,
		backend: backend,
	}
}

// IsShortcut reports whether token maps to a known shortcut. It never
// blocks: an unresolved token answers false immediately and triggers a
// single background lookup so the next call can answer correctly.
func (c *Classifier) IsShortcut(token string) bool {
	token = normalize(token)
	if token == "" {
		return false
	}

	c.mu.RLock()
	st := c.cache[token]
	c.mu.RUnlock()

	switch st {
	case StateKnown:
		return true
	case StateNotKnown, StatePending:
		return false
	}

	if c.aliases != nil && c.aliases.HasAlias(token) {
		c.mu.Lock()
		if c.cache[token] == StateUnknown {
			c.cache[token] = StateKnown
		}
		c.mu.Unlock()
		return true
	}

	c.mu.Lock()
	if st := c.cache[token]; st != StateUnknown {
		c.mu.Unlock()
		return st == StateKnown
	}
	c.cache[token] = StatePending
	c.mu.Unlock()

	log.Debugf("keyword cache miss, fetching: %q", token)
	go c.resolve(token)
	return false
}

// Lookup returns the cached state without side effects.
func (c *Classifier) Lookup(token string) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache[normalize(token)]
}

// Warm bulk-loads every stored shortcut token as known. Already resolved
// entries are left alone.
func (c *Classifier) Warm(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}
	tokens, err := c.backend.BulkList(ctx)
	if err != nil {
		log.Warnf("shortcut cache warm failed: %v", err)
		return err
	}
	c.mu.Lock()
	for _, t := range tokens {
		t = normalize(t)
		if st := c.cache[t]; st == StateUnknown || st == StatePending {
			c.cache[t] = StateKnown
		}
	}
	c.mu.Unlock()
	log.Debugf("warmed shortcut cache with %d tokens", len(tokens))
	return nil
}

// resolve runs off the event loop; it only ever overwrites a Pending
// entry, so a resolved state is immutable and concurrent readers at worst
// see the optimistic miss.
func (c *Classifier) resolve(token string) {
	st := StateNotKnown
	if c.backend != nil {
		found, err := c.backend.Fetch(context.Background(), token)
		if err != nil {
			// Absence of evidence defaults to not known, preserving the
			// bias toward showing suggestions.
			log.Debugf("shortcut fetch for %q failed: %v", token, err)
		} else if found {
			st = StateKnown
		}
	}

	c.mu.Lock()
	if c.cache[token] == StatePending {
		c.cache[token] = st
	} else {
		st = c.cache[token]
	}
	done := c.onResolve
	c.mu.Unlock()

	if done != nil {
		done(token, st)
	}
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
