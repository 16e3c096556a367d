// Package selection implements the result-selection state machine attached
// to each input field. It pre-selects the first real suggestion when safe,
// suppresses a premature Enter while the search is still empty, and
// reconciles user navigation with the artificial selection.
package selection

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/barserve/pkg/field"
	"github.com/bastiangx/barserve/pkg/sched"
)

// targetIndex is the first real suggestion; index 0 is always the default
// fallback row once any result exists.
const targetIndex = 1

// DefaultMaxWait bounds the Enter-wait for an empty result list.
const DefaultMaxWait = 350 * time.Millisecond

// InputClassifier reports whether default handling already owns the text.
type InputClassifier interface {
	HostWillHandle(raw string) bool
}

// Snapshot captures the field appearance at the moment of auto-selection,
// so navigating away from the artificial selection can restore it.
type Snapshot struct {
	OrigSearch string
	OrigValue  string
}

// Config wires one controller to its field.
type Config struct {
	Field      field.TextField
	List       field.SuggestionList
	Status     field.SearchStatus
	Classifier InputClassifier
	Scheduler  sched.Scheduler
	// MaxWait bounds the Enter-wait; zero means DefaultMaxWait.
	MaxWait time.Duration
}

// Controller owns the per-field selection state. All methods must run on
// the field's event loop.
type Controller struct {
	fld        field.TextField
	list       field.SuggestionList
	status     field.SearchStatus
	classifier InputClassifier
	sched      sched.Scheduler
	maxWait    time.Duration

	awaitingEnter bool
	hasSnapshot   bool
	snapshot      Snapshot

	waitHandle   sched.Handle
	revertHandle sched.Handle
}

// Attach creates a controller and subscribes it to the field's key events
// and the list's append events. The returned controller exposes no further
// API to the host; it acts only through the wired commands.
func Attach(cfg Config) *Controller {
	c := &Controller{
		fld:        cfg.Field,
		list:       cfg.List,
		status:     cfg.Status,
		classifier: cfg.Classifier,
		sched:      cfg.Scheduler,
		maxWait:    cfg.MaxWait,
	}
	if c.maxWait <= 0 {
		c.maxWait = DefaultMaxWait
	}
	c.list.OnAppend(c.onResultAppended)
	c.fld.OnKeyDown(c.onKeyDown)
	return c
}

// AwaitingEnter reports whether a suppressed Enter is pending results.
func (c *Controller) AwaitingEnter() bool { return c.awaitingEnter }

// LastSnapshot returns the snapshot taken at the latest auto-selection.
func (c *Controller) LastSnapshot() (Snapshot, bool) {
	return c.snapshot, c.hasSnapshot
}

// typedText is the field value before the caret, or the whole value when
// the caret sits at the end.
func (c *Controller) typedText() string {
	v := c.fld.Value()
	start := c.fld.SelectionStart()
	if start >= 0 && start < len(v) {
		return v[:start]
	}
	return v
}

// onResultAppended fires each time the backing list grows by one entry.
func (c *Controller) onResultAppended() {
	if c.list.Count() == 0 || c.list.SelectedIndex() >= targetIndex {
		return
	}
	typed := strings.TrimSpace(c.typedText())
	if c.classifier.HostWillHandle(typed) {
		// URL, domain or shortcut input: never hijack it.
		return
	}

	c.snapshot = Snapshot{OrigSearch: typed, OrigValue: c.fld.Value()}
	c.hasSnapshot = true
	c.list.SetSelectedIndex(targetIndex)
	log.Debugf("auto-selected suggestion %d for %q", targetIndex, typed)

	if c.awaitingEnter {
		// A suppressed Enter was waiting for exactly this: consume it now.
		c.awaitingEnter = false
		c.fld.CommitCurrentText()
	}
}

func (c *Controller) onKeyDown(key field.Key, mods field.Modifier) bool {
	switch key {
	case field.KeyLeft, field.KeyRight, field.KeyHome:
		c.list.SetSelectedIndex(-1)
		return false

	case field.KeyUp, field.KeyDown, field.KeyPageUp, field.KeyPageDown, field.KeyTab:
		if c.revertHandle != nil {
			c.revertHandle.Cancel()
		}
		// Check only after this key's default handling has completed.
		c.revertHandle = c.sched.Schedule(c.revertIfUnselected, 0)
		return false

	case field.KeyEnter:
		if mods != 0 {
			return false
		}
		return c.onEnter()
	}
	return false
}

// onEnter decides between associating the commit with the auto-selected
// suggestion, passing through, or suppressing the commit for a bounded
// wait on late results.
func (c *Controller) onEnter() bool {
	if c.list.Count() > 0 || c.status.Status() != field.StatusSearching {
		if c.list.SelectedIndex() == targetIndex {
			// Make the commit look like the user navigated here, so the
			// host associates the input with the suggestion rather than
			// the literal typed text.
			c.list.SetSelectedIndex(targetIndex - 1)
			c.status.Navigate(field.DirectionDown)
		}
		return false
	}

	entered := strings.TrimSpace(c.typedText())
	if c.classifier.HostWillHandle(entered) {
		return false
	}

	c.awaitingEnter = true
	if c.waitHandle != nil {
		c.waitHandle.Cancel()
	}
	delay := c.maxWait
	if n := len(entered); n > 0 {
		// Longer input means a more specific query: results, if any,
		// arrive fast, so wait less.
		delay = c.maxWait / time.Duration(n)
	}
	log.Debugf("suppressing Enter for %q, waiting %v", entered, delay)
	c.waitHandle = c.sched.Schedule(func() { c.finishWait(entered) }, delay)
	return true
}

// finishWait runs when the bounded Enter-wait expires. Staleness is
// re-checked here: cancellation alone is not relied on, since results
// arriving and the timer firing race both ways.
func (c *Controller) finishWait(entered string) {
	if strings.TrimSpace(c.typedText()) != entered || c.list.Count() != 0 {
		return
	}
	c.awaitingEnter = false
	log.Debugf("wait expired with no results, committing %q", entered)
	c.fld.CommitCurrentText()
}

// revertIfUnselected restores the pre-selection appearance after the user
// navigated away from the artificial selection.
func (c *Controller) revertIfUnselected() {
	if !c.hasSnapshot || c.list.SelectedIndex() != -1 || !c.list.Open() {
		return
	}
	c.fld.SetValue(c.snapshot.OrigValue)
	c.fld.SetCaret(len(c.snapshot.OrigSearch))
}
