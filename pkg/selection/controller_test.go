package selection

import (
	"testing"
	"time"

	"github.com/bastiangx/barserve/pkg/field"
	"github.com/bastiangx/barserve/pkg/sched"
)

// fakeScheduler records scheduled callbacks so tests fire timers by hand.
type fakeScheduler struct {
	tasks []*fakeTask
}

type fakeTask struct {
	fn        func()
	delay     time.Duration
	cancelled bool
	fired     bool
}

func (t *fakeTask) Cancel() { t.cancelled = true }

func (s *fakeScheduler) Schedule(fn func(), delay time.Duration) sched.Handle {
	task := &fakeTask{fn: fn, delay: delay}
	s.tasks = append(s.tasks, task)
	return task
}

// fire runs every pending uncancelled task, mimicking the real scheduler's
// run-time cancellation check.
func (s *fakeScheduler) fire() {
	for _, t := range s.tasks {
		if t.fired || t.cancelled {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// last returns the most recently scheduled task.
func (s *fakeScheduler) last() *fakeTask {
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

// fakeClassifier answers HostWillHandle from a fixed set.
type fakeClassifier struct {
	handled map[string]bool
}

func (f *fakeClassifier) HostWillHandle(raw string) bool { return f.handled[raw] }

type harness struct {
	in     *field.Input
	list   *field.List
	search *field.Search
	sched  *fakeScheduler
	ctrl   *Controller

	navigations []field.Direction
}

func newHarness(t *testing.T, handled map[string]bool) *harness {
	t.Helper()
	h := &harness{
		in:     field.NewInput(),
		list:   field.NewList(),
		search: field.NewSearch(),
		sched:  &fakeScheduler{},
	}
	// Emulate the host: a navigation command moves the selection one row.
	h.search.OnNavigate = func(dir field.Direction) {
		h.navigations = append(h.navigations, dir)
		switch dir {
		case field.DirectionDown:
			h.list.SetSelectedIndex(h.list.SelectedIndex() + 1)
		case field.DirectionUp:
			h.list.SetSelectedIndex(h.list.SelectedIndex() - 1)
		}
	}
	h.ctrl = Attach(Config{
		Field:      h.in,
		List:       h.list,
		Status:     h.search,
		Classifier: &fakeClassifier{handled: handled},
		Scheduler:  h.sched,
		MaxWait:    350 * time.Millisecond,
	})
	return h
}

func (h *harness) appendResult(title string) {
	if h.list.Count() == 0 {
		h.list.Append(field.Entry{Title: "Search for " + h.in.Value(), Fallback: true})
	}
	h.list.Append(field.Entry{Title: title})
}

func TestAutoSelectFirstRealSuggestion(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("cats")

	h.list.Append(field.Entry{Title: "Search for cats", Fallback: true})
	if got := h.list.SelectedIndex(); got != -1 {
		t.Fatalf("selected %d after fallback row only, want -1", got)
	}

	h.list.Append(field.Entry{Title: "cats are great"})
	if got := h.list.SelectedIndex(); got != 1 {
		t.Fatalf("selected %d after first real result, want 1", got)
	}

	// Further growth must not move an existing selection.
	h.list.Append(field.Entry{Title: "cats pictures"})
	if got := h.list.SelectedIndex(); got != 1 {
		t.Fatalf("selected %d after second result, want 1 unchanged", got)
	}

	snap, ok := h.ctrl.LastSnapshot()
	if !ok {
		t.Fatal("no snapshot recorded at auto-selection")
	}
	if snap.OrigSearch != "cats" || snap.OrigValue != "cats" {
		t.Fatalf("snapshot = %+v, want cats/cats", snap)
	}
}

func TestNoAutoSelectWhenHostHandlesInput(t *testing.T) {
	cases := []struct {
		name  string
		typed string
	}{
		{"absolute url", "http://example.com"},
		{"bare domain", "example.com"},
		{"known shortcut", "weather tomorrow"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, map[string]bool{tc.typed: true})
			h.in.SetValue(tc.typed)
			h.appendResult("some result")
			if got := h.list.SelectedIndex(); got != -1 {
				t.Fatalf("selected %d for host-handled input %q, want -1", got, tc.typed)
			}
		})
	}
}

func TestTypedTextUsesCaretPrefix(t *testing.T) {
	// Inline autocompletion extends the value past the caret; only the
	// text before the caret counts as typed.
	h := newHarness(t, map[string]bool{"example.com": true})
	h.in.SetValue("example.com/suggested-path")
	h.in.SetCaret(len("example.com"))

	h.appendResult("example site")
	if got := h.list.SelectedIndex(); got != -1 {
		t.Fatalf("selected %d, want -1: caret prefix is a domain", got)
	}
}

func TestHorizontalKeyClearsSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("cats")
	h.appendResult("cats are great")
	if h.list.SelectedIndex() != 1 {
		t.Fatal("precondition: auto-selection did not happen")
	}

	h.in.PressKey(field.KeyLeft, 0)
	if got := h.list.SelectedIndex(); got != -1 {
		t.Fatalf("selected %d after Left, want -1", got)
	}
}

func TestVerticalNavigationRevertsFieldText(t *testing.T) {
	h := newHarness(t, nil)
	// The user typed "ca"; inline completion already extended the field.
	h.in.SetValue("cats")
	h.in.SetCaret(2)
	h.appendResult("cats are great")

	snap, _ := h.ctrl.LastSnapshot()
	if snap.OrigSearch != "ca" || snap.OrigValue != "cats" {
		t.Fatalf("snapshot = %+v, want ca/cats", snap)
	}

	// Selecting the row rewrote the field, as a host list would.
	h.in.SetValue("cats are great")

	// Up from index 1 wraps the selection away; the host clears it before
	// the deferred check runs.
	h.in.PressKey(field.KeyUp, 0)
	h.list.SetSelectedIndex(-1)
	h.sched.fire()

	if got := h.in.Value(); got != "cats" {
		t.Fatalf("value %q after revert, want %q", got, "cats")
	}
	if got := h.in.SelectionStart(); got != 2 {
		t.Fatalf("caret %d after revert, want 2", got)
	}
}

func TestVerticalNavigationToAnotherRowKeepsIt(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("ca")
	h.appendResult("cats are great")
	h.appendResult("cars for sale")

	h.in.SetValue("cars for sale")
	h.in.PressKey(field.KeyDown, 0)
	h.list.SetSelectedIndex(2)
	h.sched.fire()

	if got := h.in.Value(); got != "cars for sale" {
		t.Fatalf("value %q, want row text kept for a real selection", got)
	}
}

func TestRevertSkippedWhenListClosed(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("ca")
	h.appendResult("cats are great")
	h.in.SetValue("cats are great")

	h.in.PressKey(field.KeyUp, 0)
	h.list.SetSelectedIndex(-1)
	h.list.SetOpen(false)
	h.sched.fire()

	if got := h.in.Value(); got != "cats are great" {
		t.Fatalf("value %q, want unchanged while list is closed", got)
	}
}

func TestEnterWithEmptyListIsSuppressed(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")

	consumed := h.in.PressKey(field.KeyEnter, 0)
	if !consumed {
		t.Fatal("Enter not consumed while the search is empty and running")
	}
	if h.in.Commits() != 0 {
		t.Fatalf("commits = %d, want 0 while waiting", h.in.Commits())
	}
	if !h.ctrl.AwaitingEnter() {
		t.Fatal("controller not awaiting Enter")
	}

	want := 350 * time.Millisecond / 5
	if got := h.sched.last().delay; got != want {
		t.Fatalf("wait delay = %v for 5 chars, want %v", got, want)
	}
}

func TestEnterWaitScalesWithInputLength(t *testing.T) {
	cases := []struct {
		typed string
		want  time.Duration
	}{
		{"kitte", 70 * time.Millisecond},
		{"kittens", 50 * time.Millisecond},
		{"", 350 * time.Millisecond},
	}
	for _, tc := range cases {
		h := newHarness(t, nil)
		h.in.SetValue(tc.typed)
		h.in.PressKey(field.KeyEnter, 0)
		if got := h.sched.last().delay; got != tc.want {
			t.Errorf("delay for %q = %v, want %v", tc.typed, got, tc.want)
		}
	}
}

func TestWaitExpiryCommitsRawText(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")
	h.in.PressKey(field.KeyEnter, 0)

	h.sched.fire()
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d after expiry, want 1", h.in.Commits())
	}
	if got := h.in.LastCommit(); got != "kitte" {
		t.Fatalf("committed %q, want %q", got, "kitte")
	}
	if h.ctrl.AwaitingEnter() {
		t.Fatal("still awaiting Enter after expiry commit")
	}
}

func TestLateResultConsumesSuppressedEnter(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")
	h.in.PressKey(field.KeyEnter, 0)

	h.appendResult("kittens playing")
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d after late result, want 1", h.in.Commits())
	}
	if got := h.list.SelectedIndex(); got != 1 {
		t.Fatalf("selected %d at commit, want 1", got)
	}
	if h.ctrl.AwaitingEnter() {
		t.Fatal("still awaiting Enter after result consumed it")
	}

	// The still-armed timer fires afterwards; the list is no longer
	// empty, so it must be a no-op.
	h.sched.fire()
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d after stale timer, want 1", h.in.Commits())
	}
}

func TestStaleWaitAfterEditedText(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")
	h.in.PressKey(field.KeyEnter, 0)

	h.in.SetValue("kitten")
	h.sched.fire()

	if h.in.Commits() != 0 {
		t.Fatalf("commits = %d, want 0: wait was for the old text", h.in.Commits())
	}
}

func TestSecondEnterCancelsFirstWait(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")
	h.in.PressKey(field.KeyEnter, 0)
	first := h.sched.last()

	h.in.SetValue("kitten")
	h.in.PressKey(field.KeyEnter, 0)
	if !first.cancelled {
		t.Fatal("first wait handle not cancelled by second Enter")
	}

	h.sched.fire()
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d, want exactly 1 from the second wait", h.in.Commits())
	}
	if got := h.in.LastCommit(); got != "kitten" {
		t.Fatalf("committed %q, want %q", got, "kitten")
	}
}

func TestEnterOnAutoSelectionCommitsViaNavigation(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("cats")
	h.appendResult("cats are great")

	consumed := h.in.PressKey(field.KeyEnter, 0)
	if consumed {
		t.Fatal("Enter consumed; default commit must still run")
	}
	if got := h.list.SelectedIndex(); got != 1 {
		t.Fatalf("selected %d after re-navigation, want 1", got)
	}
	if len(h.navigations) != 1 || h.navigations[0] != field.DirectionDown {
		t.Fatalf("navigations = %v, want one Down", h.navigations)
	}
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d, want 1 via default handling", h.in.Commits())
	}
}

func TestEnterPassesThroughWhenSearchSettledEmpty(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("zzzz")
	h.search.SetStatus(field.StatusNoMatch)

	consumed := h.in.PressKey(field.KeyEnter, 0)
	if consumed {
		t.Fatal("Enter consumed after search settled with no matches")
	}
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d, want immediate default commit", h.in.Commits())
	}
	if len(h.navigations) != 0 {
		t.Fatalf("navigations = %v, want none without auto-selection", h.navigations)
	}
}

func TestEnterForHostHandledTextPassesThrough(t *testing.T) {
	h := newHarness(t, map[string]bool{"example.com": true})
	h.in.SetValue("example.com")

	consumed := h.in.PressKey(field.KeyEnter, 0)
	if consumed {
		t.Fatal("Enter consumed for a domain the host will open directly")
	}
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d, want 1", h.in.Commits())
	}
}

func TestModifiedEnterPassesThrough(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("kitte")

	consumed := h.in.PressKey(field.KeyEnter, field.ModCtrl)
	if consumed {
		t.Fatal("Ctrl+Enter consumed; modified commits belong to the host")
	}
	if h.ctrl.AwaitingEnter() {
		t.Fatal("Ctrl+Enter armed a wait")
	}
	if h.in.Commits() != 1 {
		t.Fatalf("commits = %d, want 1", h.in.Commits())
	}
}

func TestUserSelectionAboveTargetUntouchedOnEnter(t *testing.T) {
	h := newHarness(t, nil)
	h.in.SetValue("ca")
	h.appendResult("cats are great")
	h.appendResult("cars for sale")
	h.list.SetSelectedIndex(2)
	h.navigations = nil

	h.in.PressKey(field.KeyEnter, 0)
	if got := h.list.SelectedIndex(); got != 2 {
		t.Fatalf("selected %d, want user's 2 untouched", got)
	}
	if len(h.navigations) != 0 {
		t.Fatalf("navigations = %v, want none for a manual selection", h.navigations)
	}
}
