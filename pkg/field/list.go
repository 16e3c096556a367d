package field

// Entry is a single suggestion row.
type Entry struct {
	Title string
	URL   string
	// Fallback marks the default action row reserved at index 0.
	Fallback bool
}

// List is an in-memory SuggestionList.
type List struct {
	entries  []Entry
	selected int
	open     bool
	onAppend []func()
}

// NewList creates an empty, closed list with no selection.
func NewList() *List {
	return &List{selected: -1}
}

func (l *List) Count() int { return len(l.entries) }

func (l *List) SelectedIndex() int { return l.selected }

// SetSelectedIndex sets the selection; any index outside the list clears it.
func (l *List) SetSelectedIndex(i int) {
	if i < 0 || i >= len(l.entries) {
		l.selected = -1
		return
	}
	l.selected = i
}

func (l *List) Open() bool { return l.open }

// SetOpen toggles list visibility.
func (l *List) SetOpen(open bool) { l.open = open }

func (l *List) OnAppend(fn func()) {
	l.onAppend = append(l.onAppend, fn)
}

// Append adds an entry, opens the list and notifies subscribers in order.
func (l *List) Append(e Entry) {
	l.entries = append(l.entries, e)
	l.open = true
	for _, fn := range l.onAppend {
		fn()
	}
}

// Clear drops all entries and the selection; the list stays open or closed
// as it was.
func (l *List) Clear() {
	l.entries = nil
	l.selected = -1
}

// Entry returns the row at i, or a zero Entry when out of range.
func (l *List) Entry(i int) Entry {
	if i < 0 || i >= len(l.entries) {
		return Entry{}
	}
	return l.entries[i]
}

// Entries returns the backing rows. Callers must not mutate the slice.
func (l *List) Entries() []Entry { return l.entries }
