package field

// Input is an in-memory TextField. Key presses are injected with PressKey,
// which runs subscribed handlers first and falls back to default handling
// for unconsumed keys.
type Input struct {
	value    string
	selStart int
	selEnd   int
	handlers []KeyHandler

	// OnCommit, when set, observes every default commit.
	OnCommit func(text string)

	commits    int
	lastCommit string
}

// NewInput creates an empty in-memory text field.
func NewInput() *Input {
	return &Input{}
}

func (in *Input) Value() string { return in.value }

// SetValue replaces the field content and moves the caret to the end.
func (in *Input) SetValue(s string) {
	in.value = s
	in.selStart = len(s)
	in.selEnd = len(s)
}

func (in *Input) SelectionStart() int { return in.selStart }
func (in *Input) SelectionEnd() int   { return in.selEnd }

// SetCaret collapses the selection onto pos, clamped to the content.
func (in *Input) SetCaret(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(in.value) {
		pos = len(in.value)
	}
	in.selStart = pos
	in.selEnd = pos
}

func (in *Input) CommitCurrentText() {
	in.commits++
	in.lastCommit = in.value
	if in.OnCommit != nil {
		in.OnCommit(in.value)
	}
}

func (in *Input) OnKeyDown(fn KeyHandler) {
	in.handlers = append(in.handlers, fn)
}

// PressKey dispatches a key press to the handlers in subscription order.
// When no handler consumes it, the default action runs: Enter commits the
// current text, horizontal keys move the caret. Returns true if a handler
// consumed the event.
func (in *Input) PressKey(key Key, mods Modifier) bool {
	for _, fn := range in.handlers {
		if fn(key, mods) {
			return true
		}
	}
	switch key {
	case KeyEnter:
		in.CommitCurrentText()
	case KeyLeft:
		in.SetCaret(in.selStart - 1)
	case KeyRight:
		in.SetCaret(in.selStart + 1)
	case KeyHome:
		in.SetCaret(0)
	}
	return false
}

// Commits reports how many default commits have run.
func (in *Input) Commits() int { return in.commits }

// LastCommit returns the field content at the most recent commit.
func (in *Input) LastCommit() string { return in.lastCommit }
