// Package field defines the collaborator contracts a selection controller
// attaches to: the text input, the suggestion list and the search status.
// In-memory implementations are provided for hosts that drive the controller
// directly (CLI, IPC sessions) and for tests.
package field

// KeyHandler receives a key press before default handling.
// Returning true consumes the event: default handling is suppressed.
type KeyHandler func(key Key, mods Modifier) bool

// TextField is the editable input the controller is attached to.
type TextField interface {
	Value() string
	SetValue(s string)
	SelectionStart() int
	SelectionEnd() int
	SetCaret(pos int)
	// CommitCurrentText performs the host's default commit action for the
	// current field content.
	CommitCurrentText()
	OnKeyDown(fn KeyHandler)
}

// SuggestionList is the asynchronously populated result list.
type SuggestionList interface {
	Count() int
	// SelectedIndex returns -1 when nothing is selected.
	SelectedIndex() int
	SetSelectedIndex(i int)
	Open() bool
	OnAppend(fn func())
}

// Direction for search result navigation.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

// Status of the asynchronous search backing the suggestion list.
type Status int

const (
	StatusSearching Status = iota
	StatusComplete
	StatusNoMatch
)

// SearchStatus exposes the progress of the asynchronous search and the
// host's navigation command.
type SearchStatus interface {
	MatchCount() int
	Status() Status
	Navigate(dir Direction)
}
