package field

// Search is an in-memory SearchStatus.
type Search struct {
	matchCount int
	status     Status

	// OnNavigate, when set, receives navigation commands issued by the
	// controller.
	OnNavigate func(dir Direction)
}

// NewSearch starts in the searching state with zero matches.
func NewSearch() *Search {
	return &Search{status: StatusSearching}
}

func (s *Search) MatchCount() int { return s.matchCount }

func (s *Search) SetMatchCount(n int) { s.matchCount = n }

func (s *Search) Status() Status { return s.status }

func (s *Search) SetStatus(st Status) { s.status = st }

// Reset returns to the initial searching state for a new query.
func (s *Search) Reset() {
	s.matchCount = 0
	s.status = StatusSearching
}

func (s *Search) Navigate(dir Direction) {
	if s.OnNavigate != nil {
		s.OnNavigate(dir)
	}
}

func (st Status) String() string {
	switch st {
	case StatusSearching:
		return "searching"
	case StatusComplete:
		return "complete"
	case StatusNoMatch:
		return "no-match"
	}
	return "unknown"
}

