package history

import (
	"sync/atomic"

	"github.com/bastiangx/barserve/pkg/field"
	"github.com/bastiangx/barserve/pkg/sched"
)

// Query identifies one in-flight streamed search. Cancelling renders every
// remaining append a no-op; a newer query for the same list must cancel
// the older one before clearing the list.
type Query struct {
	cancelled atomic.Bool
}

// Cancel stops any not-yet-delivered appends of this query.
func (q *Query) Cancel() {
	q.cancelled.Store(true)
}

// Search resets status, computes matches and posts them onto the loop one
// append per turn. The first real match is preceded by the default
// fallback row, keeping index 0 reserved for the default action. A final
// post settles the status to complete or no-match.
func (p *Provider) Search(loop *sched.Loop, query string, list *field.List, status *field.Search) *Query {
	q := &Query{}
	status.Reset()

	matches := p.Match(query)
	for i, m := range matches {
		m := m
		first := i == 0
		count := i + 1
		loop.Post(func() {
			if q.cancelled.Load() {
				return
			}
			if first {
				list.Append(field.Entry{Title: "Search for " + query, Fallback: true})
			}
			list.Append(field.Entry{Title: m.Title, URL: m.URL})
			status.SetMatchCount(count)
		})
	}
	loop.Post(func() {
		if q.cancelled.Load() {
			return
		}
		if len(matches) == 0 {
			status.SetStatus(field.StatusNoMatch)
		} else {
			status.SetStatus(field.StatusComplete)
		}
	})
	return q
}
