package engine

import "time"

// Query parameter names tried, in order, when a site exposes no Next
// control. Each page index is attempted under every name.
var pageParams = []string{"page", "p", "start", "offset"}

const (
	// Hard cap on page indexes tried per parameter walk.
	maxPageIndex = 50
	// Snapshots shorter than this are treated as empty responses.
	minHTMLLength = 100
)

// budget tracks a wall-clock allowance for the dynamic crawl phase.
// Exhaustion is not an error: the fetcher stops expanding and merges
// whatever it already collected.
type budget struct {
	deadline time.Time
}

func newBudget(d time.Duration) *budget {
	if d <= 0 {
		return &budget{}
	}
	return &budget{deadline: time.Now().Add(d)}
}

func (b *budget) exceeded() bool {
	return !b.deadline.IsZero() && time.Now().After(b.deadline)
}
