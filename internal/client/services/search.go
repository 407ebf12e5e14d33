package services

import (
	"context"
	"sync"
	"time"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/logging"
)

// DefaultSearchDebounce is how long the searcher waits after the last
// keystroke before issuing a request. Long enough to coalesce fast typing,
// short enough to feel immediate.
const DefaultSearchDebounce = 300 * time.Millisecond

// UserSearcher debounces user-search queries. Each Trigger restarts the
// quiet-period timer; only the most recent query, after the quiet period,
// ever produces a network request or a result delivery. An empty query
// cancels any pending search and clears results without a request. The
// authenticated user is always excluded from results.
type UserSearcher struct {
	client   api.Client
	session  SessionService
	interval time.Duration
	log      logging.Logger

	// deliver receives the results for the query that survived the quiet
	// period. It runs on the timer goroutine.
	deliver func(query string, users []models.User)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewUserSearcher builds a searcher with the given quiet period. A
// non-positive interval falls back to DefaultSearchDebounce.
func NewUserSearcher(client api.Client, session SessionService, interval time.Duration, log logging.Logger, deliver func(query string, users []models.User)) *UserSearcher {
	if interval <= 0 {
		interval = DefaultSearchDebounce
	}
	return &UserSearcher{
		client:   client,
		session:  session,
		interval: interval,
		log:      log,
		deliver:  deliver,
	}
}

// Trigger registers a keystroke. The pending search for any previous query
// is discarded without a request being sent.
func (s *UserSearcher) Trigger(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if query == "" {
		// Clearing the input clears the results immediately.
		s.deliver("", nil)
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.interval, func() {
		s.run(ctx, query, gen)
	})
}

// Cancel discards any pending search without clearing delivered results.
func (s *UserSearcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// run executes the search once the quiet period has elapsed. Failures are
// logged and swallowed: prior results stay displayed.
func (s *UserSearcher) run(ctx context.Context, query string, gen uint64) {
	users, err := s.client.SearchUsers(ctx, query)
	if err != nil {
		s.log.Warn(ctx, "user search failed", "query", query, "error", err)
		return
	}

	var selfID int
	if current := s.session.Current(); current != nil {
		selfID = current.UserID
	}

	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID == selfID {
			continue
		}
		filtered = append(filtered, u)
	}

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		// A newer keystroke arrived while the request was in flight.
		return
	}

	s.deliver(query, filtered)
}
