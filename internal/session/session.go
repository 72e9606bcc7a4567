// Package session holds the client's UI state and the transitions that change it.
//
// Every network call runs as a task whose completion applies exactly one
// transition. Tasks are never cancelled by the session, so a late response
// still replaces state when it arrives.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
	apperrors "github.com/kurihiro0119/hackathon-eval-client/internal/errors"
	"github.com/kurihiro0119/hackathon-eval-client/internal/logger"
	"github.com/kurihiro0119/hackathon-eval-client/internal/notify"
)

// API is the backend the session talks to
type API interface {
	Submit(ctx context.Context, urls []string) ([]domain.SubmissionResult, error)
	GetRanking(ctx context.Context) ([]domain.RankingEntry, error)
	GetReport(ctx context.Context, repoURL string) (*domain.DetailReport, error)
}

// Session is the explicit state container of the client
type Session struct {
	api      API
	notifier notify.Notifier
	log      *logger.Logger

	mu         sync.Mutex
	state      State
	listeners  map[int]func(State)
	nextListen int

	// pubMu serializes snapshot delivery so listeners never see an older
	// state after a newer one
	pubMu sync.Mutex

	rankingOnce sync.Once
	rankingDone chan struct{}
}

// New creates a session over api. Submission failures are reported to n.
func New(api API, n notify.Notifier) *Session {
	return &Session{
		api:         api,
		notifier:    n,
		log:         logger.Named("session"),
		listeners:   make(map[int]func(State)),
		rankingDone: make(chan struct{}),
	}
}

// OnChange registers fn to receive a snapshot after every transition.
// Calling the returned func removes fn.
func (s *Session) OnChange(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Busy reports whether a submission is outstanding
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Busy
}

// SetInput replaces the held input text
func (s *Session) SetInput(text string) {
	s.update(func(st *State) { st.Input = text })
}

// Submit splits rawText into URLs and posts them. While the request is
// outstanding the session is busy and further submissions fail with a BUSY
// error. On success the result list is replaced; on failure the user is
// notified and prior results are kept. Busy is cleared on every path.
func (s *Session) Submit(ctx context.Context, rawText string) error {
	if err := s.beginSubmit(rawText); err != nil {
		return err
	}

	var (
		results   []domain.SubmissionResult
		succeeded bool
	)
	defer func() {
		s.update(func(st *State) {
			if succeeded {
				st.Results = results
			}
			st.Busy = false
		})
	}()

	urls := domain.ParseURLs(rawText)
	out := <-Go(ctx, func(ctx context.Context) ([]domain.SubmissionResult, error) {
		return s.api.Submit(ctx, urls)
	})
	if out.Err != nil {
		s.log.Warn().Err(out.Err).Int("urls", len(urls)).Msg("submission failed")
		s.notifier.Notify(notify.SubmitFailedMessage)
		return out.Err
	}

	results = out.Value
	if results == nil {
		results = []domain.SubmissionResult{}
	}
	succeeded = true
	s.log.Info().Int("urls", len(urls)).Int("results", len(results)).Msg("submission done")
	return nil
}

func (s *Session) beginSubmit(rawText string) error {
	s.mu.Lock()
	if s.state.Busy {
		s.mu.Unlock()
		return apperrors.NewBusyError("a submission is already in progress")
	}
	s.state.Input = rawText
	s.state.Busy = true
	s.mu.Unlock()

	s.publish()
	return nil
}

// SelectForDetail fetches the detail report of repoURL. On success it becomes
// the active selection; on failure the selection is cleared. The session does
// not notify the user either way, the error is returned for callers that
// want it.
func (s *Session) SelectForDetail(ctx context.Context, repoURL string) error {
	out := <-Go(ctx, func(ctx context.Context) (*domain.DetailReport, error) {
		return s.api.GetReport(ctx, repoURL)
	})
	if out.Err != nil {
		s.log.Debug().Err(out.Err).Str("repo_url", repoURL).Msg("detail fetch failed, clearing selection")
		s.update(func(st *State) {
			st.Selection = nil
			st.SelectedRepo = ""
		})
		return out.Err
	}

	s.update(func(st *State) {
		st.Selection = out.Value
		st.SelectedRepo = repoURL
	})
	return nil
}

// SelectRow selects the result at 1-based position row
func (s *Session) SelectRow(ctx context.Context, row int) error {
	s.mu.Lock()
	if row < 1 || row > len(s.state.Results) {
		n := len(s.state.Results)
		s.mu.Unlock()
		return apperrors.NewBadRequestError(fmt.Sprintf("row %d out of range (1-%d)", row, n))
	}
	repoURL := s.state.Results[row-1].RepoURL
	s.mu.Unlock()

	return s.SelectForDetail(ctx, repoURL)
}

// ActivateRanking fetches the ranking the first time it is called; later
// calls do nothing. The returned channel is closed once that fetch has
// completed. A failed fetch leaves the ranking empty.
func (s *Session) ActivateRanking(ctx context.Context) <-chan struct{} {
	s.rankingOnce.Do(func() {
		ch := Go(ctx, s.api.GetRanking)
		go func() {
			defer close(s.rankingDone)
			out := <-ch
			if out.Err != nil {
				s.log.Debug().Err(out.Err).Msg("ranking fetch failed")
				return
			}
			s.update(func(st *State) { st.Ranking = out.Value })
		}()
	})
	return s.rankingDone
}

func (s *Session) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()

	s.publish()
}

func (s *Session) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	snap := s.state.clone()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(State), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}
