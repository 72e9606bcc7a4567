// Package fakebackend serves the evaluation backend HTTP contract from memory.
// It exists so client and CLI code can be exercised against real HTTP.
package fakebackend

import (
	"sync"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
)

// Route names used for failure injection
const (
	RouteSubmit  = "submit"
	RouteRanking = "ranking"
	RouteReport  = "report"
)

// Request is a recorded incoming request
type Request struct {
	Method     string
	RequestURI string
	Body       string
	RequestID  string
}

// Backend holds the canned state served by the handlers
type Backend struct {
	mu       sync.Mutex
	results  map[string]domain.SubmissionResult
	ranking  []domain.RankingEntry
	reports  map[string]domain.DetailReport
	raw      map[string]string
	failures map[string]int
	requests []Request
}

// New creates an empty backend
func New() *Backend {
	return &Backend{
		results:  make(map[string]domain.SubmissionResult),
		reports:  make(map[string]domain.DetailReport),
		raw:      make(map[string]string),
		failures: make(map[string]int),
	}
}

// SetResult sets the outcome returned for a submitted URL. URLs without an
// explicit result come back as "pending".
func (b *Backend) SetResult(r domain.SubmissionResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[r.RepoURL] = r
}

// SetRanking sets the leaderboard, served in the given order
func (b *Backend) SetRanking(entries []domain.RankingEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ranking = append([]domain.RankingEntry(nil), entries...)
}

// SetReport sets the detail report for a repository
func (b *Backend) SetReport(repoURL string, report domain.DetailReport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports[repoURL] = report
}

// SetRawBody makes route answer 200 with body verbatim
func (b *Backend) SetRawBody(route, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw[route] = body
}

// FailWith makes route answer with status. Zero clears the failure.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Requests returns a copy of all recorded requests
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) record(r Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r)
}

func (b *Backend) failure(route string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status, ok := b.failures[route]
	return status, ok
}

func (b *Backend) rawBody(route string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.raw[route]
	return body, ok
}

func (b *Backend) evaluate(urls []string) []domain.SubmissionResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.SubmissionResult, 0, len(urls))
	for _, u := range urls {
		if r, ok := b.results[u]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, domain.SubmissionResult{RepoURL: u, Status: "pending"})
	}
	return out
}

func (b *Backend) rankingCopy() []domain.RankingEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.RankingEntry, len(b.ranking))
	copy(out, b.ranking)
	return out
}

func (b *Backend) report(repoURL string) (domain.DetailReport, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.reports[repoURL]
	return r, ok
}
