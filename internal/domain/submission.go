package domain

import (
	"strings"
	"unicode"
)

// Status values reported by the evaluation backend. Status is free-form;
// these are only the ones the client knows how to classify.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusSuccess    = "SUCCESS"
	StatusFailure    = "FAILURE"
)

// SubmissionRequest is the body of POST /submit
type SubmissionRequest struct {
	URLs []string `json:"urls"`
}

// SubmissionResult is the backend outcome for one submitted repository
type SubmissionResult struct {
	RepoURL    string   `json:"repo_url"`
	Status     string   `json:"status"`
	TotalScore *float64 `json:"total_score,omitempty"`
}

// HasScore reports whether scoring has completed for this repository
func (r SubmissionResult) HasScore() bool {
	return r.TotalScore != nil
}

// Done reports whether the backend has finished with this repository,
// successfully or not
func (r SubmissionResult) Done() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case StatusSuccess, StatusFailure, "DONE", "ERROR":
		return true
	}
	return r.HasScore()
}

// ParseURLs splits raw input on whitespace or commas and drops empty tokens.
// The result is never nil so that an empty input is sent as {"urls": []}.
func ParseURLs(raw string) []string {
	urls := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if urls == nil {
		return []string{}
	}
	return urls
}
