package session

import "github.com/kurihiro0119/hackathon-eval-client/internal/domain"

// State is a snapshot of everything the views render
type State struct {
	Input        string
	Busy         bool
	Results      []domain.SubmissionResult
	Selection    *domain.DetailReport
	SelectedRepo string // repo_url that Selection belongs to
	Ranking      []domain.RankingEntry
}

func (s State) clone() State {
	out := s
	if s.Results != nil {
		out.Results = make([]domain.SubmissionResult, len(s.Results))
		copy(out.Results, s.Results)
	}
	if s.Ranking != nil {
		out.Ranking = make([]domain.RankingEntry, len(s.Ranking))
		copy(out.Ranking, s.Ranking)
	}
	return out
}
