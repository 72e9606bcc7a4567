package domain

// RankingEntry is one row of the leaderboard. Order is set by the backend.
type RankingEntry struct {
	RepoURL    string  `json:"repo_url"`
	TotalScore float64 `json:"total_score"`
}
