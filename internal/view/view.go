// Package view renders client state as text. Every function here is a pure
// function of its arguments.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
	apperrors "github.com/kurihiro0119/hackathon-eval-client/internal/errors"
	"github.com/kurihiro0119/hackathon-eval-client/internal/session"
)

// Title is printed at the top of the full screen
const Title = "T2S Hackathon - Project Evaluation"

// Button labels
const (
	LabelSubmit = "Submit"
	LabelBusy   = "Analyzing..."
)

// FinishedMark flags results the backend is done with
const FinishedMark = "✓"

// Options controls rendering
type Options struct {
	// Expand shows the report body instead of a collapsed marker
	Expand bool
}

// FormatScore prints a score without trailing zeros
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderResults renders one row per submission result, in the given order
func RenderResults(w io.Writer, results []domain.SubmissionResult) {
	fmt.Fprintln(w, "Results")
	if len(results) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Repository", "Status", "Score", "Finished"})
	table.SetAutoWrapText(false)
	for i, r := range results {
		score := ""
		if r.HasScore() {
			score = FormatScore(*r.TotalScore)
		}
		finished := ""
		if r.Done() {
			finished = FinishedMark
		}
		table.Append([]string{strconv.Itoa(i + 1), r.RepoURL, r.Status, score, finished})
	}
	table.Render()
}

// RenderRanking renders the leaderboard in backend order
func RenderRanking(w io.Writer, entries []domain.RankingEntry) {
	fmt.Fprintln(w, "Project Ranking")
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Repository", "Score"})
	table.SetAutoWrapText(false)
	for i, e := range entries {
		table.Append([]string{strconv.Itoa(i + 1), e.RepoURL, FormatScore(e.TotalScore)})
	}
	table.Render()
}

// RenderReport renders criteria and the report body. Absent fields render
// nothing; a nil report renders nothing at all.
func RenderReport(w io.Writer, report *domain.DetailReport, opts Options) {
	if report == nil {
		return
	}

	fmt.Fprintln(w, "Detailed Report")

	if report.HasCriteria() {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Criterion", "Score", "Justification"})
		table.SetAutoWrapText(false)
		for _, c := range report.Criteria {
			table.Append([]string{c.Name, FormatScore(c.Score), c.Justification})
		}
		table.Render()
	}

	if report.HasReport() {
		if !opts.Expand {
			fmt.Fprintln(w, "▸ Markdown report (collapsed)")
			return
		}
		fmt.Fprintln(w, "▾ Markdown report")
		fmt.Fprintln(w, report.Body())
	}
}

// RenderScreen renders the whole client from a state snapshot
func RenderScreen(w io.Writer, st session.State, opts Options) {
	fmt.Fprintln(w, Title)
	fmt.Fprintln(w)

	label := LabelSubmit
	if st.Busy {
		label = LabelBusy
	}
	fmt.Fprintf(w, "Repository URLs: %s\n", st.Input)
	fmt.Fprintf(w, "[%s]\n\n", label)

	RenderRanking(w, st.Ranking)
	fmt.Fprintln(w)
	RenderResults(w, st.Results)

	if st.Selection != nil {
		fmt.Fprintln(w)
		if st.SelectedRepo != "" {
			fmt.Fprintf(w, "Selected: %s\n", st.SelectedRepo)
		}
		RenderReport(w, st.Selection, opts)
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return apperrors.NewInternalError("failed to write JSON output", err)
	}
	return nil
}
