package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
	"github.com/kurihiro0119/hackathon-eval-client/internal/fakebackend"
	"github.com/kurihiro0119/hackathon-eval-client/internal/notify"
	"github.com/kurihiro0119/hackathon-eval-client/internal/session"
	"github.com/kurihiro0119/hackathon-eval-client/internal/view"
	"github.com/kurihiro0119/hackathon-eval-client/pkg/client"
)

func score(v float64) *float64 { return &v }

// execute runs the CLI against the backend at endpoint
func execute(t *testing.T, endpoint, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "off")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--endpoint", endpoint))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSubmitCommand(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.SetResult(domain.SubmissionResult{RepoURL: "https://github.com/a/one", Status: "done", TotalScore: score(88)})

	out, _, err := execute(t, srv.URL, "", "submit", "https://github.com/a/one,", "https://github.com/a/two")
	require.NoError(t, err)

	assert.Contains(t, out, "https://github.com/a/one")
	assert.Contains(t, out, "88")
	assert.Contains(t, out, "https://github.com/a/two")
	assert.Contains(t, out, "pending")

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"urls":["https://github.com/a/one","https://github.com/a/two"]}`, reqs[0].Body)
}

func TestSubmitCommand_FailureNotifies(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.FailWith(fakebackend.RouteSubmit, http.StatusServiceUnavailable)

	_, stderr, err := execute(t, srv.URL, "", "submit", "a")
	require.Error(t, err)
	assert.Contains(t, stderr, notify.SubmitFailedMessage)
}

func TestSubmitCommand_WithReport(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	body := "Excellent README"
	backend.SetReport("a", domain.DetailReport{
		Criteria: []domain.Criterion{{Name: "Documentation", Score: 9, Justification: "complete"}},
		Report:   &body,
	})

	out, _, err := execute(t, srv.URL, "", "submit", "a", "b", "--report", "1", "--expand")
	require.NoError(t, err)
	assert.Contains(t, out, "Detailed Report")
	assert.Contains(t, out, "Documentation")
	assert.Contains(t, out, body)

	// Row 2 has no report; the selection is cleared without an error.
	out, _, err = execute(t, srv.URL, "", "submit", "a", "b", "--report", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Detailed Report")
}

func TestSubmitCommand_JSON(t *testing.T) {
	srv, _ := fakebackend.NewServer()
	defer srv.Close()

	out, _, err := execute(t, srv.URL, "", "submit", "a", "--json")
	require.NoError(t, err)

	var payload struct {
		Results []domain.SubmissionResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "a", payload.Results[0].RepoURL)
}

func TestSubmitCommand_JSONEmptySubmission(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()

	out, _, err := execute(t, srv.URL, "", "submit", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, out)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"urls":[]}`, reqs[0].Body)
}

func TestRankingCommand(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.SetRanking([]domain.RankingEntry{{RepoURL: "a", TotalScore: 90}, {RepoURL: "b", TotalScore: 70}})

	out, _, err := execute(t, srv.URL, "", "ranking")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "| a "), strings.Index(out, "| b "))

	out, _, err = execute(t, srv.URL, "", "ranking", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"repo_url":"a","total_score":90},{"repo_url":"b","total_score":70}]`, out)
}

func TestRankingCommand_FailureIsSilent(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.FailWith(fakebackend.RouteRanking, http.StatusInternalServerError)

	out, stderr, err := execute(t, srv.URL, "", "ranking")
	require.NoError(t, err)
	assert.Contains(t, out, "(empty)")
	assert.Empty(t, stderr)
}

func TestReportCommand(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	repo := "https://github.com/acme/widget"
	backend.SetReport(repo, domain.DetailReport{Criteria: []domain.Criterion{{Name: "Design", Score: 7, Justification: "clean"}}})

	out, _, err := execute(t, srv.URL, "", "report", repo)
	require.NoError(t, err)
	assert.Contains(t, out, "Design")
	assert.NotContains(t, out, "Markdown report")

	_, _, err = execute(t, srv.URL, "", "report", "https://github.com/acme/missing")
	assert.Error(t, err)
}

func TestInvalidEndpoint(t *testing.T) {
	_, _, err := execute(t, "not a url", "", "ranking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_ENDPOINT")
}

func TestSessionCommand_Quit(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.SetRanking([]domain.RankingEntry{{RepoURL: "leader", TotalScore: 99}})

	out, _, err := execute(t, srv.URL, "help\nquit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "T2S Hackathon")
	assert.Contains(t, out, "Commands:")
}

func newTestSession(t *testing.T, url string) *session.Session {
	t.Helper()
	return session.New(client.NewClient(url), &notify.Recorder{})
}

func TestREPL_SubmitRendersResults(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.SetRanking([]domain.RankingEntry{{RepoURL: "leader", TotalScore: 99}})
	backend.SetResult(domain.SubmissionResult{RepoURL: "a", Status: "done", TotalScore: score(5)})

	var buf bytes.Buffer
	out := &lockedWriter{w: &buf}
	sess := newTestSession(t, srv.URL)

	err := runREPL(context.Background(), strings.NewReader("submit a, b\n"), out, sess, false)
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "[Analyzing...]")
	assert.Contains(t, text, "leader")

	st := sess.Snapshot()
	assert.False(t, st.Busy)
	require.Len(t, st.Results, 2)
	assert.Equal(t, "a", st.Results[0].RepoURL)
	assert.Equal(t, "b", st.Results[1].RepoURL)
	assert.Equal(t, []domain.RankingEntry{{RepoURL: "leader", TotalScore: 99}}, st.Ranking)
}

func TestREPL_SelectAndToggle(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	body := "full narrative"
	backend.SetReport("x", domain.DetailReport{Report: &body})

	var buf bytes.Buffer
	out := &lockedWriter{w: &buf}
	sess := newTestSession(t, srv.URL)

	err := runREPL(context.Background(), strings.NewReader("select 4\nselect x\n"), out, sess, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "row 4 out of range")
	assert.Equal(t, "x", sess.Snapshot().SelectedRepo)

	buf.Reset()
	err = runREPL(context.Background(), strings.NewReader("show\nbogus\n"), out, sess, false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), body)
	assert.Contains(t, buf.String(), `Unknown command "bogus"`)
}

// lastScreen returns the output of the most recent full-screen render
func lastScreen(out string) string {
	return out[strings.LastIndex(out, view.Title):]
}

func TestREPL_FailedSelectClearsShownReport(t *testing.T) {
	srv, backend := fakebackend.NewServer()
	defer srv.Close()
	backend.SetReport("x", domain.DetailReport{Criteria: []domain.Criterion{{Name: "Docs", Score: 8, Justification: "clear"}}})

	sess := newTestSession(t, srv.URL)

	var first bytes.Buffer
	err := runREPL(context.Background(), strings.NewReader("select x\n"), &lockedWriter{w: &first}, sess, false)
	require.NoError(t, err)
	assert.Contains(t, lastScreen(first.String()), "Detailed Report")
	firstLen := first.Len()

	var second bytes.Buffer
	err = runREPL(context.Background(), strings.NewReader("select missing\n"), &lockedWriter{w: &second}, sess, false)
	require.NoError(t, err)

	screen := lastScreen(second.String())
	assert.NotContains(t, screen, "Detailed Report")
	assert.NotContains(t, screen, "Docs")
	assert.Nil(t, sess.Snapshot().Selection)
	// the first session's listener was removed when it returned
	assert.Equal(t, firstLen, first.Len())
}

func TestSplitCommand(t *testing.T) {
	verb, arg := splitCommand("  SUBMIT  a, b  ")
	assert.Equal(t, "submit", verb)
	assert.Equal(t, "a, b", arg)

	verb, arg = splitCommand("")
	assert.Equal(t, "", verb)
	assert.Equal(t, "", arg)
}
