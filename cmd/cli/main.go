package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kurihiro0119/hackathon-eval-client/internal/config"
	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
	"github.com/kurihiro0119/hackathon-eval-client/internal/logger"
	"github.com/kurihiro0119/hackathon-eval-client/internal/notify"
	"github.com/kurihiro0119/hackathon-eval-client/internal/session"
	"github.com/kurihiro0119/hackathon-eval-client/internal/view"
	"github.com/kurihiro0119/hackathon-eval-client/pkg/client"
)

type rootOptions struct {
	cfgFile    string
	outputJSON bool
	expand     bool
	endpoint   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "hackeval",
		Short: "Hackathon project evaluation client",
		Long: `A CLI client for the hackathon project evaluation service.

Submit repository URLs for evaluation, browse the project ranking and read
the detailed report of any evaluated repository. Run without a subcommand
to start an interactive session.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&opts.expand, "expand", false, "show report bodies expanded")
	rootCmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "backend address (overrides API_ENDPOINT)")

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session",
		Long:  `Start an interactive session. The ranking is fetched once at start; submit URLs and select rows to read their reports.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts)
		},
	}

	var reportSel string
	submitCmd := &cobra.Command{
		Use:   "submit [urls...]",
		Short: "Submit repositories for evaluation",
		Long:  `Submit repository URLs separated by whitespace or commas and show the per-repository results.`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts, args, reportSel)
		},
	}
	submitCmd.Flags().StringVar(&reportSel, "report", "", "after submitting, show the report of this row number or repository URL")

	rankingCmd := &cobra.Command{
		Use:   "ranking",
		Short: "Show the project ranking",
		Long:  `Display the project leaderboard in the order the backend returns it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanking(cmd, opts)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report [repo_url]",
		Short: "Show the detailed report of a repository",
		Long:  `Display rubric criteria and the report body for an evaluated repository.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args[0])
		},
	}

	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(reportCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	var files []string
	if o.cfgFile != "" {
		files = append(files, o.cfgFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.endpoint != "" {
		cfg.APIEndpoint = o.endpoint
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	o.cfg = cfg
	return nil
}

func (o *rootOptions) newClient() *client.Client {
	return client.NewClient(o.cfg.APIEndpoint,
		client.WithTimeout(o.cfg.HTTPTimeout),
		client.WithEscapedReportPath(o.cfg.EscapeReportPath),
	)
}

func (o *rootOptions) newSession(errOut io.Writer) *session.Session {
	return session.New(o.newClient(), notify.NewWriter(errOut))
}

func runSubmit(cmd *cobra.Command, opts *rootOptions, args []string, reportSel string) error {
	out := cmd.OutOrStdout()
	sess := opts.newSession(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	raw := strings.Join(args, " ")
	if err := sess.Submit(ctx, raw); err != nil {
		return fmt.Errorf("failed to submit: %w", err)
	}

	if reportSel != "" {
		// A failed selection only clears the report, as in the session view
		if row, err := strconv.Atoi(reportSel); err == nil {
			_ = sess.SelectRow(ctx, row)
		} else {
			_ = sess.SelectForDetail(ctx, reportSel)
		}
	}

	st := sess.Snapshot()
	if opts.outputJSON {
		return view.WriteJSON(out, struct {
			Results []domain.SubmissionResult `json:"results"`
			Report  *domain.DetailReport      `json:"report,omitempty"`
		}{st.Results, st.Selection})
	}

	view.RenderResults(out, st.Results)
	if st.Selection != nil {
		fmt.Fprintln(out)
		view.RenderReport(out, st.Selection, view.Options{Expand: opts.expand})
	}
	return nil
}

func runRanking(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	sess := opts.newSession(cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	<-sess.ActivateRanking(ctx)
	ranking := sess.Snapshot().Ranking

	if opts.outputJSON {
		if ranking == nil {
			return view.WriteJSON(out, []struct{}{})
		}
		return view.WriteJSON(out, ranking)
	}
	view.RenderRanking(out, ranking)
	return nil
}

func runReport(cmd *cobra.Command, opts *rootOptions, repoURL string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := opts.newClient().GetReport(ctx, repoURL)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	if opts.outputJSON {
		return view.WriteJSON(out, report)
	}
	view.RenderReport(out, report, view.Options{Expand: opts.expand})
	return nil
}
