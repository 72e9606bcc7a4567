package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gopkg.in/resty.v1"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
	apperrors "github.com/kurihiro0119/hackathon-eval-client/internal/errors"
	"github.com/kurihiro0119/hackathon-eval-client/internal/logger"
)

// Client is the API client for the project evaluation backend
type Client struct {
	baseURL          string
	escapeReportPath bool
	client           *resty.Client
	log              *logger.Logger
}

// Option configures a Client
type Option func(*options)

type options struct {
	timeout          time.Duration
	escapeReportPath bool
	httpClient       *http.Client
}

// WithTimeout sets the per-request timeout. Default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithEscapedReportPath controls whether the repository URL is
// percent-encoded as a single path segment in GET /report/{repo_url}.
// Default is true.
func WithEscapedReportPath(escape bool) Option {
	return func(o *options) {
		o.escapeReportPath = escape
	}
}

// WithHTTPClient replaces the underlying http.Client. The timeout option is
// ignored when this is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	o := &options{
		timeout:          30 * time.Second,
		escapeReportPath: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}
	rc := resty.NewWithClient(hc).
		SetHostURL(baseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		baseURL:          baseURL,
		escapeReportPath: o.escapeReportPath,
		client:           rc,
		log:              logger.Named("client"),
	}
}

// Submit posts repository URLs for evaluation. The returned slice is in
// display order.
func (c *Client) Submit(ctx context.Context, urls []string) ([]domain.SubmissionResult, error) {
	if urls == nil {
		urls = []string{}
	}

	var results []domain.SubmissionResult
	req := c.makeRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(domain.SubmissionRequest{URLs: urls})
	if err := c.do(ctx, "submit", http.MethodPost, "/submit", req, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetRanking retrieves the leaderboard in backend order
func (c *Client) GetRanking(ctx context.Context) ([]domain.RankingEntry, error) {
	var ranking []domain.RankingEntry
	if err := c.do(ctx, "ranking", http.MethodGet, "/ranking", c.makeRequest(ctx), &ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}

// GetReport retrieves the detail report for one repository
func (c *Client) GetReport(ctx context.Context, repoURL string) (*domain.DetailReport, error) {
	var report domain.DetailReport
	if err := c.do(ctx, "report", http.MethodGet, c.ReportPath(repoURL), c.makeRequest(ctx), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportPath returns the request path for a repository's detail report
func (c *Client) ReportPath(repoURL string) string {
	if c.escapeReportPath {
		return "/report/" + url.PathEscape(repoURL)
	}
	return "/report/" + repoURL
}

func (c *Client) makeRequest(ctx context.Context) *resty.Request {
	req := c.client.R()
	req.SetContext(ctx)
	if id := logger.RequestID(ctx); id != "" {
		req.SetHeader("X-Request-ID", id)
	}
	return req
}

func (c *Client) do(ctx context.Context, op, method, path string, req *resty.Request, result interface{}) error {
	if logger.RequestID(ctx) == "" {
		id := uuid.NewString()
		ctx = logger.WithRequestID(ctx, id)
		req.SetHeader("X-Request-ID", id)
	}
	log := logger.C(ctx, c.log)

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Str("path", path).Dur("elapsed", elapsed).Msg("request failed")
		return apperrors.NewTransportError(op, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", elapsed).
		Msg("request done")

	if !resp.IsSuccess() {
		return apperrors.NewStatusError(op, resp.StatusCode(), resp.Body())
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return apperrors.NewDecodeError(op, err)
	}
	return nil
}
