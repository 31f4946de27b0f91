// Package backend talks to the bulk-create endpoint.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"course-bulk/internal/concurrency"
	"course-bulk/internal/config"
	"course-bulk/internal/httpx"
	"course-bulk/internal/logger"
	"course-bulk/internal/resolver"
)

const contentTypeJSON = "application/json"

// ErrRequestInFlight is returned when a call starts while another one on the
// same client has not finished.
var ErrRequestInFlight = errors.New("backend: request already in flight")

// Client calls the bulk-create endpoint. Build it with New; a zero HTTP or Log
// falls back to http.DefaultClient and a no-op logger.
type Client struct {
	BaseURL     string
	Path        string
	Token       string
	InstituteID string
	HTTP        *http.Client

	ChunkSize         int
	Workers           int
	DryRunMaxAttempts int

	Log *logger.Logger

	inFlight atomic.Bool
}

// New returns a client for cfg with its own connection pool.
func New(cfg config.BackendConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	tr := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		Path:              cfg.Path,
		Token:             cfg.Token,
		InstituteID:       cfg.InstituteID,
		HTTP:              &http.Client{Timeout: cfg.Timeout, Transport: tr},
		ChunkSize:         cfg.ChunkSize,
		Workers:           cfg.Workers,
		DryRunMaxAttempts: cfg.DryRunMaxAttempts,
		Log:               log,
	}
}

// DryRun asks the server to validate req without creating anything. Chunks
// are sent concurrently.
func (c *Client) DryRun(ctx context.Context, req resolver.CreationRequest) (*CreationResponse, error) {
	req.DryRun = true
	return c.run(ctx, req, c.dryRunRetry(), true)
}

// Submit creates the courses. Chunks are sent one after another and never
// retried; on error the response holds the chunks that did complete.
func (c *Client) Submit(ctx context.Context, req resolver.CreationRequest) (*CreationResponse, error) {
	req.DryRun = false
	return c.run(ctx, req, httpx.NoRetry(), false)
}

func (c *Client) run(ctx context.Context, req resolver.CreationRequest, retry httpx.RetryConfig, parallel bool) (*CreationResponse, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRequestInFlight
	}
	defer c.inFlight.Store(false)

	chunks := splitCourses(req.Courses, c.ChunkSize)
	log := c.logger().With("dry_run", req.DryRun, "courses", len(req.Courses), "chunks", len(chunks))
	log.Info("bulk-create started")

	merged := &CreationResponse{DryRun: req.DryRun}
	send := func(ctx context.Context, i int, ch chunk) (*CreationResponse, error) {
		body := req
		body.Courses = ch.courses
		resp, err := c.post(ctx, body, retry)
		if err != nil {
			log.Error("bulk-create chunk failed", "chunk", i, "offset", ch.offset, "error", err)
			return nil, err
		}
		log.Debug("bulk-create chunk done", "chunk", i, "success", resp.SuccessCount, "failure", resp.FailureCount)
		return resp, nil
	}

	if parallel && len(chunks) > 1 {
		results, errs := concurrency.ProcessParallel(ctx, chunks, concurrency.ParallelOptions{MaxWorkers: c.Workers}, send)
		for i, resp := range results {
			if resp != nil {
				merged.merge(resp, chunks[i].offset)
			}
		}
		if len(errs) > 0 {
			return merged, fmt.Errorf("backend: %d of %d chunks failed: %w", len(errs), len(chunks), errors.Join(errs...))
		}
	} else {
		for i, ch := range chunks {
			resp, err := send(ctx, i, ch)
			if err != nil {
				return merged, fmt.Errorf("backend: chunk %d: %w", i, err)
			}
			merged.merge(resp, ch.offset)
		}
	}

	log.Info("bulk-create finished", "success", merged.SuccessCount, "failure", merged.FailureCount)
	return merged, nil
}

func (c *Client) post(ctx context.Context, body resolver.CreationRequest, retry httpx.RetryConfig) (*CreationResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	var out CreationResponse
	err = httpx.DoJSON(
		ctx,
		c.httpClient(),
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", contentTypeJSON)
			r.Header.Set("Accept", contentTypeJSON)
			r.Header.Set("Accept-Encoding", httpx.AcceptEncoding)
			if c.Token != "" {
				r.Header.Set("Authorization", "Bearer "+c.Token)
			}
			return r, nil
		},
		&out,
		retry,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) logger() *logger.Logger {
	if c.Log == nil {
		return logger.Nop()
	}
	return c.Log
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.BaseURL + c.Path)
	if err != nil {
		return "", fmt.Errorf("backend: endpoint: %w", err)
	}
	if c.InstituteID != "" {
		q := u.Query()
		q.Set("instituteId", c.InstituteID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) dryRunRetry() httpx.RetryConfig {
	if c.DryRunMaxAttempts <= 1 {
		return httpx.NoRetry()
	}
	cfg := httpx.DefaultRetryConfig()
	cfg.MaxAttempts = c.DryRunMaxAttempts
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger().Warn("dry run retry", "attempt", attempt, "wait", wait, "error", err)
	}
	return cfg
}

type chunk struct {
	offset  int
	courses []resolver.CourseRequest
}

func splitCourses(courses []resolver.CourseRequest, size int) []chunk {
	if size <= 0 || len(courses) <= size {
		return []chunk{{offset: 0, courses: courses}}
	}
	var out []chunk
	for start := 0; start < len(courses); start += size {
		end := min(start+size, len(courses))
		out = append(out, chunk{offset: start, courses: courses[start:end]})
	}
	return out
}

// ErrorMessage extracts a user-facing message from an error returned by
// DryRun or Submit.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		return herr.Message()
	}
	return err.Error()
}
