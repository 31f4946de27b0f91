package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-bulk/internal/config"
	"course-bulk/internal/httpx"
	"course-bulk/internal/resolver"
)

const bulkPath = "/admin-core-service/course/v1/bulk-create"

// echoHandler answers every course in the chunk, failing names that start
// with "bad".
func echoHandler(t *testing.T, seen *[]resolver.CreationRequest, mu *sync.Mutex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolver.CreationRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		mu.Lock()
		*seen = append(*seen, req)
		mu.Unlock()

		resp := CreationResponse{TotalRequested: len(req.Courses), DryRun: req.DryRun}
		for i, c := range req.Courses {
			it := ItemResult{Index: i, CourseName: c.CourseName, Status: StatusSuccess}
			if strings.HasPrefix(c.CourseName, "bad") {
				it.Status = StatusFailed
				it.ErrorMessage = "rejected"
				resp.FailureCount++
			} else {
				it.CourseID = "id-" + c.CourseName
				resp.SuccessCount++
			}
			resp.Results = append(resp.Results, it)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestClient(baseURL string, chunk int) *Client {
	return New(config.BackendConfig{
		BaseURL:           baseURL,
		Path:              bulkPath,
		Token:             "tok",
		InstituteID:       "inst-1",
		Timeout:           5 * time.Second,
		ChunkSize:         chunk,
		Workers:           3,
		DryRunMaxAttempts: 1,
	}, nil)
}

func request(names ...string) resolver.CreationRequest {
	req := resolver.CreationRequest{ApplyToAll: resolver.ApplyToAll{Enabled: true}}
	for _, n := range names {
		req.Courses = append(req.Courses, resolver.CourseRequest{CourseName: n})
	}
	return req
}

func TestDryRun_SendsHeadersAndQuery(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []resolver.CreationRequest
	)
	inner := echoHandler(t, &seen, &mu)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, bulkPath, r.URL.Path)
		assert.Equal(t, "inst-1", r.URL.Query().Get("instituteId"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		inner(w, r)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 100).DryRun(t.Context(), request("a", "bad-b"))
	require.NoError(t, err)

	assert.True(t, resp.DryRun)
	assert.Equal(t, 2, resp.TotalRequested)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailureCount)
	require.Len(t, resp.Failures(), 1)
	assert.Equal(t, 1, resp.Failures()[0].Index)

	require.Len(t, seen, 1)
	assert.True(t, seen[0].DryRun)
	assert.True(t, seen[0].ApplyToAll.Enabled)
}

func TestDryRun_ChunksAndReoffsetsIndexes(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []resolver.CreationRequest
	)
	srv := httptest.NewServer(echoHandler(t, &seen, &mu))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 2).DryRun(t.Context(), request("c0", "c1", "bad-c2", "c3", "c4"))
	require.NoError(t, err)

	assert.Len(t, seen, 3)
	assert.Equal(t, 5, resp.TotalRequested)
	assert.Equal(t, 4, resp.SuccessCount)
	assert.Equal(t, 1, resp.FailureCount)
	require.Len(t, resp.Results, 5)
	for i, it := range resp.Results {
		assert.Equal(t, i, it.Index)
		assert.Equal(t, fmt.Sprintf("c%d", i), strings.TrimPrefix(it.CourseName, "bad-"))
	}
}

func TestSubmit_SequentialChunks(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []resolver.CreationRequest
	)
	srv := httptest.NewServer(echoHandler(t, &seen, &mu))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 2).Submit(t.Context(), request("c0", "c1", "c2"))
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.False(t, seen[0].DryRun)
	assert.Equal(t, "c0", seen[0].Courses[0].CourseName)
	assert.Equal(t, "c2", seen[1].Courses[0].CourseName)
	assert.False(t, resp.DryRun)
	assert.Equal(t, 2, resp.Results[2].Index)
	assert.Equal(t, "id-c2", resp.Results[2].CourseID)
}

func TestClient_ZeroValueFields(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []resolver.CreationRequest
	)
	srv := httptest.NewServer(echoHandler(t, &seen, &mu))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Path: bulkPath}
	resp, err := c.DryRun(t.Context(), request("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SuccessCount)

	resp, err = c.Submit(t.Context(), request("c"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Len(t, seen, 2)
}

func TestSubmit_NeverRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 100)
	c.DryRunMaxAttempts = 5

	_, err := c.Submit(t.Context(), request("a"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "maintenance", ErrorMessage(err))

	var herr *httpx.HTTPError
	assert.ErrorAs(t, err, &herr)
}

func TestSubmit_PartialOnLaterChunkFailure(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		seen  []resolver.CreationRequest
		calls atomic.Int32
	)
	inner := echoHandler(t, &seen, &mu)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			http.Error(w, `{"error":"boom"}`, http.StatusBadRequest)
			return
		}
		inner(w, r)
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 1).Submit(t.Context(), request("a", "b", "c"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 1")
	assert.Equal(t, "boom", ErrorMessage(err))
	require.NotNil(t, resp)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDryRun_RetriesWhenConfigured(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		seen  []resolver.CreationRequest
		calls atomic.Int32
	)
	inner := echoHandler(t, &seen, &mu)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		inner(w, r)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 100)
	c.DryRunMaxAttempts = 2

	resp, err := c.DryRun(t.Context(), request("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SuccessCount)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDryRun_DefaultDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 100).DryRun(t.Context(), request("a"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Bad Gateway", ErrorMessage(err))
}

func TestClient_RejectsOverlappingCalls(t *testing.T) {
	t.Parallel()

	var once sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		_, _ = w.Write([]byte(`{"total_requested":1,"success_count":1,"results":[{"index":0,"status":"SUCCESS"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 100)

	done := make(chan error, 1)
	go func() {
		_, err := c.DryRun(t.Context(), request("a"))
		done <- err
	}()

	<-entered
	_, err := c.Submit(t.Context(), request("a"))
	assert.ErrorIs(t, err, ErrRequestInFlight)

	close(release)
	require.NoError(t, <-done)

	_, err = c.DryRun(t.Context(), request("a"))
	assert.NoError(t, err, "guard is released after completion")
}

func TestDryRun_BrotliResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte(`{"total_requested":1,"success_count":1,"dry_run":true,"results":[{"index":0,"course_name":"a","status":"SUCCESS"}]}`))
		_ = bw.Close()
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL, 100).DryRun(t.Context(), request("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Results[0].CourseName)
}

func TestSplitCourses(t *testing.T) {
	t.Parallel()

	courses := request("a", "b", "c", "d", "e").Courses

	chunks := splitCourses(courses, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{0, 2, 4}, []int{chunks[0].offset, chunks[1].offset, chunks[2].offset})
	assert.Len(t, chunks[2].courses, 1)

	assert.Len(t, splitCourses(courses, 0), 1)
	assert.Len(t, splitCourses(courses, 5), 1)
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ErrorMessage(nil))
	assert.Equal(t, "plain", ErrorMessage(errors.New("plain")))
	wrapped := fmt.Errorf("backend: %w", &httpx.HTTPError{StatusCode: 422, Body: []byte(`{"message":"Invalid level"}`)})
	assert.Equal(t, "Invalid level", ErrorMessage(wrapped))
}
