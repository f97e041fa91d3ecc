package devserver_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a-h/jsonapi"
	"github.com/a-h/summarizer/client"
	"github.com/a-h/summarizer/devserver"
	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type clock struct {
	m   sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.m.Lock()
	defer c.m.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.m.Lock()
	defer c.m.Unlock()
	c.now = c.now.Add(d)
}

func newClient(t *testing.T, opts ...devserver.Option) (client.Client, *devserver.Server) {
	t.Helper()
	srv := devserver.New(discard, opts...)
	s := httptest.NewServer(srv)
	t.Cleanup(s.Close)
	return client.New(s.URL, ""), srv
}

func TestCreateGetListDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	created, err := c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/go-concurrency-patterns"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, "Summary of https://example.com/go-concurrency-patterns.", created.Summary)
	require.Equal(t, "example", created.Title)
	require.Equal(t, "concurrency, patterns", created.Keywords)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Summary, got.Summary)
	require.True(t, got.CreatedAt.Equal(created.CreatedAt))

	second, err := c.Create(ctx, models.SummaryCreateRequest{Content: "First sentence. Second sentence. Third sentence.", Title: "Sentences"})
	require.NoError(t, err)
	require.Equal(t, "First sentence. Second sentence.", second.Summary)
	require.Equal(t, "Sentences", second.Title)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(ctx, created.ID)
	require.True(t, client.IsNotFound(err), "expected not found, got %v", err)

	err = c.Delete(ctx, created.ID)
	require.True(t, client.IsNotFound(err), "expected not found, got %v", err)

	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, second.ID, list[0].ID)
}

func TestRecentURLsAreReused(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c, _ := newClient(t, devserver.WithClock(clk.Now))

	first, err := c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/a"})
	require.NoError(t, err)

	clk.Advance(59 * time.Minute)
	again, err := c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/a"})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	clk.Advance(2 * time.Minute)
	fresh, err := c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/a"})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, fresh.ID)
}

func TestCreateFromText(t *testing.T) {
	c, srv := newClient(t)
	resp, err := c.CreateFromText(context.Background(), "One. Two! Three?")
	require.NoError(t, err)
	require.Equal(t, "One. Two!", resp.Summary)
	require.Equal(t, "One. Two! Three?", resp.Text)
	require.Empty(t, srv.Store().List(0, 100), "text summaries are not stored")
}

func TestSearchByKeyword(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	_, err := c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/golang-generics"})
	require.NoError(t, err)
	_, err = c.Create(ctx, models.SummaryCreateRequest{URL: "https://example.com/rust-ownership"})
	require.NoError(t, err)

	matches, err := c.SearchByKeyword(ctx, "golang")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "https://example.com/golang-generics", matches[0].URL)

	matches, err = c.SearchByKeyword(ctx, "haskell")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestPing(t *testing.T) {
	c, _ := newClient(t)
	resp, err := c.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pong!", resp.Ping)
}

func TestInvalidRequests(t *testing.T) {
	s := httptest.NewServer(devserver.New(discard))
	defer s.Close()
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "invalid JSON", method: http.MethodPost, path: "/api/v1/summaries/", body: `{`, expectedStatus: http.StatusBadRequest},
		{name: "no source", method: http.MethodPost, path: "/api/v1/summaries/", body: `{"title":"x"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "both sources", method: http.MethodPost, path: "/api/v1/summaries/", body: `{"url":"https://example.com","content":"x"}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "empty text", method: http.MethodPost, path: "/api/v1/summaries/text", body: `{"text":""}`, expectedStatus: http.StatusUnprocessableEntity},
		{name: "zero id", method: http.MethodGet, path: "/api/v1/summaries/0", expectedStatus: http.StatusUnprocessableEntity},
		{name: "non-numeric id", method: http.MethodDelete, path: "/api/v1/summaries/abc/", expectedStatus: http.StatusUnprocessableEntity},
		{name: "unknown id with trailing slash", method: http.MethodGet, path: "/api/v1/summaries/42/", expectedStatus: http.StatusNotFound},
		{name: "negative limit", method: http.MethodGet, path: "/api/v1/summaries/?limit=-1", expectedStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, s.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestListPagination(t *testing.T) {
	srv := devserver.New(discard)
	for i := 0; i < 5; i++ {
		srv.Store().Create(models.SummaryCreateRequest{Content: "Some content."})
	}
	require.Len(t, srv.Store().List(0, 100), 5)
	page := srv.Store().List(1, 2)
	require.Len(t, page, 2)
	require.Equal(t, int64(2), page[0].ID)
	require.Empty(t, srv.Store().List(10, 2))
	require.Len(t, srv.Store().List(1, math.MaxInt), 4)
}

func TestListWithAnExtremeLimit(t *testing.T) {
	srv := devserver.New(discard)
	srv.Store().Create(models.SummaryCreateRequest{Content: "Some content."})
	srv.Store().Create(models.SummaryCreateRequest{Content: "More content."})

	h := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/summaries/?skip=1&limit=9223372036854775807", nil)
	srv.ServeHTTP(h, r)
	require.Equal(t, http.StatusOK, h.Code)
	var page []models.Summary
	require.NoError(t, json.Unmarshal(h.Body.Bytes(), &page))
	require.Len(t, page, 1)
	require.Equal(t, int64(2), page[0].ID)
}

func TestAsyncCreationIsPolled(t *testing.T) {
	c, _ := newClient(t, devserver.WithAsync(50*time.Millisecond))
	created, err := c.Create(context.Background(), models.SummaryCreateRequest{URL: "https://example.com/async"})
	require.NoError(t, err)
	require.False(t, created.Complete(), "expected the summary to be pending")

	f := summarize.NewFlow(discard, c,
		summarize.WithMode(summarize.ModePoll),
		summarize.WithPollAttempts(100),
		summarize.WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(10 * time.Millisecond) }),
	)
	s, err := f.Submit(context.Background(), summarize.URLInput("https://example.com/async"))
	require.NoError(t, err)
	require.Equal(t, created.ID, s.ID, "expected the pending summary to be reused")
	require.Equal(t, "Summary of https://example.com/async.", s.Summary)
}

func TestAsyncSyncModeReportsIncomplete(t *testing.T) {
	c, _ := newClient(t, devserver.WithAsync(time.Hour))
	f := summarize.NewFlow(discard, c, summarize.WithMode(summarize.ModeSync))
	_, err := f.Submit(context.Background(), summarize.URLInput("https://example.com/slow"))
	require.ErrorIs(t, err, summarize.ErrIncomplete)
}

func TestAPIKeys(t *testing.T) {
	srv := devserver.New(discard, devserver.WithAPIKeys(map[string]string{"secret": "test"}))
	s := httptest.NewServer(srv)
	defer s.Close()

	_, err := client.New(s.URL, "").List(context.Background())
	var ise jsonapi.InvalidStatusError
	require.ErrorAs(t, err, &ise)
	require.Equal(t, http.StatusUnauthorized, ise.Status)

	_, err = client.New(s.URL, "secret").List(context.Background())
	require.NoError(t, err)
}

func TestCORS(t *testing.T) {
	s := httptest.NewServer(devserver.New(discard))
	defer s.Close()
	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/v1/summaries/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
