package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/jsonapi"
	"github.com/a-h/summarizer/models"
)

type Option func(*Client)

// WithTimeout bounds every call made by the client. Zero means no timeout
// beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL, apiKey string, opts ...Option) Client {
	c := Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// ShapeError is returned when a response decodes but is missing a field the
// caller depends on.
type ShapeError struct {
	Op    string
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: response is missing %q", e.Op, e.Field)
}

func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// ErrInvalidKeyword is returned for keywords that can't be used as a single
// path segment.
var ErrInvalidKeyword = errors.New("keyword must be non-empty and must not contain /")

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ise jsonapi.InvalidStatusError
	return errors.As(err, &ise) && ise.Status == http.StatusNotFound
}

func (c Client) Create(ctx context.Context, req models.SummaryCreateRequest) (resp models.Summary, err error) {
	if err = req.Validate(); err != nil {
		return resp, fmt.Errorf("create: %w", err)
	}
	url, err := c.summariesURL("")
	if err != nil {
		return resp, err
	}
	if err = c.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return resp, fmt.Errorf("create: %w", err)
	}
	if resp.ID == 0 {
		return resp, &ShapeError{Op: "create", Field: "id"}
	}
	return resp, nil
}

func (c Client) CreateFromText(ctx context.Context, text string) (resp models.SummaryFromTextResponse, err error) {
	url, err := c.summariesURL("text")
	if err != nil {
		return resp, err
	}
	if err = c.do(ctx, http.MethodPost, url, models.SummaryFromTextRequest{Text: text}, &resp); err != nil {
		return resp, fmt.Errorf("create from text: %w", err)
	}
	if resp.Summary == "" {
		return resp, &ShapeError{Op: "create from text", Field: "summary"}
	}
	return resp, nil
}

func (c Client) Get(ctx context.Context, id int64) (resp models.Summary, err error) {
	url, err := c.summariesURL(strconv.FormatInt(id, 10))
	if err != nil {
		return resp, err
	}
	if err = c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return resp, fmt.Errorf("get %d: %w", id, err)
	}
	// Older deployments answer with the summary fields only.
	if resp.ID == 0 {
		resp.ID = id
	}
	return resp, nil
}

func (c Client) List(ctx context.Context) (resp []models.Summary, err error) {
	url, err := c.summariesURL("")
	if err != nil {
		return nil, err
	}
	if err = c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return resp, nil
}

func (c Client) Delete(ctx context.Context, id int64) (err error) {
	url, err := c.summariesURL(strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	if err = c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

// SearchByKeyword returns summaries tagged with the keyword. The API answers
// 404 when nothing matches, which is returned as an empty result.
func (c Client) SearchByKeyword(ctx context.Context, keyword string) (resp []models.Summary, err error) {
	if keyword == "" || strings.Contains(keyword, "/") {
		return nil, ErrInvalidKeyword
	}
	url, err := jsonapi.URL(c.baseURL).Path("api", "v1", "summaries", "keyword", keyword, "").String()
	if err != nil {
		return nil, err
	}
	err = c.do(ctx, http.MethodGet, url, nil, &resp)
	if IsNotFound(err) {
		return []models.Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	return resp, nil
}

func (c Client) Ping(ctx context.Context) (resp models.PingResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("api", "v1", "ping").String()
	if err != nil {
		return resp, err
	}
	if err = c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return resp, fmt.Errorf("ping: %w", err)
	}
	return resp, nil
}

// summariesURL returns the collection URL, with a trailing slash, when
// segment is empty.
func (c Client) summariesURL(segment string) (string, error) {
	return jsonapi.URL(c.baseURL).Path("api", "v1", "summaries", segment).String()
}

func (c Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c Client) do(ctx context.Context, method, url string, req, resp any) (err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var body io.Reader
	if req != nil {
		buf, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	res, err := jsonapi.Raw(httpReq)
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	if resp == nil {
		return nil
	}
	if err = json.NewDecoder(res.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
