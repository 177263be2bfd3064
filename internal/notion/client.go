package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/journo/internal/ids"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
	DefaultTimeout = 30 * time.Second

	// PageSize is the maximum page size accepted by every listing endpoint.
	PageSize = 100
)

// Remote operation names, used in RequestError and metrics labels.
const (
	OpRetrieveDatabase  = "retrieveDatabase"
	OpQueryDatabase     = "queryDatabase"
	OpRetrievePage      = "retrievePage"
	OpListBlockChildren = "listBlockChildren"
)

// Config holds what is needed to build a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Version string
	Timeout time.Duration

	// HTTPClient overrides the default client. Its Timeout is left as is.
	HTTPClient *http.Client
}

// Client talks to the Notion REST API. It does not retry.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	apiKey     string
	version    string
}

// NewClient creates a new Notion API client
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" || strings.ContainsAny(key, " \t\r\n") {
		return nil, ErrInvalidCredential
	}

	rawBase := cfg.BaseURL
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(rawBase, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: bad base URL %q", ErrInvalidCredential, rawBase)
	}

	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		apiKey:     key,
		version:    version,
	}, nil
}

// RetrieveDatabase fetches database metadata.
func (c *Client) RetrieveDatabase(ctx context.Context, id string) (Object, error) {
	var db Object
	err := c.do(ctx, OpRetrieveDatabase, id, http.MethodGet, "/v1/databases/"+ids.Dashed(id), nil, nil, &db)
	return db, err
}

// QueryDatabase fetches one page of a database's rows. An empty cursor
// starts from the beginning.
func (c *Client) QueryDatabase(ctx context.Context, id, cursor string) (List[Object], error) {
	body := map[string]any{"page_size": PageSize}
	if cursor != "" {
		body["start_cursor"] = cursor
	}

	var list List[Object]
	err := c.do(ctx, OpQueryDatabase, id, http.MethodPost, "/v1/databases/"+ids.Dashed(id)+"/query", nil, body, &list)
	return list, err
}

// RetrievePage fetches a page object. Page content is listed separately
// through ListBlockChildren.
func (c *Client) RetrievePage(ctx context.Context, id string) (Object, error) {
	var page Object
	err := c.do(ctx, OpRetrievePage, id, http.MethodGet, "/v1/pages/"+ids.Dashed(id), nil, nil, &page)
	return page, err
}

// ListBlockChildren fetches one page of the direct children of a block or
// page.
func (c *Client) ListBlockChildren(ctx context.Context, id, cursor string) (List[Block], error) {
	q := url.Values{}
	q.Set("page_size", fmt.Sprint(PageSize))
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	var list List[Block]
	err := c.do(ctx, OpListBlockChildren, id, http.MethodGet, "/v1/blocks/"+ids.Dashed(id)+"/children", q, nil, &list)
	return list, err
}

func (c *Client) do(ctx context.Context, op, id, method, path string, query url.Values, body any, out any) error {
	if err := c.request(ctx, method, path, query, body, out); err != nil {
		return &RequestError{Op: op, ID: id, Err: err}
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
