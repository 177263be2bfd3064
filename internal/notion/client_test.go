package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0123456789abcdef0123456789abcdef"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "secret_test", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{APIKey: "secret_x"}},
		{name: "empty key", cfg: Config{APIKey: "  "}, wantErr: true},
		{name: "key with spaces", cfg: Config{APIKey: "secret x"}, wantErr: true},
		{name: "bad base URL", cfg: Config{APIKey: "secret_x", BaseURL: "::not a url"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredential)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_RetrieveDatabase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/databases/01234567-89ab-cdef-0123-456789abcdef", r.URL.Path)
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))

		_, _ = io.WriteString(w, `{"object":"database","id":"01234567-89ab-cdef-0123-456789abcdef","title":[{"plain_text":"Journal"}]}`)
	})

	db, err := client.RetrieveDatabase(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, "Journal", db.DisplayTitle())
}

func TestClient_QueryDatabase(t *testing.T) {
	var bodies []map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/databases/01234567-89ab-cdef-0123-456789abcdef/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)

		_, _ = io.WriteString(w, `{"object":"list","results":[{"object":"page","id":"p1"}],"has_more":true,"next_cursor":"c2"}`)
	})

	list, err := client.QueryDatabase(context.Background(), testID, "")
	require.NoError(t, err)
	assert.True(t, list.HasMore)
	assert.Equal(t, "c2", list.Cursor())
	require.Len(t, list.Results, 1)
	assert.Equal(t, "p1", list.Results[0].ID)

	_, err = client.QueryDatabase(context.Background(), testID, "c2")
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Equal(t, map[string]any{"page_size": float64(PageSize)}, bodies[0])
	assert.Equal(t, map[string]any{"page_size": float64(PageSize), "start_cursor": "c2"}, bodies[1])
}

func TestClient_ListBlockChildren(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/blocks/01234567-89ab-cdef-0123-456789abcdef/children", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))
		assert.Equal(t, "next", r.URL.Query().Get("start_cursor"))

		_, _ = io.WriteString(w, `{"results":[{"object":"block","id":"b1","type":"paragraph","has_children":true,"paragraph":{"rich_text":[]}}],"has_more":false,"next_cursor":null}`)
	})

	list, err := client.ListBlockChildren(context.Background(), testID, "next")
	require.NoError(t, err)
	assert.False(t, list.HasMore)
	require.Len(t, list.Results, 1)
	assert.True(t, list.Results[0].HasChildren)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`)
	})

	_, err := client.RetrievePage(context.Background(), testID)
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, OpRetrievePage, reqErr.Op)
	assert.Equal(t, testID, reqErr.ID)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Contains(t, err.Error(), "retrievePage")
}

func TestClient_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	_, err := client.RetrieveDatabase(context.Background(), testID)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.RetrievePage(ctx, testID)
	assert.ErrorIs(t, err, context.Canceled)
}
