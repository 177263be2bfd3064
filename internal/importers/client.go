package importers

import (
	"context"

	"github.com/mrlokans/journo/internal/notion"
)

// Client is the part of the Notion API an import uses.
type Client interface {
	RetrieveDatabase(ctx context.Context, id string) (notion.Object, error)
	QueryDatabase(ctx context.Context, id, cursor string) (notion.List[notion.Object], error)
	RetrievePage(ctx context.Context, id string) (notion.Object, error)
	ListBlockChildren(ctx context.Context, id, cursor string) (notion.List[notion.Block], error)
}

// Metrics receives counters for remote calls and cache lookups.
type Metrics interface {
	RemoteCall(operation string, err error)
	CacheLookup(operation string, hit bool)
}

type nopMetrics struct{}

func (nopMetrics) RemoteCall(string, error) {}
func (nopMetrics) CacheLookup(string, bool) {}

// countingClient counts the live calls of one import and forwards them to
// Metrics.
type countingClient struct {
	Client
	metrics Metrics
	calls   int
}

func (c *countingClient) observe(op string, err error) {
	c.calls++
	c.metrics.RemoteCall(op, err)
}

func (c *countingClient) RetrieveDatabase(ctx context.Context, id string) (notion.Object, error) {
	obj, err := c.Client.RetrieveDatabase(ctx, id)
	c.observe(notion.OpRetrieveDatabase, err)
	return obj, err
}

func (c *countingClient) QueryDatabase(ctx context.Context, id, cursor string) (notion.List[notion.Object], error) {
	list, err := c.Client.QueryDatabase(ctx, id, cursor)
	c.observe(notion.OpQueryDatabase, err)
	return list, err
}

func (c *countingClient) RetrievePage(ctx context.Context, id string) (notion.Object, error) {
	obj, err := c.Client.RetrievePage(ctx, id)
	c.observe(notion.OpRetrievePage, err)
	return obj, err
}

func (c *countingClient) ListBlockChildren(ctx context.Context, id, cursor string) (notion.List[notion.Block], error) {
	list, err := c.Client.ListBlockChildren(ctx, id, cursor)
	c.observe(notion.OpListBlockChildren, err)
	return list, err
}
