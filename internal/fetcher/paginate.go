package fetcher

import (
	"context"
	"errors"
	"time"
)

// DefaultPageDelay is the pause between two page requests of one listing.
const DefaultPageDelay = 500 * time.Millisecond

// ErrMissingCursor is returned when a page claims more results but carries
// no cursor to fetch them with.
var ErrMissingCursor = errors.New("page has more results but no next cursor")

// Page is one response of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
}

// FetchFunc fetches the page starting at cursor. The first call gets "".
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Options controls pacing between page requests.
type Options struct {
	Delay time.Duration
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) sleep(ctx context.Context) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, o.Delay)
	}
	return Sleep(ctx, o.Delay)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Paginate walks a listing to the end and returns every item in API order.
// onPage, when set, is called after each page with that page's items.
// The first failed fetch aborts the walk; nothing is retried.
func Paginate[T any](ctx context.Context, opts Options, fetch FetchFunc[T], onPage func(items []T, hasMore bool)) ([]T, error) {
	all := []T{}
	cursor := ""

	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)
		if onPage != nil {
			onPage(page.Items, page.HasMore)
		}

		if !page.HasMore {
			return all, nil
		}
		if page.NextCursor == "" {
			return nil, ErrMissingCursor
		}
		cursor = page.NextCursor

		if err := opts.sleep(ctx); err != nil {
			return nil, err
		}
	}
}
