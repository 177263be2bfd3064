package fetcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/ids"
	"github.com/mrlokans/journo/internal/notion"
)

// ChildLister lists one page of a block's direct children.
type ChildLister interface {
	ListBlockChildren(ctx context.Context, id, cursor string) (notion.List[notion.Block], error)
}

// Memo maps an undashed identifier to its resolved tree. One Memo belongs
// to one import operation and must not be shared between concurrent ones.
type Memo struct {
	nodes map[string]notion.Block
}

func NewMemo() *Memo {
	return &Memo{nodes: make(map[string]notion.Block)}
}

func (m *Memo) Get(id string) (notion.Block, bool) {
	node, ok := m.nodes[ids.Undash(id)]
	return node, ok
}

func (m *Memo) Put(id string, node notion.Block) {
	m.nodes[ids.Undash(id)] = node
}

func (m *Memo) Len() int {
	return len(m.nodes)
}

// BlockFetcher resolves block trees of arbitrary depth, listing the
// children of each identifier at most once per Memo.
type BlockFetcher struct {
	client ChildLister
	opts   Options
	logger *zap.Logger
}

func NewBlockFetcher(client ChildLister, opts Options, logger *zap.Logger) *BlockFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockFetcher{client: client, opts: opts, logger: logger}
}

// Tree returns block with its children resolved recursively. A memo entry
// is reused only when it has children.
func (f *BlockFetcher) Tree(ctx context.Context, block notion.Block, memo *Memo) (notion.Block, error) {
	id := ids.Undash(block.ID)
	if node, ok := memo.Get(id); ok && node.HasChildren {
		return node, nil
	}

	var children []notion.Block
	if block.HasChildren {
		var err error
		children, err = f.Children(ctx, id, memo)
		if err != nil {
			return notion.Block{}, err
		}
	}

	node := block.WithChildren(children)
	memo.Put(id, node)
	return node, nil
}

// Children returns the resolved children of blockID. Any memo entry is
// reused, including one without children.
func (f *BlockFetcher) Children(ctx context.Context, blockID string, memo *Memo) ([]notion.Block, error) {
	id := ids.Undash(blockID)
	if node, ok := memo.Get(id); ok {
		return node.Children, nil
	}

	raw, err := Paginate(ctx, f.opts, func(ctx context.Context, cursor string) (Page[notion.Block], error) {
		list, err := f.client.ListBlockChildren(ctx, id, cursor)
		if err != nil {
			return Page[notion.Block]{}, err
		}
		return Page[notion.Block]{Items: list.Results, HasMore: list.HasMore, NextCursor: list.Cursor()}, nil
	}, func(items []notion.Block, hasMore bool) {
		f.logger.Debug("listed block children",
			zap.String("id", id),
			zap.Int("count", len(items)),
			zap.Bool("has_more", hasMore))
	})
	if err != nil {
		return nil, err
	}

	children := make([]notion.Block, 0, len(raw))
	for _, child := range raw {
		node, err := f.Tree(ctx, child, memo)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	return children, nil
}
