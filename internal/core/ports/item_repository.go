package ports

import (
	"context"
	"math"

	"github.com/exampleapp/example-api/internal/core/domain"
)

// SortField names a sortable item column.
type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// PageRequest is a zero-based page request.
type PageRequest struct {
	Page       int // 0-based
	Size       int
	Sort       SortField
	Descending bool
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	// Create inserts the item and sets its generated ID.
	Create(ctx context.Context, item *domain.Item) error
	// FindByID returns domain.ErrItemNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
	// List returns one page of items and the total count.
	List(ctx context.Context, page PageRequest) ([]*domain.Item, int64, error)
	Ping(ctx context.Context) error
}

// ItemStore is an ItemRepository that can open a write transaction. The
// repository passed to fn is bound to that transaction; returning an error
// rolls it back.
type ItemStore interface {
	ItemRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo ItemRepository) error) error
}
