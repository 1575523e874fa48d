package ports

import (
	"context"

	"github.com/exampleapp/example-api/internal/core/domain"
)

// ItemInput carries the mutable item fields for create and update.
type ItemInput struct {
	Name        string
	Description *string
}

// ItemPage is one page of items.
type ItemPage struct {
	Items         []*domain.Item
	TotalElements int64
	Number        int
	Size          int
	TotalPages    int
}

// ItemService defines use-case operations for items.
type ItemService interface {
	List(ctx context.Context, page PageRequest) (*ItemPage, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, input ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id int64, input ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}
