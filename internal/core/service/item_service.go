package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

type ItemService struct {
	store  ports.ItemStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewItemService(store ports.ItemStore, logger zerolog.Logger) *ItemService {
	return &ItemService{store: store, logger: logger, now: domain.Now}
}

// List returns one page of items. Reads run outside a transaction.
func (s *ItemService) List(ctx context.Context, page ports.PageRequest) (*ports.ItemPage, error) {
	s.logger.Debug().Int("page", page.Page).Int("size", page.Size).Str("sort", string(page.Sort)).Bool("desc", page.Descending).Msg("listing items")

	items, total, err := s.store.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return &ports.ItemPage{
		Items:         items,
		TotalElements: total,
		Number:        page.Page,
		Size:          page.Size,
		TotalPages:    totalPages(total, page.Size),
	}, nil
}

// Get returns the item or a *domain.NotFoundError.
func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	s.logger.Debug().Int64("id", id).Msg("fetching item")
	return findItem(ctx, s.store, id)
}

// Create validates the input and persists a new item whose timestamps are
// both set to the operation time.
func (s *ItemService) Create(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
	if err := domain.ValidateItemFields(input.Name, input.Description); err != nil {
		return nil, err
	}

	s.logger.Info().Str("name", input.Name).Msg("creating item")

	item := domain.NewItem(input.Name, input.Description, s.now())
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo ports.ItemRepository) error {
		return repo.Create(ctx, item)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create item")
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info().Int64("id", item.ID).Msg("item created")
	return item, nil
}

// Update replaces name and description of an existing item and refreshes
// its updatedAt. createdAt is left untouched.
func (s *ItemService) Update(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error) {
	if err := domain.ValidateItemFields(input.Name, input.Description); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", id).Msg("updating item")

	var updated *domain.Item
	err := s.store.WithinTx(ctx, func(ctx context.Context, repo ports.ItemRepository) error {
		item, err := findItem(ctx, repo, id)
		if err != nil {
			return err
		}
		item.Apply(input.Name, input.Description, s.now())
		if err := repo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			s.logger.Error().Err(err).Int64("id", id).Msg("failed to update item")
		}
		return nil, err
	}

	s.logger.Info().Int64("id", id).Msg("item updated")
	return updated, nil
}

// Delete removes an existing item. A missing id is reported as not found
// and nothing is written.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	s.logger.Info().Int64("id", id).Msg("deleting item")

	err := s.store.WithinTx(ctx, func(ctx context.Context, repo ports.ItemRepository) error {
		if _, err := findItem(ctx, repo, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			s.logger.Error().Err(err).Int64("id", id).Msg("failed to delete item")
		}
		return err
	}

	s.logger.Info().Int64("id", id).Msg("item deleted")
	return nil
}

// findItem translates a repository miss into a NotFoundError carrying the id.
func findItem(ctx context.Context, repo ports.ItemRepository, id int64) (*domain.Item, error) {
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, nil
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
