// Package memory provides a process-local item store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

// ItemStore keeps items in a map guarded by a mutex. WithinTx holds the lock
// for the whole callback and restores a snapshot when it fails.
type ItemStore struct {
	mu     sync.Mutex
	items  map[int64]domain.Item
	nextID int64
}

func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[int64]domain.Item)}
}

func (s *ItemStore) Create(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*unlocked)(s).Create(ctx, item)
}

func (s *ItemStore) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*unlocked)(s).FindByID(ctx, id)
}

func (s *ItemStore) Update(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*unlocked)(s).Update(ctx, item)
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*unlocked)(s).Delete(ctx, id)
}

func (s *ItemStore) List(ctx context.Context, page ports.PageRequest) ([]*domain.Item, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*unlocked)(s).List(ctx, page)
}

func (s *ItemStore) Ping(context.Context) error { return nil }

func (s *ItemStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo ports.ItemRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]domain.Item, len(s.items))
	for id, it := range s.items {
		snapshot[id] = it
	}
	nextID := s.nextID

	if err := fn(ctx, (*unlocked)(s)); err != nil {
		s.items = snapshot
		s.nextID = nextID
		return err
	}
	return nil
}

// unlocked is the store seen from inside a held lock.
type unlocked ItemStore

func (u *unlocked) Create(_ context.Context, item *domain.Item) error {
	u.nextID++
	item.ID = u.nextID
	u.items[item.ID] = *item
	return nil
}

func (u *unlocked) FindByID(_ context.Context, id int64) (*domain.Item, error) {
	it, ok := u.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &it, nil
}

func (u *unlocked) Update(_ context.Context, item *domain.Item) error {
	if _, ok := u.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	u.items[item.ID] = *item
	return nil
}

func (u *unlocked) Delete(_ context.Context, id int64) error {
	if _, ok := u.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(u.items, id)
	return nil
}

func (u *unlocked) List(_ context.Context, page ports.PageRequest) ([]*domain.Item, int64, error) {
	all := make([]*domain.Item, 0, len(u.items))
	for _, it := range u.items {
		all = append(all, &it)
	}

	less := lessFunc(page.Sort)
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if page.Descending {
			a, b = b, a
		}
		if c := less(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	total := int64(len(all))
	start := min(max(page.Offset(), 0), len(all))
	end := start + min(max(page.Size, 0), len(all)-start)
	return all[start:end], total, nil
}

func (u *unlocked) Ping(context.Context) error { return nil }

func lessFunc(field ports.SortField) func(a, b *domain.Item) int {
	switch field {
	case ports.SortByName:
		return func(a, b *domain.Item) int { return strings.Compare(a.Name, b.Name) }
	case ports.SortByCreatedAt:
		return func(a, b *domain.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case ports.SortByUpdatedAt:
		return func(a, b *domain.Item) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return func(a, b *domain.Item) int { return 0 }
	}
}
