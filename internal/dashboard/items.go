package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/exampleapp/example-api/internal/core/domain"
)

// ItemsState is a snapshot of ItemsHook.
type ItemsState struct {
	Items   []domain.Item
	Loading bool
	Error   string
}

// ItemsHook keeps a local copy of the item list in step with the API.
// Overlapping calls are not cancelled; the last one to finish wins.
type ItemsHook struct {
	client *Client

	mu      sync.Mutex
	items   []domain.Item
	loading bool
	err     string
}

func NewItemsHook(client *Client) *ItemsHook {
	return &ItemsHook{client: client}
}

func (h *ItemsHook) State() ItemsState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ItemsState{Items: slices.Clone(h.items), Loading: h.loading, Error: h.err}
}

func (h *ItemsHook) begin() {
	h.mu.Lock()
	h.loading = true
	h.err = ""
	h.mu.Unlock()
}

// finish records err and clears loading. It must be called with h.mu held.
func (h *ItemsHook) finish(err error) error {
	h.loading = false
	if err != nil {
		h.err = ErrorMessage(err)
	}
	return err
}

type itemPage struct {
	Content []domain.Item `json:"content"`
}

// Fetch replaces the local list with the first page of items.
func (h *ItemsHook) Fetch(ctx context.Context) error {
	h.begin()
	var page itemPage
	_, err := h.client.do(ctx, http.MethodGet, "/api/items", true, nil, &page)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err == nil {
		h.items = page.Content
	}
	return h.finish(err)
}

// Get reads one item without touching the local list.
func (h *ItemsHook) Get(ctx context.Context, id int64) (*domain.Item, error) {
	h.begin()
	var item domain.Item
	_, err := h.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/items/%d", id), true, nil, &item)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.finish(err); err != nil {
		return nil, err
	}
	return &item, nil
}

type itemInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Create appends the new item to the local list on success.
func (h *ItemsHook) Create(ctx context.Context, name string, description *string) (*domain.Item, error) {
	h.begin()
	var item domain.Item
	_, err := h.client.do(ctx, http.MethodPost, "/api/items", true, itemInput{name, description}, &item)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.finish(err); err != nil {
		return nil, err
	}
	h.items = append(h.items, item)
	return &item, nil
}

// Update replaces the matching local entry on success.
func (h *ItemsHook) Update(ctx context.Context, id int64, name string, description *string) (*domain.Item, error) {
	h.begin()
	var item domain.Item
	_, err := h.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", id), true, itemInput{name, description}, &item)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.finish(err); err != nil {
		return nil, err
	}
	for i := range h.items {
		if h.items[i].ID == id {
			h.items[i] = item
		}
	}
	return &item, nil
}

// Delete drops the local entry on success.
func (h *ItemsHook) Delete(ctx context.Context, id int64) error {
	h.begin()
	_, err := h.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", id), true, nil, nil)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.finish(err); err != nil {
		return err
	}
	h.items = slices.DeleteFunc(h.items, func(it domain.Item) bool { return it.ID == id })
	return nil
}
