package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
)

type stubItemService struct {
	listFn   func(ctx context.Context, page ports.PageRequest) (*ports.ItemPage, error)
	getFn    func(ctx context.Context, id int64) (*domain.Item, error)
	createFn func(ctx context.Context, input ports.ItemInput) (*domain.Item, error)
	updateFn func(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubItemService) List(ctx context.Context, page ports.PageRequest) (*ports.ItemPage, error) {
	return s.listFn(ctx, page)
}

func (s *stubItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return s.getFn(ctx, id)
}

func (s *stubItemService) Create(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
	return s.createFn(ctx, input)
}

func (s *stubItemService) Update(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubItemService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newItemContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func TestItemHandler_List_SetsHeaders(t *testing.T) {
	stub := &stubItemService{
		listFn: func(ctx context.Context, page ports.PageRequest) (*ports.ItemPage, error) {
			if page.Page != 1 || page.Size != 2 || page.Sort != ports.SortByName || !page.Descending {
				t.Fatalf("unexpected page request: %+v", page)
			}
			return &ports.ItemPage{
				Items:         []*domain.Item{{ID: 3, Name: "c", CreatedAt: testTime, UpdatedAt: testTime}},
				TotalElements: 3,
				Number:        1,
				Size:          2,
				TotalPages:    2,
			}, nil
		},
	}
	handler := NewItemHandler(stub)

	c, rec := newItemContext(http.MethodGet, "/api/items?page=1&size=2&sort=name,desc", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Total-Count") != "3" || rec.Header().Get("X-Page-Number") != "1" {
		t.Fatalf("unexpected headers: %v", rec.Header())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	content, ok := resp["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %+v", resp["content"])
	}
	page, ok := resp["page"].(map[string]any)
	if !ok || page["totalElements"] != float64(3) || page["totalPages"] != float64(2) {
		t.Fatalf("unexpected page payload: %+v", resp["page"])
	}
}

func TestItemHandler_List_EmptyContentIsArray(t *testing.T) {
	stub := &stubItemService{
		listFn: func(ctx context.Context, page ports.PageRequest) (*ports.ItemPage, error) {
			return &ports.ItemPage{Size: page.Size}, nil
		},
	}
	handler := NewItemHandler(stub)

	c, rec := newItemContext(http.MethodGet, "/api/items", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"content":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestItemHandler_Get_BadID(t *testing.T) {
	stub := &stubItemService{
		getFn: func(ctx context.Context, id int64) (*domain.Item, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewItemHandler(stub)

	c, _ := newItemContext(http.MethodGet, "/api/items/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	expectHTTPError(t, handler.Get(c), http.StatusBadRequest)
}

func TestItemHandler_Get_NotFound(t *testing.T) {
	stub := &stubItemService{
		getFn: func(ctx context.Context, id int64) (*domain.Item, error) {
			return nil, &domain.NotFoundError{ID: id}
		},
	}
	handler := NewItemHandler(stub)

	c, _ := newItemContext(http.MethodGet, "/api/items/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := handler.Get(c)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestItemHandler_Create_Success(t *testing.T) {
	stub := &stubItemService{
		createFn: func(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
			if input.Name != "Widget" || input.Description == nil || *input.Description != "A thing" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Item{ID: 1, Name: input.Name, Description: input.Description, CreatedAt: testTime, UpdatedAt: testTime}, nil
		},
	}
	handler := NewItemHandler(stub)

	c, rec := newItemContext(http.MethodPost, "/api/items", `{"name":"Widget","description":"A thing"}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["createdAt"] != resp["updatedAt"] {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestItemHandler_Create_InvalidPayload(t *testing.T) {
	stub := &stubItemService{
		createFn: func(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewItemHandler(stub)

	c, _ := newItemContext(http.MethodPost, "/api/items", "not-json")
	expectHTTPError(t, handler.Create(c), http.StatusBadRequest)
}

func TestItemHandler_Create_RejectsInvalidFields(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
		msg   string
	}{
		"blank name":           {`{"name":"   "}`, "name", "Name is required"},
		"missing name":         {`{"description":"x"}`, "name", "Name is required"},
		"name too long":        {`{"name":"` + strings.Repeat("n", 256) + `"}`, "name", "Name must be between 1 and 255 characters"},
		"description too long": {`{"name":"Widget","description":"` + strings.Repeat("d", 5001) + `"}`, "description", "Description must not exceed 5000 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stub := &stubItemService{
				createFn: func(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
					t.Fatalf("service must not be called for invalid input")
					return nil, nil
				},
			}
			c, _ := newItemContext(http.MethodPost, "/api/items", tc.body)
			err := NewItemHandler(stub).Create(c)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) || len(ve.Fields) != 1 {
				t.Fatalf("expected one field error, got %v", err)
			}
			if ve.Fields[0].Field != tc.field || ve.Fields[0].Message != tc.msg {
				t.Fatalf("unexpected field error: %+v", ve.Fields[0])
			}
		})
	}
}

func TestItemHandler_Create_AcceptsLimits(t *testing.T) {
	stub := &stubItemService{
		createFn: func(ctx context.Context, input ports.ItemInput) (*domain.Item, error) {
			return &domain.Item{ID: 1, Name: input.Name, Description: input.Description, CreatedAt: testTime, UpdatedAt: testTime}, nil
		},
	}
	body := `{"name":"` + strings.Repeat("é", 255) + `","description":"` + strings.Repeat("d", 5000) + `"}`

	c, rec := newItemContext(http.MethodPost, "/api/items", body)
	if err := NewItemHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestItemHandler_Update_RejectsBlankName(t *testing.T) {
	stub := &stubItemService{
		updateFn: func(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error) {
			t.Fatalf("service must not be called for invalid input")
			return nil, nil
		},
	}
	c, _ := newItemContext(http.MethodPut, "/api/items/7", `{"name":""}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := NewItemHandler(stub).Update(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields[0].Message != "Name is required" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestItemHandler_Update_OmittedDescriptionIsNil(t *testing.T) {
	stub := &stubItemService{
		updateFn: func(ctx context.Context, id int64, input ports.ItemInput) (*domain.Item, error) {
			if id != 7 || input.Name != "Widget v2" || input.Description != nil {
				t.Fatalf("unexpected args: %d %+v", id, input)
			}
			return &domain.Item{ID: id, Name: input.Name, CreatedAt: testTime, UpdatedAt: testTime.Add(time.Second)}, nil
		},
	}
	handler := NewItemHandler(stub)

	c, rec := newItemContext(http.MethodPut, "/api/items/7", `{"name":"Widget v2"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestItemHandler_Delete(t *testing.T) {
	deleted := map[int64]bool{}
	stub := &stubItemService{
		deleteFn: func(ctx context.Context, id int64) error {
			if deleted[id] {
				return &domain.NotFoundError{ID: id}
			}
			deleted[id] = true
			return nil
		},
	}
	handler := NewItemHandler(stub)

	c, rec := newItemContext(http.MethodDelete, "/api/items/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 204, got %d %q", rec.Code, rec.Body.String())
	}

	c, _ = newItemContext(http.MethodDelete, "/api/items/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
