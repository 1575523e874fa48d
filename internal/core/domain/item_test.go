package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewItem_TimestampsEqual(t *testing.T) {
	now := Now()
	it := NewItem("Widget", strPtr("A thing"), now)
	if !it.CreatedAt.Equal(it.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt, got %v / %v", it.CreatedAt, it.UpdatedAt)
	}
	if it.ID != 0 {
		t.Fatalf("unsaved item must not carry an id, got %d", it.ID)
	}
}

func TestItemApply_KeepsCreatedAtAndAdvancesUpdatedAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	it := NewItem("Widget", nil, created)

	later := created.Add(time.Second)
	it.Apply("Widget v2", nil, later)

	if !it.CreatedAt.Equal(created) {
		t.Fatalf("createdAt changed: %v", it.CreatedAt)
	}
	if !it.UpdatedAt.Equal(later) {
		t.Fatalf("expected updatedAt %v, got %v", later, it.UpdatedAt)
	}
	if it.Name != "Widget v2" {
		t.Fatalf("name not applied: %q", it.Name)
	}
}

func TestItemApply_ClockSkewNeverMovesUpdatedAtBack(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	it := NewItem("Widget", nil, created)

	it.Apply("Widget v2", nil, created.Add(-time.Minute))

	if !it.UpdatedAt.Equal(created) {
		t.Fatalf("updatedAt moved backwards: %v", it.UpdatedAt)
	}
}

func TestValidateItemFields(t *testing.T) {
	tests := []struct {
		name        string
		itemName    string
		description *string
		wantFields  []string
	}{
		{name: "valid", itemName: "Widget", description: strPtr("A thing")},
		{name: "valid without description", itemName: "W"},
		{name: "blank name", itemName: "   ", wantFields: []string{"name"}},
		{name: "empty name", itemName: "", wantFields: []string{"name"}},
		{name: "name too long", itemName: strings.Repeat("x", 256), wantFields: []string{"name"}},
		{name: "name at limit", itemName: strings.Repeat("x", 255)},
		{name: "multibyte name at limit", itemName: strings.Repeat("é", 255)},
		{name: "tab and newline only", itemName: "\t\n", wantFields: []string{"name"}},
		{name: "description too long", itemName: "Widget", description: strPtr(strings.Repeat("d", 5001)), wantFields: []string{"description"}},
		{name: "both invalid", itemName: "", description: strPtr(strings.Repeat("d", 5001)), wantFields: []string{"name", "description"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItemFields(tc.itemName, tc.description)
			if len(tc.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(ve.Fields) != len(tc.wantFields) {
				t.Fatalf("expected %d field errors, got %+v", len(tc.wantFields), ve.Fields)
			}
			for i, f := range tc.wantFields {
				if ve.Fields[i].Field != f {
					t.Fatalf("field %d: expected %q, got %q", i, f, ve.Fields[i].Field)
				}
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{ID: 42})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected errors.Is ErrItemNotFound")
	}
	if err.Error() != "Item with id 42 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIdentityHasRole(t *testing.T) {
	id := &Identity{Roles: []string{"ROLE_user", RoleAdmin}}
	if !id.HasRole(RoleAdmin) {
		t.Fatalf("expected admin role")
	}
	if id.HasRole("ROLE_other") {
		t.Fatalf("unexpected role match")
	}
	var nilID *Identity
	if nilID.HasRole(RoleAdmin) {
		t.Fatalf("nil identity must have no roles")
	}
}
