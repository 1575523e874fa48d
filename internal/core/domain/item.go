package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	NameMaxLength        = 255
	DescriptionMaxLength = 5000
)

// Item is the only durable business entity.
type Item struct {
	ID          int64     `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description *string   `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Now returns the current instant at the resolution the stores keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewItem builds an unsaved item stamped with now for both timestamps.
func NewItem(name string, description *string, now time.Time) *Item {
	return &Item{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply replaces the mutable fields and refreshes UpdatedAt. UpdatedAt never
// moves backwards even if the wall clock does.
func (i *Item) Apply(name string, description *string, now time.Time) {
	i.Name = name
	i.Description = description
	if now.After(i.UpdatedAt) {
		i.UpdatedAt = now
	}
}

var fieldRules = newFieldRules()

func newFieldRules() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidateItemFields checks the field constraints shared by create and update.
// The HTTP layer validates the same rules on the request body; this guards
// callers that reach the service directly.
func ValidateItemFields(name string, description *string) error {
	var fields []FieldError
	if err := fieldRules.Var(name, fmt.Sprintf("notblank,max=%d", NameMaxLength)); err != nil {
		msg := "Name must be between 1 and 255 characters"
		if failedRule(err) == "notblank" {
			msg = "Name is required"
		}
		fields = append(fields, FieldError{Field: "name", Message: msg})
	}
	if description != nil {
		if err := fieldRules.Var(*description, fmt.Sprintf("max=%d", DescriptionMaxLength)); err != nil {
			fields = append(fields, FieldError{Field: "description", Message: "Description must not exceed 5000 characters"})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func failedRule(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Tag()
	}
	return ""
}
