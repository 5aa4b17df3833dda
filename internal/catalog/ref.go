package catalog

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/google/uuid"
)

// CategoryRef names a category either by id or by display name.
// Exactly one of ID and Name is set.
type CategoryRef struct {
	ID   uuid.UUID
	Name string
}

func (r CategoryRef) ByID() bool { return r.ID != uuid.Nil }

// ParseCategoryRef treats uuid-shaped input as an id and anything else as a
// name, trimmed.
func ParseCategoryRef(s string) (CategoryRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryRef{}, fmt.Errorf("%w: category is required", apperr.ErrInvalidRequest)
	}
	if id, err := uuid.Parse(s); err == nil {
		return CategoryRef{ID: id}, nil
	}
	return CategoryRef{Name: s}, nil
}

func (r CategoryRef) String() string {
	if r.ByID() {
		return r.ID.String()
	}
	return r.Name
}
