package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Room never carries its photo; see Photo.
type Room struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     uuid.UUID       `json:"category"`
	CategoryName string          `json:"categoryName,omitempty"`
	Quantity     int             `json:"quantity"`
	Shipping     bool            `json:"shipping"`
	HasPhoto     bool            `json:"hasPhoto"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Photo struct {
	Data        []byte
	ContentType string
}

// NewRoom is the admin create form. Category is either an id or a name.
type NewRoom struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Quantity    int
	Shipping    bool
	Photo       *Photo
}

// RoomPatch updates only the non-nil fields.
type RoomPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Quantity    *int
	Shipping    *bool
	Photo       *Photo
}

// Filter narrows the room list. An empty Categories matches all; a nil price
// bound is open.
type Filter struct {
	Categories []uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}
