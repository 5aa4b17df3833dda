package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uuid.UUID   `json:"id"`
	Rooms     []uuid.UUID `json:"rooms"`
	Payment   Payment     `json:"payment"`
	Buyer     uuid.UUID   `json:"buyer"`
	BuyerName string      `json:"buyerName,omitempty"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Payment is stored as a single jsonb document; Raw keeps the gateway
// response verbatim for audit.
type Payment struct {
	Mode         PaymentMode     `json:"mode"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Gateway      string          `json:"gateway,omitempty"`
	Status       PaymentStatus   `json:"status"`
	Raw          json.RawMessage `json:"raw,omitempty"`
	ShippingInfo *ShippingInfo   `json:"shippingInfo,omitempty"`
}

type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	Address string `json:"address"`
}

// LineItem is one cart entry as the storefront sends it. Older clients send
// the room id as _id.
type LineItem struct {
	RoomID   string          `json:"roomId"`
	LegacyID string          `json:"_id"`
	Price    decimal.Decimal `json:"price"`
}

func (li LineItem) roomRef() string {
	if li.RoomID != "" {
		return li.RoomID
	}
	return li.LegacyID
}

type PlaceRequest struct {
	Nonce          string        `json:"nonce"`
	Cart           []LineItem    `json:"cart"`
	ShippingInfo   *ShippingInfo `json:"shippingInfo"`
	IdempotencyKey string        `json:"-"`
}

// Placement is the outcome of an online payment. OK mirrors the gateway's
// success flag; a declined charge still carries a persisted Order.
type Placement struct {
	OK    bool  `json:"ok"`
	Order Order `json:"order"`
}
