// Package payment adapts an external payment processor to the two calls the
// order workflow needs: minting a client token and submitting a sale.
package payment

import (
	"encoding/json"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Sale is one auto-settled charge of Amount against the tokenized payment
// method identified by Nonce.
type Sale struct {
	Amount         decimal.Decimal
	Currency       currency.Unit
	Nonce          string
	IdempotencyKey string
}

// Result is a sale the processor completed. Success is false for declines,
// which are not errors.
type Result struct {
	Success       bool
	TransactionID string
	Raw           json.RawMessage
}

// GatewayError covers transport failures, processor errors and calls that
// produced no result at all. It matches apperr.ErrPaymentFailed.
type GatewayError struct {
	Detail string
	Raw    json.RawMessage
	Err    error
}

func (e *GatewayError) Error() string {
	return "payment gateway: " + e.Detail
}

func (e *GatewayError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrPaymentFailed}
	}
	return []error{apperr.ErrPaymentFailed, e.Err}
}

// MinorUnits converts amount to the currency's smallest unit, e.g. 12.5 TND -> 12500.
// Three-decimal currencies are rounded to the nearest 10 minor units, since
// the processor rejects a charge whose last minor digit is not 0.
func MinorUnits(amount decimal.Decimal, cur currency.Unit) int64 {
	scale, _ := currency.Standard.Rounding(cur)
	if scale == 3 {
		return amount.Round(2).Shift(3).IntPart()
	}
	return amount.Shift(int32(scale)).Round(0).IntPart()
}

func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
