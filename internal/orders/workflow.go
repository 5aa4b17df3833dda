package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/logkey"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Ledger interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Order, error)
	ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

type Gateway interface {
	Name() string
	IssueClientToken(ctx context.Context) (string, error)
	SubmitSale(ctx context.Context, sale payment.Sale) (payment.Result, error)
}

type IdempotencyStore interface {
	Lookup(ctx context.Context, buyer uuid.UUID, key string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, buyer uuid.UUID, key string, orderID uuid.UUID) error
}

// Workflow turns a cart plus a payment intent into a persisted order.
// Idempotency is optional; PaymentTimeout <= 0 leaves the sale call unbounded.
type Workflow struct {
	Ledger         Ledger
	Gateway        Gateway
	Idempotency    IdempotencyStore
	Currency       currency.Unit
	PaymentTimeout time.Duration
	Log            *slog.Logger
}

// Total sums the line-item prices. A missing price counts as zero.
func Total(cart []LineItem) decimal.Decimal {
	return lo.Reduce(cart, func(sum decimal.Decimal, it LineItem, _ int) decimal.Decimal {
		return sum.Add(it.Price)
	}, decimal.Zero)
}

func (w *Workflow) PlaceCash(ctx context.Context, buyer uuid.UUID, req PlaceRequest) (Order, error) {
	rooms, err := cartRooms(req.Cart)
	if err != nil {
		return Order{}, err
	}

	created, err := w.Ledger.Create(ctx, Order{
		Rooms:  rooms,
		Buyer:  buyer,
		Status: StatusNotProcess,
		Payment: Payment{
			Mode:         ModeCash,
			Amount:       Total(req.Cart),
			Currency:     w.Currency.String(),
			Status:       PaymentPending,
			ShippingInfo: req.ShippingInfo,
		},
	})
	if err != nil {
		return Order{}, fmt.Errorf("%w: create order: %w", apperr.ErrInternal, err)
	}

	w.log().InfoContext(ctx, "cash order created",
		slog.String(logkey.OrderID, created.ID.String()),
		slog.String(logkey.UserID, buyer.String()),
		slog.String(logkey.Amount, created.Payment.Amount.String()))
	return created, nil
}

// PlaceOnline charges the cart total through the gateway and records the
// outcome. A decline is not an error: it yields an order whose payment
// status is failed and a Placement with OK=false. Gateway errors write nothing.
// Once the sale starts, request cancellation no longer reaches the gateway or
// the ledger; PaymentTimeout is the only bound on the charge.
func (w *Workflow) PlaceOnline(ctx context.Context, buyer uuid.UUID, req PlaceRequest) (Placement, error) {
	rooms, err := cartRooms(req.Cart)
	if err != nil {
		return Placement{}, err
	}

	if req.IdempotencyKey != "" && w.Idempotency != nil {
		if p, ok := w.replay(ctx, buyer, req.IdempotencyKey); ok {
			return p, nil
		}
	}

	ctx = context.WithoutCancel(ctx)
	total := Total(req.Cart)
	res, err := w.submitSale(ctx, payment.Sale{
		Amount:         total,
		Currency:       w.Currency,
		Nonce:          req.Nonce,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		w.log().ErrorContext(ctx, "payment gateway error",
			slog.String(logkey.UserID, buyer.String()),
			slog.String(logkey.Gateway, w.Gateway.Name()),
			slog.String(logkey.Error, err.Error()))
		return Placement{}, err
	}

	status := PaymentFailed
	if res.Success {
		status = PaymentPaid
	}

	created, err := w.Ledger.Create(ctx, Order{
		Rooms:  rooms,
		Buyer:  buyer,
		Status: StatusNotProcess,
		Payment: Payment{
			Mode:         ModeOnline,
			Amount:       total,
			Currency:     w.Currency.String(),
			Gateway:      w.Gateway.Name(),
			Status:       status,
			Raw:          res.Raw,
			ShippingInfo: req.ShippingInfo,
		},
	})
	if err != nil {
		// the charge went through but there is no order for it
		w.log().ErrorContext(ctx, "order not recorded after sale",
			slog.String(logkey.UserID, buyer.String()),
			slog.String("transaction_id", res.TransactionID),
			slog.Bool("success", res.Success),
			slog.String(logkey.Error, err.Error()))
		return Placement{}, fmt.Errorf("%w: create order: %w", apperr.ErrInternal, err)
	}

	if req.IdempotencyKey != "" && w.Idempotency != nil {
		if err := w.Idempotency.Remember(ctx, buyer, req.IdempotencyKey, created.ID); err != nil {
			w.log().WarnContext(ctx, "idempotency key not stored",
				slog.String(logkey.OrderID, created.ID.String()),
				slog.String(logkey.Error, err.Error()))
		}
	}

	w.log().InfoContext(ctx, "online order created",
		slog.String(logkey.OrderID, created.ID.String()),
		slog.String(logkey.UserID, buyer.String()),
		slog.String("payment_status", string(status)),
		slog.String(logkey.Amount, total.String()))
	return Placement{OK: res.Success, Order: created}, nil
}

func (w *Workflow) ClientToken(ctx context.Context) (string, error) {
	token, err := w.Gateway.IssueClientToken(ctx)
	if err != nil {
		w.log().ErrorContext(ctx, "client token",
			slog.String(logkey.Gateway, w.Gateway.Name()),
			slog.String(logkey.Error, err.Error()))
		return "", asGatewayError(err)
	}
	return token, nil
}

func (w *Workflow) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Order, error) {
	s, err := ToStatus(status)
	if err != nil {
		return Order{}, err
	}
	return w.Ledger.UpdateStatus(ctx, id, s)
}

func (w *Workflow) ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]Order, error) {
	return w.Ledger.ListForBuyer(ctx, buyer)
}

func (w *Workflow) ListAll(ctx context.Context) ([]Order, error) {
	return w.Ledger.ListAll(ctx)
}

func (w *Workflow) submitSale(ctx context.Context, sale payment.Sale) (payment.Result, error) {
	if w.PaymentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.PaymentTimeout)
		defer cancel()
	}
	res, err := w.Gateway.SubmitSale(ctx, sale)
	if err != nil {
		return payment.Result{}, asGatewayError(err)
	}
	return res, nil
}

// replay returns the order an earlier request with the same key produced.
// Lookup failures fall through to a fresh charge.
func (w *Workflow) replay(ctx context.Context, buyer uuid.UUID, key string) (Placement, bool) {
	id, found, err := w.Idempotency.Lookup(ctx, buyer, key)
	if err != nil {
		w.log().WarnContext(ctx, "idempotency lookup", slog.String(logkey.Error, err.Error()))
		return Placement{}, false
	}
	if !found {
		return Placement{}, false
	}
	o, err := w.Ledger.Get(ctx, id)
	if err != nil {
		w.log().WarnContext(ctx, "idempotent order missing",
			slog.String(logkey.OrderID, id.String()),
			slog.String(logkey.Error, err.Error()))
		return Placement{}, false
	}
	return Placement{OK: o.Payment.Status == PaymentPaid, Order: o}, true
}

func (w *Workflow) log() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}

func cartRooms(cart []LineItem) ([]uuid.UUID, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", apperr.ErrInvalidRequest)
	}
	rooms := make([]uuid.UUID, 0, len(cart))
	for i, it := range cart {
		id, err := uuid.Parse(it.roomRef())
		if err != nil {
			return nil, fmt.Errorf("%w: cart[%d]: invalid room id %q", apperr.ErrInvalidRequest, i, it.roomRef())
		}
		rooms = append(rooms, id)
	}
	return rooms, nil
}

func asGatewayError(err error) error {
	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return &payment.GatewayError{Detail: err.Error(), Err: err}
}
