package orders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/mocks"
	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var (
	r1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	r2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func scenarioCart() []orders.LineItem {
	return []orders.LineItem{
		{RoomID: r1.String(), Price: decimal.NewFromInt(40)},
		{RoomID: r2.String(), Price: decimal.NewFromInt(60)},
	}
}

func newWorkflow(t *testing.T) (*orders.Workflow, *mocks.Ledger, *mocks.Gateway) {
	ledger := mocks.NewLedger(t)
	gw := mocks.NewGateway(t)
	return &orders.Workflow{
		Ledger:   ledger,
		Gateway:  gw,
		Currency: currency.MustParseISO("TND"),
	}, ledger, gw
}

// echoCreate makes the ledger mock return what it was given, with an id.
func echoCreate(ledger *mocks.Ledger) *mock.Call {
	return ledger.On("Create", mock.Anything, mock.AnythingOfType("orders.Order")).
		Return(func(_ context.Context, o orders.Order) (orders.Order, error) {
			o.ID = uuid.New()
			return o, nil
		})
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name string
		cart []orders.LineItem
		want string
	}{
		{"scenario cart", scenarioCart(), "100"},
		{"missing price counts as zero", []orders.LineItem{{RoomID: r1.String()}, {RoomID: r2.String(), Price: decimal.RequireFromString("12.5")}}, "12.5"},
		{"decimals", []orders.LineItem{{Price: decimal.RequireFromString("0.1")}, {Price: decimal.RequireFromString("0.2")}}, "0.3"},
		{"empty", nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(orders.Total(tt.cart)), "got %s", orders.Total(tt.cart))
		})
	}
}

func TestWorkflow_PlaceCash(t *testing.T) {
	buyer := uuid.New()
	ship := &orders.ShippingInfo{Name: "Amel", Email: "amel@example.com", Country: "TN", Address: "Rue 1"}

	t.Run("scenario cart: pending, not processed, total 100", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		echoCreate(ledger).Once()

		o, err := wf.PlaceCash(context.Background(), buyer, orders.PlaceRequest{Cart: scenarioCart(), ShippingInfo: ship})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Equal(t, buyer, o.Buyer)
		assert.Equal(t, []uuid.UUID{r1, r2}, o.Rooms)
		assert.Equal(t, orders.StatusNotProcess, o.Status)
		assert.Equal(t, orders.ModeCash, o.Payment.Mode)
		assert.Equal(t, orders.PaymentPending, o.Payment.Status)
		assert.Equal(t, "TND", o.Payment.Currency)
		assert.Empty(t, o.Payment.Gateway)
		assert.True(t, decimal.NewFromInt(100).Equal(o.Payment.Amount))
		assert.Equal(t, ship, o.Payment.ShippingInfo)
	})

	t.Run("legacy _id is accepted as room reference", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		echoCreate(ledger).Once()

		o, err := wf.PlaceCash(context.Background(), buyer, orders.PlaceRequest{
			Cart: []orders.LineItem{{LegacyID: r1.String(), Price: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{r1}, o.Rooms)
	})

	t.Run("empty or absent cart: invalid request, nothing written", func(t *testing.T) {
		for _, cart := range [][]orders.LineItem{nil, {}} {
			wf, _, _ := newWorkflow(t)
			_, err := wf.PlaceCash(context.Background(), buyer, orders.PlaceRequest{Cart: cart})
			assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
		}
	})

	t.Run("malformed room id: invalid request", func(t *testing.T) {
		wf, _, _ := newWorkflow(t)
		_, err := wf.PlaceCash(context.Background(), buyer, orders.PlaceRequest{
			Cart: []orders.LineItem{{RoomID: "room-1", Price: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	})

	t.Run("ledger failure: internal error with cause", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		cause := errors.New("connection refused")
		ledger.On("Create", mock.Anything, mock.Anything).Return(orders.Order{}, cause).Once()

		_, err := wf.PlaceCash(context.Background(), buyer, orders.PlaceRequest{Cart: scenarioCart()})
		assert.ErrorIs(t, err, apperr.ErrInternal)
		assert.ErrorIs(t, err, cause)
	})
}

func TestWorkflow_PlaceOnline(t *testing.T) {
	buyer := uuid.New()
	raw := []byte(`{"id":"pi_1","status":"succeeded"}`)

	saleFor := func(nonce string) payment.Sale {
		return payment.Sale{Amount: decimal.NewFromInt(100), Currency: currency.MustParseISO("TND"), Nonce: nonce}
	}
	matchSale := func(nonce string) any {
		want := saleFor(nonce)
		return mock.MatchedBy(func(s payment.Sale) bool {
			return s.Amount.Equal(want.Amount) && s.Currency == want.Currency && s.Nonce == want.Nonce
		})
	}

	t.Run("gateway success: paid order, ok=true", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		gw.On("SubmitSale", mock.Anything, matchSale("nonce-ok")).
			Return(payment.Result{Success: true, TransactionID: "pi_1", Raw: raw}, nil).Once()
		echoCreate(ledger).Once()

		p, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "nonce-ok", Cart: scenarioCart()})
		require.NoError(t, err)

		assert.True(t, p.OK)
		assert.Equal(t, orders.PaymentPaid, p.Order.Payment.Status)
		assert.Equal(t, orders.ModeOnline, p.Order.Payment.Mode)
		assert.Equal(t, "Mock", p.Order.Payment.Gateway)
		assert.JSONEq(t, string(raw), string(p.Order.Payment.Raw))
		assert.Equal(t, orders.StatusNotProcess, p.Order.Status)
		assert.True(t, decimal.NewFromInt(100).Equal(p.Order.Payment.Amount))
	})

	t.Run("gateway decline: failed order still written, ok=false, no error", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		gw.On("SubmitSale", mock.Anything, matchSale("nonce-declined")).
			Return(payment.Result{Success: false, Raw: []byte(`{"code":"card_declined"}`)}, nil).Once()
		echoCreate(ledger).Once()

		p, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "nonce-declined", Cart: scenarioCart()})
		require.NoError(t, err)

		assert.False(t, p.OK)
		assert.Equal(t, orders.PaymentFailed, p.Order.Payment.Status)
		assert.Equal(t, orders.StatusNotProcess, p.Order.Status)
	})

	t.Run("gateway transport error: payment failed, nothing written", func(t *testing.T) {
		wf, _, gw := newWorkflow(t)
		gwErr := &payment.GatewayError{Detail: "connection reset", Raw: []byte(`{"type":"api_error"}`)}
		gw.On("SubmitSale", mock.Anything, mock.Anything).Return(payment.Result{}, gwErr).Once()

		_, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart()})
		assert.ErrorIs(t, err, apperr.ErrPaymentFailed)

		var got *payment.GatewayError
		require.ErrorAs(t, err, &got)
		assert.JSONEq(t, `{"type":"api_error"}`, string(got.Raw))
	})

	t.Run("plain error from gateway is normalized", func(t *testing.T) {
		wf, _, gw := newWorkflow(t)
		gw.On("SubmitSale", mock.Anything, mock.Anything).Return(payment.Result{}, errors.New("eof")).Once()

		_, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart()})
		var got *payment.GatewayError
		require.ErrorAs(t, err, &got)
		assert.ErrorIs(t, err, apperr.ErrPaymentFailed)
	})

	t.Run("empty cart: invalid request, gateway not called", func(t *testing.T) {
		wf, _, _ := newWorkflow(t)
		_, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n"})
		assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	})

	t.Run("ledger failure after sale: internal error", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		gw.On("SubmitSale", mock.Anything, mock.Anything).Return(payment.Result{Success: true}, nil).Once()
		ledger.On("Create", mock.Anything, mock.Anything).Return(orders.Order{}, errors.New("disk full")).Once()

		_, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart()})
		assert.ErrorIs(t, err, apperr.ErrInternal)
	})

	t.Run("payment timeout bounds the sale call", func(t *testing.T) {
		wf, _, gw := newWorkflow(t)
		wf.PaymentTimeout = 20 * time.Millisecond
		gw.On("SubmitSale", mock.Anything, mock.Anything).
			Return(func(ctx context.Context, _ payment.Sale) (payment.Result, error) {
				<-ctx.Done()
				return payment.Result{}, ctx.Err()
			}).Once()

		_, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart()})
		assert.ErrorIs(t, err, apperr.ErrPaymentFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("request cancelled mid-sale: charge still recorded", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		reqCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gw.On("SubmitSale", mock.Anything, matchSale("n")).
			Return(func(ctx context.Context, _ payment.Sale) (payment.Result, error) {
				cancel()
				if err := ctx.Err(); err != nil {
					return payment.Result{}, err
				}
				return payment.Result{Success: true, TransactionID: "pi_x", Raw: raw}, nil
			}).Once()
		ledger.On("Create", mock.Anything, mock.Anything).
			Return(func(ctx context.Context, o orders.Order) (orders.Order, error) {
				if err := ctx.Err(); err != nil {
					return orders.Order{}, err
				}
				o.ID = uuid.New()
				return o, nil
			}).Once()

		p, err := wf.PlaceOnline(reqCtx, buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart()})
		require.NoError(t, err)
		assert.True(t, p.OK)
		assert.Equal(t, orders.PaymentPaid, p.Order.Payment.Status)
		assert.ErrorIs(t, reqCtx.Err(), context.Canceled)
	})
}

func TestWorkflow_PlaceOnlineIdempotent(t *testing.T) {
	buyer := uuid.New()

	t.Run("known key replays stored order without charging", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		idem := mocks.NewIdempotencyStore(t)
		wf.Idempotency = idem

		stored := orders.Order{ID: uuid.New(), Buyer: buyer, Payment: orders.Payment{Status: orders.PaymentPaid}}
		idem.On("Lookup", mock.Anything, buyer, "key-1").Return(stored.ID, true, nil).Once()
		ledger.On("Get", mock.Anything, stored.ID).Return(stored, nil).Once()

		p, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart(), IdempotencyKey: "key-1"})
		require.NoError(t, err)
		assert.True(t, p.OK)
		assert.Equal(t, stored.ID, p.Order.ID)
	})

	t.Run("new key charges, writes and remembers", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		idem := mocks.NewIdempotencyStore(t)
		wf.Idempotency = idem

		idem.On("Lookup", mock.Anything, buyer, "key-2").Return(uuid.Nil, false, nil).Once()
		gw.On("SubmitSale", mock.Anything, mock.MatchedBy(func(s payment.Sale) bool { return s.IdempotencyKey == "key-2" })).
			Return(payment.Result{Success: true}, nil).Once()
		echoCreate(ledger).Once()
		idem.On("Remember", mock.Anything, buyer, "key-2", mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

		p, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart(), IdempotencyKey: "key-2"})
		require.NoError(t, err)
		assert.True(t, p.OK)
	})

	t.Run("lookup failure falls through to a fresh charge", func(t *testing.T) {
		wf, ledger, gw := newWorkflow(t)
		idem := mocks.NewIdempotencyStore(t)
		wf.Idempotency = idem

		idem.On("Lookup", mock.Anything, buyer, "key-3").Return(uuid.Nil, false, errors.New("redis down")).Once()
		gw.On("SubmitSale", mock.Anything, mock.Anything).Return(payment.Result{Success: true}, nil).Once()
		echoCreate(ledger).Once()
		idem.On("Remember", mock.Anything, buyer, "key-3", mock.Anything).Return(errors.New("redis down")).Once()

		p, err := wf.PlaceOnline(context.Background(), buyer, orders.PlaceRequest{Nonce: "n", Cart: scenarioCart(), IdempotencyKey: "key-3"})
		require.NoError(t, err)
		assert.True(t, p.OK)
	})
}

func TestWorkflow_ClientToken(t *testing.T) {
	t.Run("token passed through", func(t *testing.T) {
		wf, _, gw := newWorkflow(t)
		gw.On("IssueClientToken", mock.Anything).Return("tok", nil).Once()

		token, err := wf.ClientToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", token)
	})

	t.Run("gateway error surfaces as payment failed", func(t *testing.T) {
		wf, _, gw := newWorkflow(t)
		cause := errors.New("authentication failed")
		gw.On("IssueClientToken", mock.Anything).Return("", cause).Once()

		_, err := wf.ClientToken(context.Background())
		assert.ErrorIs(t, err, apperr.ErrPaymentFailed)
		assert.ErrorIs(t, err, cause)
	})
}

func TestWorkflow_UpdateStatus(t *testing.T) {
	id := uuid.New()

	t.Run("any transition is allowed", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		ledger.On("UpdateStatus", mock.Anything, id, orders.StatusProcessing).
			Return(orders.Order{ID: id, Status: orders.StatusProcessing}, nil).Once()

		o, err := wf.UpdateStatus(context.Background(), id, "Processing")
		require.NoError(t, err)
		assert.Equal(t, orders.StatusProcessing, o.Status)
	})

	t.Run("unknown status: invalid request", func(t *testing.T) {
		wf, _, _ := newWorkflow(t)
		_, err := wf.UpdateStatus(context.Background(), id, "deliverd")
		assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
	})

	t.Run("unknown order: not found", func(t *testing.T) {
		wf, ledger, _ := newWorkflow(t)
		ledger.On("UpdateStatus", mock.Anything, id, orders.StatusShipped).
			Return(orders.Order{}, apperr.ErrNotFound).Once()

		_, err := wf.UpdateStatus(context.Background(), id, "Shipped")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
