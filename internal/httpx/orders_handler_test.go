package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const cartBody = `{"nonce":"pm_card_visa","cart":[{"_id":"11111111-1111-1111-1111-111111111111","price":40},{"roomId":"22222222-2222-2222-2222-222222222222","price":60}],"shippingInfo":{"name":"Amel","country":"TN"}}`

func TestOrdersHandler_clientToken(t *testing.T) {
	t.Run("token issued with publishable key", func(t *testing.T) {
		a := newAPI(t)
		a.orders.On("ClientToken", mock.Anything).Return("seti_secret", nil).Once()

		rec := a.do(http.MethodGet, "/api/v1/room/braintree/token", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"clientToken":"seti_secret","publishableKey":"pk_test_rooms","success":true}`, rec.Body.String())
	})

	t.Run("gateway error surfaces raw payload", func(t *testing.T) {
		a := newAPI(t)
		a.orders.On("ClientToken", mock.Anything).
			Return("", &payment.GatewayError{Detail: "invalid api key", Raw: json.RawMessage(`{"type":"invalid_request_error"}`)}).Once()

		rec := a.do(http.MethodGet, "/api/v1/room/braintree/token", "", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Payment failed","error":"invalid api key","raw":{"type":"invalid_request_error"}}`, rec.Body.String())
	})
}

func TestOrdersHandler_payOnline(t *testing.T) {
	order := orders.Order{ID: uuid.New(), Buyer: buyer.ID, Status: orders.StatusNotProcess}

	tests := []struct {
		name         string
		token        string
		idemKey      string
		body         string
		prepareMocks func(a *api)
		expectedCode int
		expectedBody string
	}{
		{
			name:    "paid",
			token:   "Bearer buyer-token",
			idemKey: "checkout-42",
			body:    cartBody,
			prepareMocks: func(a *api) {
				a.orders.On("PlaceOnline", mock.Anything, buyer.ID, mock.MatchedBy(func(req orders.PlaceRequest) bool {
					return req.IdempotencyKey == "checkout-42" && req.Nonce == "pm_card_visa" &&
						len(req.Cart) == 2 && req.ShippingInfo != nil && req.ShippingInfo.Name == "Amel"
				})).Return(orders.Placement{OK: true, Order: order}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"ok":true`,
		},
		{
			name:  "declined is still a 200",
			token: "Bearer buyer-token",
			body:  cartBody,
			prepareMocks: func(a *api) {
				a.orders.On("PlaceOnline", mock.Anything, buyer.ID, mock.Anything).
					Return(orders.Placement{OK: false, Order: order}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"ok":false`,
		},
		{
			name:  "empty cart",
			token: "Bearer buyer-token",
			body:  `{"cart":[]}`,
			prepareMocks: func(a *api) {
				a.orders.On("PlaceOnline", mock.Anything, buyer.ID, mock.Anything).
					Return(orders.Placement{}, apperr.ErrInvalidRequest).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `"success":false`,
		},
		{
			name:  "gateway transport error",
			token: "Bearer buyer-token",
			body:  cartBody,
			prepareMocks: func(a *api) {
				a.orders.On("PlaceOnline", mock.Anything, buyer.ID, mock.Anything).
					Return(orders.Placement{}, &payment.GatewayError{Detail: "connection reset"}).Once()
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `"error":"connection reset"`,
		},
		{
			name:         "no credential",
			body:         cartBody,
			prepareMocks: func(*api) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "bad json",
			token:        "Bearer buyer-token",
			body:         `{"cart":`,
			prepareMocks: func(*api) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: "invalid json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI(t)
			tt.prepareMocks(a)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/room/braintree/payment", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			if tt.idemKey != "" {
				req.Header.Set("Idempotency-Key", tt.idemKey)
			}
			rec := a.serve(req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestOrdersHandler_payCash(t *testing.T) {
	a := newAPI(t)
	order := orders.Order{ID: uuid.New(), Buyer: buyer.ID, Status: orders.StatusNotProcess,
		Payment: orders.Payment{Mode: orders.ModeCash, Status: orders.PaymentPending}}
	a.orders.On("PlaceCash", mock.Anything, buyer.ID, mock.AnythingOfType("orders.PlaceRequest")).Return(order, nil).Once()

	rec := a.do(http.MethodPost, "/api/v1/room/cash-order", "Bearer buyer-token", cartBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Order   orders.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Cash on Delivery order created", body.Message)
	assert.Equal(t, order.ID, body.Order.ID)
	assert.Equal(t, orders.ModeCash, body.Order.Payment.Mode)
}

func TestOrdersHandler_updateStatus(t *testing.T) {
	id := uuid.New()
	path := "/api/v1/auth/order-status/" + id.String()

	tests := []struct {
		name         string
		path         string
		token        string
		body         string
		prepareMocks func(a *api)
		expectedCode int
	}{
		{
			name:  "admin: ok",
			path:  path,
			token: "admin-token",
			body:  `{"status":"Shipped"}`,
			prepareMocks: func(a *api) {
				a.orders.On("UpdateStatus", mock.Anything, id, "Shipped").
					Return(orders.Order{ID: id, Status: orders.StatusShipped}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "buyer: unauthorized",
			path:         path,
			token:        "Bearer buyer-token",
			body:         `{"status":"Shipped"}`,
			prepareMocks: func(*api) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:  "unknown status",
			path:  path,
			token: "admin-token",
			body:  `{"status":"Lost"}`,
			prepareMocks: func(a *api) {
				a.orders.On("UpdateStatus", mock.Anything, id, "Lost").
					Return(orders.Order{}, apperr.ErrInvalidRequest).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:  "unknown order",
			path:  path,
			token: "admin-token",
			body:  `{"status":"Delivered"}`,
			prepareMocks: func(a *api) {
				a.orders.On("UpdateStatus", mock.Anything, id, "Delivered").
					Return(orders.Order{}, apperr.ErrNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "malformed id",
			path:         "/api/v1/auth/order-status/42",
			token:        "admin-token",
			body:         `{"status":"Shipped"}`,
			prepareMocks: func(*api) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing status",
			path:         path,
			token:        "admin-token",
			body:         `{}`,
			prepareMocks: func(*api) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI(t)
			tt.prepareMocks(a)
			rec := a.do(http.MethodPut, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestOrdersHandler_lists(t *testing.T) {
	a := newAPI(t)
	mine := []orders.Order{{ID: uuid.New(), Buyer: buyer.ID, BuyerName: "Amel"}}
	a.orders.On("ListForBuyer", mock.Anything, buyer.ID).Return(mine, nil).Once()
	a.orders.On("ListAll", mock.Anything).Return([]orders.Order{}, nil).Once()

	rec := a.do(http.MethodGet, "/api/v1/auth/orders", "Bearer buyer-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Amel", got[0].BuyerName)

	rec = a.do(http.MethodGet, "/api/v1/auth/all-orders", "Bearer buyer-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/auth/all-orders", "admin-token", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
