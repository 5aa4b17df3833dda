package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/identity"
	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderService interface {
	ClientToken(ctx context.Context) (string, error)
	PlaceOnline(ctx context.Context, buyer uuid.UUID, req orders.PlaceRequest) (orders.Placement, error)
	PlaceCash(ctx context.Context, buyer uuid.UUID, req orders.PlaceRequest) (orders.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (orders.Order, error)
	ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]orders.Order, error)
	ListAll(ctx context.Context) ([]orders.Order, error)
}

type OrdersHandler struct {
	Orders OrderService
	Auth   Authenticator
	Log    *slog.Logger

	// PublishableKey is returned with the client token for the browser SDK.
	PublishableKey string
}

type clientTokenResp struct {
	ClientToken    string `json:"clientToken"`
	PublishableKey string `json:"publishableKey,omitempty"`
	Success        bool   `json:"success"`
}

type cashOrderResp struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   orders.Order `json:"order"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	signedIn := RequireSignIn(h.Auth, h.Log)
	admin := IsAdmin(h.Log)

	r.Get("/room/braintree/token", h.clientToken)
	r.With(signedIn).Post("/room/braintree/payment", h.payOnline)
	r.With(signedIn).Post("/room/cash-order", h.payCash)

	r.With(signedIn).Get("/auth/orders", h.myOrders)
	r.With(signedIn, admin).Get("/auth/all-orders", h.allOrders)
	r.With(signedIn, admin).Put("/auth/order-status/{orderId}", h.updateStatus)
}

func (h *OrdersHandler) clientToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.Orders.ClientToken(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, clientTokenResp{ClientToken: token, PublishableKey: h.PublishableKey, Success: true})
}

func (h *OrdersHandler) payOnline(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	// bounded by the workflow's payment timeout, not a handler timeout
	p, err := h.Orders.PlaceOnline(r.Context(), identity.UserID(r.Context()), req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *OrdersHandler) payCash(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.PlaceCash(ctx, identity.UserID(r.Context()), req)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, cashOrderResp{Success: true, Message: "Cash on Delivery order created", Order: o})
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Orders.ListForBuyer(ctx, identity.UserID(r.Context()))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) allOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Orders.ListAll(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "orderId"), "order id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var req statusReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
