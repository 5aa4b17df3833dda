// Package mocks holds testify mocks for the service interfaces.
package mocks

import (
	"context"

	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Ledger struct{ mock.Mock }

func NewLedger(t testingT) *Ledger {
	m := &Ledger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Ledger) Create(ctx context.Context, o orders.Order) (orders.Order, error) {
	args := m.Called(ctx, o)
	if fn, ok := args.Get(0).(func(context.Context, orders.Order) (orders.Order, error)); ok {
		return fn(ctx, o)
	}
	return args.Get(0).(orders.Order), args.Error(1)
}

func (m *Ledger) Get(ctx context.Context, id uuid.UUID) (orders.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(orders.Order), args.Error(1)
}

func (m *Ledger) UpdateStatus(ctx context.Context, id uuid.UUID, status orders.Status) (orders.Order, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(orders.Order), args.Error(1)
}

func (m *Ledger) ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]orders.Order, error) {
	args := m.Called(ctx, buyer)
	out, _ := args.Get(0).([]orders.Order)
	return out, args.Error(1)
}

func (m *Ledger) ListAll(ctx context.Context) ([]orders.Order, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]orders.Order)
	return out, args.Error(1)
}

type Gateway struct{ mock.Mock }

func NewGateway(t testingT) *Gateway {
	m := &Gateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Gateway) Name() string { return "Mock" }

func (m *Gateway) IssueClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Gateway) SubmitSale(ctx context.Context, sale payment.Sale) (payment.Result, error) {
	args := m.Called(ctx, sale)
	if fn, ok := args.Get(0).(func(context.Context, payment.Sale) (payment.Result, error)); ok {
		return fn(ctx, sale)
	}
	return args.Get(0).(payment.Result), args.Error(1)
}

type IdempotencyStore struct{ mock.Mock }

func NewIdempotencyStore(t testingT) *IdempotencyStore {
	m := &IdempotencyStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdempotencyStore) Lookup(ctx context.Context, buyer uuid.UUID, key string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, buyer, key)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *IdempotencyStore) Remember(ctx context.Context, buyer uuid.UUID, key string, orderID uuid.UUID) error {
	args := m.Called(ctx, buyer, key, orderID)
	return args.Error(0)
}
