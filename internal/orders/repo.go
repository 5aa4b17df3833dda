package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the order ledger.
type Repo struct{ DB *pgxpool.Pool }

const selectOrder = `
	SELECT o.id, o.rooms, o.payment, o.buyer_id, COALESCE(u.name, ''), o.status, o.created_at, o.updated_at
	FROM orders o LEFT JOIN users u ON u.id = o.buyer_id`

func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	payment, err := json.Marshal(o.Payment)
	if err != nil {
		return Order{}, fmt.Errorf("marshal payment: %w", err)
	}
	if o.Status == "" {
		o.Status = StatusNotProcess
	}
	if o.Rooms == nil {
		o.Rooms = []uuid.UUID{}
	}

	o.ID = uuid.New()
	err = r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, buyer_id, rooms, payment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		o.ID, o.Buyer, o.Rooms, payment, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, selectOrder+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateStatus sets the fulfillment status. Any status may follow any other.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Order, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return Order{}, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return r.Get(ctx, id)
}

func (r *Repo) ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]Order, error) {
	return r.list(ctx, selectOrder+` WHERE o.buyer_id = $1 ORDER BY o.created_at DESC`, buyer)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, selectOrder+` ORDER BY o.created_at DESC`)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o       Order
		payment []byte
		status  string
	)
	if err := row.Scan(&o.ID, &o.Rooms, &payment, &o.Buyer, &o.BuyerName, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(payment, &o.Payment); err != nil {
		return Order{}, fmt.Errorf("unmarshal payment: %w", err)
	}
	o.Status = Status(status)
	return o, nil
}
