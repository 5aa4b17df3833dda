package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Idempotency binds a client-chosen key to the order it produced, scoped per buyer.
type Idempotency struct {
	Redis *redis.Client
}

func (i *Idempotency) Lookup(ctx context.Context, buyer uuid.UUID, key string) (uuid.UUID, bool, error) {
	s, err := i.Redis.Get(ctx, fmt.Sprintf(KeyIdemPayment, buyer, key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("idempotency value %q: %w", s, err)
	}
	return id, true, nil
}

// Remember keeps the first binding; a later call with the same key is a no-op.
func (i *Idempotency) Remember(ctx context.Context, buyer uuid.UUID, key string, orderID uuid.UUID) error {
	return i.Redis.SetNX(ctx, fmt.Sprintf(KeyIdemPayment, buyer, key), orderID.String(), TTLIdempotency).Err()
}
