package redisx

import "time"

const (
	// Online payment idempotency: idem:payment:{buyer_id}:{key} -> order_id
	KeyIdemPayment = "idem:payment:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
)
