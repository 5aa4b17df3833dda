package orders

import (
	"fmt"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
)

// Status is the fulfillment state of an order, independent of its payment.
type Status string

// remember to add new statuses to validStatuses
const (
	StatusNotProcess Status = "Not Process"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var validStatuses = map[Status]struct{}{
	StatusNotProcess: {},
	StatusProcessing: {},
	StatusShipped:    {},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ToStatus parses s. Administrators may move an order between any two
// statuses, so there is no transition table.
func ToStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := validStatuses[status]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", apperr.ErrInvalidRequest, s)
}

type PaymentMode string

const (
	ModeOnline PaymentMode = "Online"
	ModeCash   PaymentMode = "Cash on Delivery"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)
