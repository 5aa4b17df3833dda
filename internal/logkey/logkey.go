package logkey

// Attribute keys shared by every slog call site.
const (
	RequestID = "request_id"
	Error     = "error"
	UserID    = "user_id"
	OrderID   = "order_id"
	RoomID    = "room_id"
	Gateway   = "gateway"
	Amount    = "amount"
)
