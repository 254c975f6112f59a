package gateway

import "context"

// CreateOrderRequest asks the gateway to open an order for a booking.
// Amount is in paise, the gateway's smallest currency unit.
type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// CreateOrderResponse is the gateway's view of the created order
type CreateOrderResponse struct {
	OrderID  string
	Amount   int64
	Currency string
	Status   string
}

// PaymentInfo describes a payment fetched from the gateway
type PaymentInfo struct {
	PaymentID string
	OrderID   string
	Amount    int64
	Currency  string
	Status    string
	Method    string
}

// PaymentGateway abstracts the payment provider. Implementations must
// be safe for concurrent use.
type PaymentGateway interface {
	// CreateOrder opens a gateway order; the returned order id is what
	// the client pays against
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)

	// VerifySignature checks the signature the client returns after
	// payment. This is the authenticity proof for the whole flow.
	VerifySignature(orderID, paymentID, signature string) bool

	// FetchPayment retrieves payment details from the gateway
	FetchPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)

	// Name returns the gateway name
	Name() string
}
