package interfaces

import "context"

// PaymentOrder is the external payment collaborator's order for a deposit.
// The gateway later calls back the confirm endpoint with the reference.
type PaymentOrder struct {
	OrderID   string
	Reference string
	Amount    int64
	Currency  string
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, reference string, amount int64) (*PaymentOrder, error)
}
