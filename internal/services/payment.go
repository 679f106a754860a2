package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrVerificationUnsupported = errors.New("payment verification not implemented")
	ErrAmountOutOfRange        = errors.New("order amount out of range")
)

// MaxOrderAmount is the largest accepted amount in major units. Its minor unit
// count stays below 2^53, where a float64 still holds every integer.
const MaxOrderAmount = 1e13

// Order amounts are in the currency's minor unit.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64) (*Order, error)
	Verify(ctx context.Context, orderID, paymentID, signature string) error
}

// MockGateway creates INR orders locally without contacting a provider.
type MockGateway struct {
	now func() time.Time
}

func NewMockGateway() *MockGateway {
	return &MockGateway{now: time.Now}
}

func (g *MockGateway) CreateOrder(ctx context.Context, amount float64) (*Order, error) {
	if !(amount > 0 && amount <= MaxOrderAmount) {
		return nil, fmt.Errorf("%w: %v", ErrAmountOutOfRange, amount)
	}
	return &Order{
		ID:       fmt.Sprintf("mock_order_%d", g.now().UnixMilli()),
		Amount:   int64(math.Round(amount * 100)),
		Currency: "INR",
	}, nil
}

func (g *MockGateway) Verify(ctx context.Context, orderID, paymentID, signature string) error {
	return ErrVerificationUnsupported
}
