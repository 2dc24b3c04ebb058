package checkout

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/pharmachain-portal/internal/cart"
	"github.com/wichananm65/pharmachain-portal/internal/pricing"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrShippingRequired      = errors.New("shipping info has not been captured")
	ErrPaymentMethodRequired = errors.New("payment method has not been selected")
	ErrInvalidPaymentMethod  = errors.New("unknown payment method")
	ErrInvalidTransition     = errors.New("checkout step not allowed now")
	ErrNoPendingPayment      = errors.New("no payment is pending")
	ErrCallbackMismatch      = errors.New("payment callback does not match the pending order")
	ErrAmountMismatch        = errors.New("payment amount does not match the cart total")
)

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCard, PaymentUPI, PaymentNetBanking:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

// State is the checkout progress stored under the "checkout" session key.
type State struct {
	Status          Status          `json:"status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod,omitempty"`
	ProviderOrderID string          `json:"providerOrderId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	FailureReason   string          `json:"failureReason,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderRequest is sent to the backend to open an order.
type OrderRequest struct {
	ShippingInfo  ShippingInfo  `json:"shippingInfo"`
	CartItems     []cart.Line   `json:"cartItems"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// PaymentSession describes the hosted checkout the browser must open.
// Amount is in paise.
type PaymentSession struct {
	Key      string `json:"key"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	ID       string `json:"id"`
}

// Callback carries the signed fields the payment provider returns.
type Callback struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (cb Callback) complete() bool {
	return cb.OrderID != "" && cb.PaymentID != "" && cb.Signature != ""
}

// Confirmation is what the success view shows.
type Confirmation struct {
	OrderID       string          `json:"orderId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
}

// Summary is the read model of the three checkout pages.
type Summary struct {
	Status        Status         `json:"status"`
	Items         []cart.Line    `json:"items"`
	Totals        pricing.Totals `json:"totals"`
	ShippingInfo  *ShippingInfo  `json:"shippingInfo,omitempty"`
	PaymentMethod PaymentMethod  `json:"paymentMethod,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
}
