package checkout

type Status string

const (
	StatusCartPopulated         Status = "CART_POPULATED"
	StatusShippingCaptured      Status = "SHIPPING_CAPTURED"
	StatusPaymentMethodSelected Status = "PAYMENT_METHOD_SELECTED"
	StatusPaymentPending        Status = "PAYMENT_PENDING"
	StatusPaymentConfirmed      Status = "PAYMENT_CONFIRMED"
	StatusPaymentFailed         Status = "PAYMENT_FAILED"
	StatusVerificationFailed    Status = "VERIFICATION_FAILED"
)

// Going back a page is always allowed before payment is confirmed; a
// failed attempt keeps cart and shipping so it may start over.
var transitions = map[Status][]Status{
	StatusCartPopulated:         {StatusShippingCaptured},
	StatusShippingCaptured:      {StatusShippingCaptured, StatusPaymentMethodSelected},
	StatusPaymentMethodSelected: {StatusShippingCaptured, StatusPaymentMethodSelected, StatusPaymentPending},
	StatusPaymentPending: {
		StatusShippingCaptured, StatusPaymentMethodSelected, StatusPaymentPending,
		StatusPaymentConfirmed, StatusPaymentFailed, StatusVerificationFailed,
	},
	StatusPaymentFailed:      {StatusShippingCaptured, StatusPaymentMethodSelected, StatusPaymentPending},
	StatusVerificationFailed: {StatusShippingCaptured, StatusPaymentMethodSelected, StatusPaymentPending},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a payment attempt has ended.
func (s Status) IsTerminal() bool {
	return s == StatusPaymentConfirmed || s == StatusPaymentFailed || s == StatusVerificationFailed
}

func (s Status) String() string {
	return string(s)
}
