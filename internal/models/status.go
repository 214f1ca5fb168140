package models

import "fmt"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   nil,
	PaymentRefunded: nil,
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if _, ok := paymentTransitions[st]; !ok {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return st, nil
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed. Staying in
// the same status is always allowed and changes nothing.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return s.Valid()
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ShippingStatus string

const (
	ShippingPending    ShippingStatus = "pending"
	ShippingProcessing ShippingStatus = "processing"
	ShippingShipped    ShippingStatus = "shipped"
	ShippingDelivered  ShippingStatus = "delivered"
	ShippingCancelled  ShippingStatus = "cancelled"
)

var shippingTransitions = map[ShippingStatus][]ShippingStatus{
	ShippingPending:    {ShippingProcessing, ShippingShipped, ShippingCancelled},
	ShippingProcessing: {ShippingShipped, ShippingCancelled},
	ShippingShipped:    {ShippingDelivered},
	ShippingDelivered:  nil,
	ShippingCancelled:  nil,
}

func ShippingStatuses() []ShippingStatus {
	return []ShippingStatus{
		ShippingPending,
		ShippingProcessing,
		ShippingShipped,
		ShippingDelivered,
		ShippingCancelled,
	}
}

func ParseShippingStatus(s string) (ShippingStatus, error) {
	st := ShippingStatus(s)
	if _, ok := shippingTransitions[st]; !ok {
		return "", fmt.Errorf("unknown shipping status %q", s)
	}
	return st, nil
}

func (s ShippingStatus) CanTransitionTo(next ShippingStatus) bool {
	if s == next {
		_, ok := shippingTransitions[s]
		return ok
	}
	for _, allowed := range shippingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
