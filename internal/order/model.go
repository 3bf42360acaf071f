package order

import "time"

// PaymentState is the payment lifecycle of an order as seen by the
// notification pipeline. The order subsystem owns the entity; this package
// only issues state-transition requests against it.
type PaymentState string

const (
	PaymentStatePending     PaymentState = "PENDING"
	PaymentStateAuthorized  PaymentState = "AUTHORIZED"
	PaymentStateFailed      PaymentState = "FAILED"
	PaymentStateCaptured    PaymentState = "CAPTURED"
	PaymentStateRefunded    PaymentState = "REFUNDED"
	PaymentStateCanceled    PaymentState = "CANCELED"
	PaymentStateChargedBack PaymentState = "CHARGED_BACK"
)

type Order struct {
	ID                uint
	MerchantReference string
	PaymentState      PaymentState
	TotalAmount       int64
	Currency          string
	PSPReference      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
