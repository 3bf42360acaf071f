// Package processor contains one notification processor per payment event
// kind. Processors translate provider events into order payment-state
// transitions; any failure is surfaced as a notification.ProcessingError so
// the dispatcher can mark the record FAILED without aborting the batch.
package processor

import (
	"context"
	"fmt"

	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"
)

// Defaults returns the full processor registry in dispatch order.
func Defaults(orders order.Service) []notification.Processor {
	return []notification.Processor{
		NewAuthorisation(orders),
		NewCapture(orders),
		NewRefund(orders),
		NewRefundFailed(orders),
		NewCancellation(orders),
		NewChargeback(orders),
	}
}

func failure(name string, err error) error {
	return &notification.ProcessingError{Processor: name, Err: err}
}

// verifyOrderAmount checks the notification amount against the order before
// a state transition that implies full payment. Partial-amount events
// (refunds) must not use it.
func verifyOrderAmount(ctx context.Context, orders order.Service, item notification.Item) (*order.Order, error) {
	o, err := orders.GetByMerchantReference(ctx, item.MerchantReference)
	if err != nil {
		return nil, err
	}

	if item.Amount.Value != o.TotalAmount {
		return nil, fmt.Errorf("amount mismatch: notification=%d order=%d", item.Amount.Value, o.TotalAmount)
	}
	if item.Amount.Currency != o.Currency {
		return nil, fmt.Errorf("currency mismatch: notification=%s order=%s", item.Amount.Currency, o.Currency)
	}

	return o, nil
}
