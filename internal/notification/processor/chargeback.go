package processor

import (
	"context"

	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"
)

// Chargeback handles CHARGEBACK events. The dispute outcome overrides
// whatever state the order was in; there is no unsuccessful variant worth
// distinguishing, the provider only notifies once the funds moved.
type Chargeback struct {
	orders order.Service
}

func NewChargeback(orders order.Service) *Chargeback {
	return &Chargeback{orders: orders}
}

func (p *Chargeback) Name() string {
	return "chargeback"
}

func (p *Chargeback) Handles(code notification.EventCode) bool {
	return code == notification.EventChargeback
}

func (p *Chargeback) Process(ctx context.Context, item notification.Item) error {
	if err := p.orders.MarkChargedBack(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}
