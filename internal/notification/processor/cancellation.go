package processor

import (
	"context"

	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"

	"go.uber.org/zap"
)

// Cancellation handles CANCELLATION events for voided authorisations.
type Cancellation struct {
	orders order.Service
}

func NewCancellation(orders order.Service) *Cancellation {
	return &Cancellation{orders: orders}
}

func (p *Cancellation) Name() string {
	return "cancellation"
}

func (p *Cancellation) Handles(code notification.EventCode) bool {
	return code == notification.EventCancellation
}

func (p *Cancellation) Process(ctx context.Context, item notification.Item) error {
	if !item.Success {
		logger.FromCtx(ctx).Warn("cancellation unsuccessful, leaving order state",
			zap.String("merchant_reference", item.MerchantReference),
			zap.String("psp_reference", item.PSPReference),
		)
		return nil
	}

	if err := p.orders.MarkCanceled(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}
