package processor

import (
	"context"

	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"

	"go.uber.org/zap"
)

// Capture handles CAPTURE events, the point where authorized funds are
// actually collected. A failed capture keeps the order in its current state;
// the provider retries captures on its side.
type Capture struct {
	orders order.Service
}

func NewCapture(orders order.Service) *Capture {
	return &Capture{orders: orders}
}

func (p *Capture) Name() string {
	return "capture"
}

func (p *Capture) Handles(code notification.EventCode) bool {
	return code == notification.EventCapture
}

func (p *Capture) Process(ctx context.Context, item notification.Item) error {
	if !item.Success {
		logger.FromCtx(ctx).Warn("capture unsuccessful, leaving order state",
			zap.String("merchant_reference", item.MerchantReference),
			zap.String("psp_reference", item.PSPReference),
		)
		return nil
	}

	if _, err := verifyOrderAmount(ctx, p.orders, item); err != nil {
		return failure(p.Name(), err)
	}

	if err := p.orders.MarkCaptured(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}
