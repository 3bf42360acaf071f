package processor

import (
	"context"

	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"

	"go.uber.org/zap"
)

// Refund handles REFUND events. Amounts are not cross-checked here because
// refunds may be partial; the unsuccessful case is covered by the separate
// REFUND_FAILED event.
type Refund struct {
	orders order.Service
}

func NewRefund(orders order.Service) *Refund {
	return &Refund{orders: orders}
}

func (p *Refund) Name() string {
	return "refund"
}

func (p *Refund) Handles(code notification.EventCode) bool {
	return code == notification.EventRefund
}

func (p *Refund) Process(ctx context.Context, item notification.Item) error {
	if !item.Success {
		logger.FromCtx(ctx).Warn("refund unsuccessful, awaiting REFUND_FAILED",
			zap.String("merchant_reference", item.MerchantReference),
			zap.String("psp_reference", item.PSPReference),
		)
		return nil
	}

	if err := p.orders.MarkRefunded(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}

// RefundFailed handles REFUND_FAILED events, sent when a previously
// acknowledged refund could not be completed by the schemes.
type RefundFailed struct {
	orders order.Service
}

func NewRefundFailed(orders order.Service) *RefundFailed {
	return &RefundFailed{orders: orders}
}

func (p *RefundFailed) Name() string {
	return "refund_failed"
}

func (p *RefundFailed) Handles(code notification.EventCode) bool {
	return code == notification.EventRefundFailed
}

func (p *RefundFailed) Process(ctx context.Context, item notification.Item) error {
	if err := p.orders.MarkRefundFailed(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}
