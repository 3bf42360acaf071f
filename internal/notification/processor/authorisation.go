package processor

import (
	"context"

	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/order"

	"go.uber.org/zap"
)

// Authorisation handles AUTHORISATION events: a successful one moves the
// order to AUTHORIZED, a declined one to FAILED.
type Authorisation struct {
	orders order.Service
}

func NewAuthorisation(orders order.Service) *Authorisation {
	return &Authorisation{orders: orders}
}

func (p *Authorisation) Name() string {
	return "authorisation"
}

func (p *Authorisation) Handles(code notification.EventCode) bool {
	return code == notification.EventAuthorisation
}

func (p *Authorisation) Process(ctx context.Context, item notification.Item) error {
	if !item.Success {
		logger.FromCtx(ctx).Info("authorisation declined",
			zap.String("merchant_reference", item.MerchantReference),
			zap.String("psp_reference", item.PSPReference),
		)
		if err := p.orders.MarkAuthorizationFailed(ctx, item.MerchantReference, item.PSPReference); err != nil {
			return failure(p.Name(), err)
		}
		return nil
	}

	if _, err := verifyOrderAmount(ctx, p.orders, item); err != nil {
		return failure(p.Name(), err)
	}

	if err := p.orders.MarkAuthorized(ctx, item.MerchantReference, item.PSPReference); err != nil {
		return failure(p.Name(), err)
	}
	return nil
}
