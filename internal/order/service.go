package order

import (
	"context"

	"adyen-notify-be/internal/logger"

	"go.uber.org/zap"
)

// Service is the payment-state surface the notification processors call.
// Every transition is idempotent: marking an order with a state it already
// holds is a safe no-op, since the same logical event may arrive again
// through a different delivery path.
type Service interface {
	GetByMerchantReference(ctx context.Context, merchantReference string) (*Order, error)
	MarkAuthorized(ctx context.Context, merchantReference, pspReference string) error
	MarkAuthorizationFailed(ctx context.Context, merchantReference, pspReference string) error
	MarkCaptured(ctx context.Context, merchantReference, pspReference string) error
	MarkRefunded(ctx context.Context, merchantReference, pspReference string) error
	MarkRefundFailed(ctx context.Context, merchantReference, pspReference string) error
	MarkCanceled(ctx context.Context, merchantReference, pspReference string) error
	MarkChargedBack(ctx context.Context, merchantReference, pspReference string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByMerchantReference(ctx context.Context, merchantReference string) (*Order, error) {
	return s.repo.GetByMerchantReference(ctx, merchantReference)
}

func (s *service) MarkAuthorized(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateAuthorized)
}

func (s *service) MarkAuthorizationFailed(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateFailed)
}

func (s *service) MarkCaptured(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateCaptured)
}

func (s *service) MarkRefunded(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateRefunded)
}

// MarkRefundFailed reverts a refund: the money stays with the merchant, so
// the order goes back to CAPTURED. Anything not currently REFUNDED is left
// alone; the refund this event reverts was never applied here.
func (s *service) MarkRefundFailed(ctx context.Context, merchantReference, pspReference string) error {
	o, err := s.repo.GetByMerchantReference(ctx, merchantReference)
	if err != nil {
		return err
	}
	if o.PaymentState != PaymentStateRefunded {
		logger.FromCtx(ctx).Info("refund failure ignored, order not refunded",
			zap.String("merchant_reference", merchantReference),
			zap.String("payment_state", string(o.PaymentState)),
		)
		return nil
	}

	_, err = s.repo.SetPaymentState(ctx, merchantReference, PaymentStateCaptured, pspReference)
	return err
}

func (s *service) MarkCanceled(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateCanceled)
}

func (s *service) MarkChargedBack(ctx context.Context, merchantReference, pspReference string) error {
	return s.transition(ctx, merchantReference, pspReference, PaymentStateChargedBack)
}

func (s *service) transition(ctx context.Context, merchantReference, pspReference string, target PaymentState) error {
	log := logger.FromCtx(ctx).With(
		zap.String("merchant_reference", merchantReference),
		zap.String("target_state", string(target)),
	)

	o, err := s.repo.GetByMerchantReference(ctx, merchantReference)
	if err != nil {
		return err
	}

	if o.PaymentState == target {
		log.Info("order already in target state")
		return nil
	}

	applied, err := s.repo.SetPaymentState(ctx, merchantReference, target, pspReference)
	if err != nil {
		return err
	}
	if !applied {
		// lost the race against a concurrent delivery of the same event
		log.Info("payment state already applied")
		return nil
	}

	log.Info("order payment state updated", zap.String("previous_state", string(o.PaymentState)))
	return nil
}
