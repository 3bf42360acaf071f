package notification

import (
	"context"

	"adyen-notify-be/internal/logger"

	"go.uber.org/zap"
)

// LogHook writes an audit line for every notification passing through the
// dispatcher. Registered pre-dispatch it records receipt, post-dispatch it
// records the final status.
type LogHook struct {
	Stage string
}

func NewLogHook(stage string) *LogHook {
	return &LogHook{Stage: stage}
}

func (h *LogHook) Notify(ctx context.Context, stored *StoredNotification) {
	logger.FromCtx(ctx).Debug("notification "+h.Stage,
		zap.Int64("notification_id", stored.ID),
		zap.String("event_code", string(stored.Item.EventCode)),
		zap.String("merchant_reference", stored.Item.MerchantReference),
		zap.String("status", string(stored.Status)),
	)
}
