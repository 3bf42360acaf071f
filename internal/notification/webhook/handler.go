package webhook

import (
	"errors"
	"io"
	"net/http"

	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/metrics"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/utils"

	"go.uber.org/zap"
)

// Handler is the request-scoped entry point of the notification pipeline:
// parse, authorize, store exactly once, dispatch, acknowledge.
type Handler struct {
	parser     *notification.Parser
	validator  *notification.AuthorizationValidator
	repo       notification.Repository
	dispatcher *notification.Dispatcher
	stats      *metrics.WebhookStats
}

func NewHandler(
	parser *notification.Parser,
	validator *notification.AuthorizationValidator,
	repo notification.Repository,
	dispatcher *notification.Dispatcher,
) *Handler {
	return &Handler{
		parser:     parser,
		validator:  validator,
		repo:       repo,
		dispatcher: dispatcher,
		stats:      &metrics.WebhookStats{},
	}
}

// Stats exposes pipeline counters, e.g. for a shutdown summary.
func (h *Handler) Stats() *metrics.WebhookStats {
	return h.stats
}

// HandleNotifications serves POST /webhook/adyen.
//
// Only payload-shape and credential failures produce non-200 responses.
// Once parsing and authorization succeed the batch is acknowledged with
// "[accepted]" no matter how individual items fare, because the provider
// redelivers the whole batch on anything else.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)
	timer := metrics.StartTimer()
	h.stats.Batches.Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.stats.Rejected.Inc()
		log.Warn("failed to read webhook body", zap.Error(err))
		notification.BadRequest("unreadable body").Write(w)
		return
	}
	defer r.Body.Close()

	items, err := h.parser.Parse(body)
	if err != nil {
		h.stats.Rejected.Inc()
		log.Warn("rejecting webhook payload", zap.Error(err))
		notification.BadRequest(err.Error()).Write(w)
		return
	}

	username, password, _ := r.BasicAuth()
	auth := notification.BasicAuth{Username: username, Password: password}

	if err := h.validator.Validate(ctx, auth, items); err != nil {
		h.stats.Rejected.Inc()
		var authErr *notification.AuthorizationError
		if errors.As(err, &authErr) {
			log.Warn("unauthorized webhook call", zap.Error(err))
			notification.Unauthorized(authErr.Error()).Write(w)
			return
		}
		// credential store outage: no side effects happened, a 400 makes
		// the provider redeliver later
		log.Error("credential check failed", zap.Error(err))
		notification.BadRequest("credential check failed").Write(w)
		return
	}

	for _, item := range items {
		h.stats.Received.Inc()
		h.handleItem(r, item)
	}

	log.Info("notification batch acknowledged",
		zap.Int("item_count", len(items)),
		zap.Duration("duration_ms", timer.Duration()),
	)
	notification.Accepted().Write(w)
}

// handleItem stores and dispatches a single item. Nothing here may fail the
// batch: errors are logged and reflected in the stored record only.
func (h *Handler) handleItem(r *http.Request, item notification.Item) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("psp_reference", utils.RemoveNonWord(item.PSPReference, "_")),
		zap.String("event_code", utils.RemoveNonWord(string(item.EventCode), "_")),
	)

	stored, err := h.repo.StoreIfNew(ctx, item)
	if err != nil {
		h.stats.Failed.Inc()
		log.Error("failed to store notification", zap.Error(err))
		return
	}
	if stored == nil {
		h.stats.Duplicates.Inc()
		log.Info("duplicate notification, skipping dispatch")
		return
	}

	result := h.dispatcher.Dispatch(ctx, stored)
	switch result.Status {
	case notification.StatusProcessed:
		h.stats.Processed.Inc()
	case notification.StatusFailed:
		h.stats.Failed.Inc()
	}
	if result.Err != nil {
		log.Error("dispatch bookkeeping error", zap.Error(result.Err))
	}
}
