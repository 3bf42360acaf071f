package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"adyen-notify-be/internal/logger"

	"go.uber.org/zap"
)

// Repository owns StoredNotification persistence. StoreIfNew is the
// idempotency boundary: duplicate deliveries of the same logical event must
// never produce a second record, even across concurrent server instances.
type Repository interface {
	StoreIfNew(ctx context.Context, item Item) (*StoredNotification, error)
	MarkProcessed(ctx context.Context, id int64, note string) error
	MarkFailed(ctx context.Context, id int64, detail string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// StoreIfNew atomically inserts the item keyed by (psp_reference, event_code,
// merchant_reference). A plain read-then-write would race with redelivery on
// another instance, so the unique constraint does the coordination.
//
// Returns nil when an existing record already reached a terminal state.
// An existing record still in RECEIVED is returned so that a delivery that
// crashed mid-processing can be completed by the redelivery.
func (r *repository) StoreIfNew(ctx context.Context, item Item) (*StoredNotification, error) {
	const insert = `
	INSERT INTO stored_notifications (
		psp_reference,
		event_code,
		merchant_reference,
		merchant_account,
		success,
		amount_value,
		amount_currency,
		payload,
		status,
		received_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (psp_reference, event_code, merchant_reference)
	DO NOTHING
	RETURNING id;
	`

	receivedAt := item.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		insert,
		item.PSPReference,
		string(item.EventCode),
		item.MerchantReference,
		item.MerchantAccount,
		item.Success,
		item.Amount.Value,
		item.Amount.Currency,
		[]byte(item.Raw),
		string(StatusReceived),
		receivedAt,
	).Scan(&id)

	if err == nil {
		return &StoredNotification{
			ID:         id,
			Item:       item,
			Status:     StatusReceived,
			ReceivedAt: receivedAt,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Conflict path: the record exists, decide by its status.
	const lookup = `
	SELECT id, status, received_at
	FROM stored_notifications
	WHERE psp_reference = $1 AND event_code = $2 AND merchant_reference = $3;
	`

	var existing StoredNotification
	var status string
	err = r.db.QueryRowContext(ctx, lookup, item.PSPReference, string(item.EventCode), item.MerchantReference).
		Scan(&existing.ID, &status, &existing.ReceivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// record vanished between insert and lookup; retention is external,
		// treat as already handled
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if Status(status) != StatusReceived {
		logger.FromCtx(ctx).Debug("duplicate notification ignored",
			zap.String("psp_reference", item.PSPReference),
			zap.String("event_code", string(item.EventCode)),
		)
		return nil, nil
	}

	existing.Item = item
	existing.Status = StatusReceived
	return &existing, nil
}

// MarkProcessed finalizes a RECEIVED record. Terminal records are left
// untouched, which keeps the transition one-way under concurrent redelivery.
func (r *repository) MarkProcessed(ctx context.Context, id int64, note string) error {
	const q = `
	UPDATE stored_notifications
	SET status = $2, note = NULLIF($3, ''), processed_at = now()
	WHERE id = $1 AND status = $4;
	`

	_, err := r.db.ExecContext(ctx, q, id, string(StatusProcessed), note, string(StatusReceived))
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id int64, detail string) error {
	const q = `
	UPDATE stored_notifications
	SET status = $2, error_detail = $3, processed_at = now()
	WHERE id = $1 AND status = $4;
	`

	_, err := r.db.ExecContext(ctx, q, id, string(StatusFailed), detail, string(StatusReceived))
	return err
}
