package order

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	GetByMerchantReference(ctx context.Context, merchantReference string) (*Order, error)

	// SetPaymentState applies a guarded transition and reports whether a row
	// actually changed. The WHERE clause makes reapplying the same state a
	// no-op at the database level, independent of what the caller checked.
	SetPaymentState(ctx context.Context, merchantReference string, state PaymentState, pspReference string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByMerchantReference(ctx context.Context, merchantReference string) (*Order, error) {
	const q = `
		SELECT id, merchant_reference, payment_state, total_amount, currency, psp_reference, created_at, updated_at
		FROM orders
		WHERE merchant_reference = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, q, merchantReference).Scan(
		&o.ID,
		&o.MerchantReference,
		&o.PaymentState,
		&o.TotalAmount,
		&o.Currency,
		&o.PSPReference,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) SetPaymentState(ctx context.Context, merchantReference string, state PaymentState, pspReference string) (bool, error) {
	const q = `
		UPDATE orders
		SET payment_state = $2,
		    psp_reference = COALESCE(NULLIF($3, ''), psp_reference),
		    updated_at = now()
		WHERE merchant_reference = $1
		  AND payment_state <> $2
	`

	res, err := r.db.ExecContext(ctx, q, merchantReference, string(state), pspReference)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
