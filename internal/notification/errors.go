package notification

import "fmt"

// InvalidPayloadError means the webhook body could not be decoded at all.
// It maps to a 400 response so the provider knows the delivery is unusable.
type InvalidPayloadError struct {
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return "invalid notification payload: " + e.Reason
}

func invalidPayload(format string, args ...any) error {
	return &InvalidPayloadError{Reason: fmt.Sprintf(format, args...)}
}

// AuthorizationError means the batch failed the authenticity check.
// Nothing is persisted when this is returned; it maps to a 401 response.
type AuthorizationError struct {
	MerchantAccount string
	Reason          string
}

func (e *AuthorizationError) Error() string {
	if e.MerchantAccount == "" {
		return "notification authorization failed: " + e.Reason
	}
	return fmt.Sprintf("notification authorization failed for %s: %s", e.MerchantAccount, e.Reason)
}

// ProcessingError wraps the cause of a per-item processing failure.
// It never reaches the HTTP layer; the item is marked FAILED instead.
type ProcessingError struct {
	Processor string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processor %s: %v", e.Processor, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
