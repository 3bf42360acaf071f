package notification

import (
	"encoding/json"
	"time"
)

// EventCode identifies the kind of payment event a notification reports.
type EventCode string

const (
	EventAuthorisation EventCode = "AUTHORISATION"
	EventCapture       EventCode = "CAPTURE"
	EventRefund        EventCode = "REFUND"
	EventRefundFailed  EventCode = "REFUND_FAILED"
	EventCancellation  EventCode = "CANCELLATION"
	EventChargeback    EventCode = "CHARGEBACK"
)

// Amount is a monetary value in minor units (cents).
type Amount struct {
	Value    int64
	Currency string
}

// Item is one decoded notification from a webhook batch. It is immutable
// once parsed; the raw provider payload is kept verbatim for persistence.
type Item struct {
	EventCode         EventCode
	PSPReference      string
	OriginalReference string
	MerchantReference string
	MerchantAccount   string
	Success           bool
	Amount            Amount
	EventDate         string
	AdditionalData    map[string]string
	Raw               json.RawMessage
	ReceivedAt        time.Time
}

// HMACSignature returns the provider-calculated signature carried in
// additionalData, or "" when the item is unsigned.
func (i Item) HMACSignature() string {
	return i.AdditionalData["hmacSignature"]
}

type Status string

const (
	StatusReceived  Status = "RECEIVED"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
)

// StoredNotification is the durable record wrapping an Item.
// Status moves RECEIVED -> PROCESSED or RECEIVED -> FAILED, never back.
type StoredNotification struct {
	ID          int64
	Item        Item
	Status      Status
	Note        string
	ErrorDetail string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}

// BasicAuth is the credential pair the provider sends with each webhook call.
type BasicAuth struct {
	Username string
	Password string
}
