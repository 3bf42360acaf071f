package notification

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const itemsKey = "notificationItems"

// wire shapes of the provider webhook body
type notificationItemWrapper struct {
	NotificationRequestItem json.RawMessage `json:"NotificationRequestItem"`
}

type notificationRequestItem struct {
	EventCode           string `json:"eventCode"`
	PSPReference        string `json:"pspReference"`
	OriginalReference   string `json:"originalReference"`
	MerchantReference   string `json:"merchantReference"`
	MerchantAccountCode string `json:"merchantAccountCode"`
	Success             string `json:"success"`
	EventDate           string `json:"eventDate"`
	Amount              struct {
		Value    int64  `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
	AdditionalData map[string]string `json:"additionalData"`
}

// Parser decodes a raw webhook body into notification items.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the decoded items, or an InvalidPayloadError when the body
// is empty or not a JSON object. A body without the notificationItems key is
// the provider's no-op ping and yields an empty slice, not an error.
func (p *Parser) Parse(rawBody []byte) ([]Item, error) {
	if len(bytes.TrimSpace(rawBody)) == 0 {
		return nil, invalidPayload("missing body")
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, invalidPayload("invalid body")
	}
	// json.Unmarshal leaves the map nil for a literal "null" without erroring
	if body == nil {
		return nil, invalidPayload("invalid body")
	}

	rawItems, ok := body[itemsKey]
	if !ok {
		return nil, nil
	}

	var wrappers []notificationItemWrapper
	if err := json.Unmarshal(rawItems, &wrappers); err != nil {
		return nil, invalidPayload("%s is not a list", itemsKey)
	}

	now := time.Now().UTC()
	items := make([]Item, 0, len(wrappers))
	for i, w := range wrappers {
		if len(w.NotificationRequestItem) == 0 {
			return nil, invalidPayload("item %d missing NotificationRequestItem", i)
		}

		var raw notificationRequestItem
		if err := json.Unmarshal(w.NotificationRequestItem, &raw); err != nil {
			return nil, invalidPayload("item %d is malformed", i)
		}
		if raw.EventCode == "" {
			return nil, invalidPayload("item %d missing eventCode", i)
		}
		if raw.PSPReference == "" {
			return nil, invalidPayload("item %d missing pspReference", i)
		}

		items = append(items, Item{
			EventCode:         EventCode(raw.EventCode),
			PSPReference:      raw.PSPReference,
			OriginalReference: raw.OriginalReference,
			MerchantReference: raw.MerchantReference,
			MerchantAccount:   raw.MerchantAccountCode,
			Success:           strings.EqualFold(raw.Success, "true"),
			Amount: Amount{
				Value:    raw.Amount.Value,
				Currency: raw.Amount.Currency,
			},
			EventDate:      raw.EventDate,
			AdditionalData: raw.AdditionalData,
			Raw:            w.NotificationRequestItem,
			ReceivedAt:     now,
		})
	}

	return items, nil
}
