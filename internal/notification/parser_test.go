package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	p := NewParser()

	t.Run("EmptyBody", func(t *testing.T) {
		_, err := p.Parse([]byte(""))
		assert.Error(t, err)
		assert.IsType(t, &InvalidPayloadError{}, err)

		_, err = p.Parse([]byte("   \n\t"))
		assert.Error(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := p.Parse([]byte("{not-json"))
		assert.Error(t, err)
		assert.IsType(t, &InvalidPayloadError{}, err)
	})

	t.Run("NonObjectBody", func(t *testing.T) {
		for _, body := range []string{`null`, `"ping"`, `[1,2,3]`, `42`} {
			_, err := p.Parse([]byte(body))
			assert.Error(t, err, "body %q should be rejected", body)
			assert.IsType(t, &InvalidPayloadError{}, err)
		}
	})

	t.Run("MissingItemsKey_IsEmptySuccess", func(t *testing.T) {
		items, err := p.Parse([]byte(`{"live":"false"}`))
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("NullItems_IsEmptySuccess", func(t *testing.T) {
		items, err := p.Parse([]byte(`{"notificationItems":null}`))
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ItemsNotAList", func(t *testing.T) {
		_, err := p.Parse([]byte(`{"notificationItems":"yes"}`))
		assert.Error(t, err)
		assert.IsType(t, &InvalidPayloadError{}, err)
	})

	t.Run("SingleItem", func(t *testing.T) {
		body := `{
			"live": "false",
			"notificationItems": [
				{
					"NotificationRequestItem": {
						"eventCode": "AUTHORISATION",
						"pspReference": "X1",
						"merchantReference": "order-1",
						"merchantAccountCode": "TestMerchant",
						"success": "true",
						"eventDate": "2024-01-01T10:00:00+01:00",
						"amount": {"value": 15000, "currency": "EUR"},
						"additionalData": {"hmacSignature": "sig=="}
					}
				}
			]
		}`

		items, err := p.Parse([]byte(body))
		require.NoError(t, err)
		require.Len(t, items, 1)

		item := items[0]
		assert.Equal(t, EventAuthorisation, item.EventCode)
		assert.Equal(t, "X1", item.PSPReference)
		assert.Equal(t, "order-1", item.MerchantReference)
		assert.Equal(t, "TestMerchant", item.MerchantAccount)
		assert.True(t, item.Success)
		assert.Equal(t, int64(15000), item.Amount.Value)
		assert.Equal(t, "EUR", item.Amount.Currency)
		assert.Equal(t, "sig==", item.HMACSignature())
		assert.NotEmpty(t, item.Raw)
		assert.False(t, item.ReceivedAt.IsZero())
	})

	t.Run("SuccessFlagVariants", func(t *testing.T) {
		body := `{"notificationItems":[
			{"NotificationRequestItem":{"eventCode":"CAPTURE","pspReference":"A","success":"TRUE"}},
			{"NotificationRequestItem":{"eventCode":"CAPTURE","pspReference":"B","success":"false"}},
			{"NotificationRequestItem":{"eventCode":"CAPTURE","pspReference":"C"}}
		]}`

		items, err := p.Parse([]byte(body))
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.True(t, items[0].Success)
		assert.False(t, items[1].Success)
		assert.False(t, items[2].Success)
	})

	t.Run("MissingWrapperKey", func(t *testing.T) {
		_, err := p.Parse([]byte(`{"notificationItems":[{"SomethingElse":{}}]}`))
		assert.Error(t, err)
		assert.IsType(t, &InvalidPayloadError{}, err)
	})

	t.Run("MissingEventCode", func(t *testing.T) {
		_, err := p.Parse([]byte(`{"notificationItems":[{"NotificationRequestItem":{"pspReference":"X1"}}]}`))
		assert.Error(t, err)
	})

	t.Run("MissingPSPReference", func(t *testing.T) {
		_, err := p.Parse([]byte(`{"notificationItems":[{"NotificationRequestItem":{"eventCode":"REFUND"}}]}`))
		assert.Error(t, err)
	})

	t.Run("MultipleItemsKeepOrder", func(t *testing.T) {
		body := `{"notificationItems":[
			{"NotificationRequestItem":{"eventCode":"AUTHORISATION","pspReference":"P1","merchantReference":"o1","success":"true"}},
			{"NotificationRequestItem":{"eventCode":"CAPTURE","pspReference":"P2","merchantReference":"o1","success":"true"}}
		]}`

		items, err := p.Parse([]byte(body))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "P1", items[0].PSPReference)
		assert.Equal(t, "P2", items[1].PSPReference)
	})
}
