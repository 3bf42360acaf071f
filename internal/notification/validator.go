package notification

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"adyen-notify-be/internal/credentials"
)

// AuthorizationValidator checks webhook authenticity before anything is
// persisted: the request's basic-auth pair against the configured merchant
// credentials, plus the per-item HMAC signature when the merchant has a key.
type AuthorizationValidator struct {
	store credentials.Store
}

func NewAuthorizationValidator(store credentials.Store) *AuthorizationValidator {
	return &AuthorizationValidator{store: store}
}

// Validate returns an AuthorizationError when any item fails the check.
// An empty batch is valid.
func (v *AuthorizationValidator) Validate(ctx context.Context, auth BasicAuth, items []Item) error {
	for _, item := range items {
		creds, err := v.store.Fetch(ctx, item.MerchantAccount)
		if err != nil {
			if errors.Is(err, credentials.ErrNotFound) {
				return &AuthorizationError{MerchantAccount: item.MerchantAccount, Reason: "unknown merchant account"}
			}
			return err
		}
		if !creds.Active {
			return &AuthorizationError{MerchantAccount: item.MerchantAccount, Reason: "credentials disabled"}
		}

		if subtle.ConstantTimeCompare([]byte(creds.Username), []byte(auth.Username)) != 1 ||
			!creds.VerifyPassword(auth.Password) {
			return &AuthorizationError{MerchantAccount: item.MerchantAccount, Reason: "invalid credentials"}
		}

		if creds.HMACKey != "" {
			if err := verifyHMAC(creds.HMACKey, item); err != nil {
				return &AuthorizationError{MerchantAccount: item.MerchantAccount, Reason: err.Error()}
			}
		}
	}

	return nil
}

// verifyHMAC recomputes the provider signature over the item's signing
// string (SHA-256, hex key, base64 output) and compares it to the one
// carried in additionalData.
func verifyHMAC(hexKey string, item Item) error {
	signature := item.HMACSignature()
	if signature == "" {
		return errors.New("missing hmac signature")
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return errors.New("malformed hmac key")
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(signingString(item)))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("invalid hmac signature")
	}
	return nil
}

func signingString(item Item) string {
	success := "false"
	if item.Success {
		success = "true"
	}

	parts := []string{
		item.PSPReference,
		item.OriginalReference,
		item.MerchantAccount,
		item.MerchantReference,
		strconv.FormatInt(item.Amount.Value, 10),
		item.Amount.Currency,
		string(item.EventCode),
		success,
	}
	for i, p := range parts {
		parts[i] = escapeSigningPart(p)
	}
	return strings.Join(parts, ":")
}

// the provider escapes backslashes and colons inside signed values
func escapeSigningPart(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, ":", `\:`)
}
