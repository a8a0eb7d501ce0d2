package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StripeWebhookPaymentEvent is the normalized payment fact extracted from a
// processor webhook payload.
type StripeWebhookPaymentEvent struct {
	EventID           string
	EventType         string
	ProviderPaymentID string
	AmountDollars     float64
	EnrollmentID      uint
	PaymentType       string
}

// VerifyStripeWebhookSignature checks a Stripe-Signature header
// ("t=<ts>,v1=<hex>") against the payload. The signed message is
// "<ts>.<payload>" with HMAC-SHA256.
func VerifyStripeWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	header := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if header == "" || secret == "" {
		return false
	}

	var timestamp string
	var signatures [][]byte
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			if sig, err := hex.DecodeString(strings.ToLower(kv[1])); err == nil {
				signatures = append(signatures, sig)
			}
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return true
		}
	}
	return false
}

// ParseStripeWebhookPaymentEvent extracts the payment fact from a
// checkout.session.completed or payment_intent.succeeded payload. Amounts
// arrive in cents.
func ParseStripeWebhookPaymentEvent(payload []byte) (*StripeWebhookPaymentEvent, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID          string `json:"id"`
				Amount      int64  `json:"amount"`
				AmountTotal int64  `json:"amount_total"`
				Metadata    map[string]string `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw.Data.Object.ID) == "" {
		return nil, errors.New("stripe webhook payload missing object id")
	}

	cents := raw.Data.Object.AmountTotal
	if cents == 0 {
		cents = raw.Data.Object.Amount
	}

	out := &StripeWebhookPaymentEvent{
		EventID:           strings.TrimSpace(raw.ID),
		EventType:         strings.TrimSpace(raw.Type),
		ProviderPaymentID: strings.TrimSpace(raw.Data.Object.ID),
		AmountDollars:     float64(cents) / 100,
		PaymentType:       strings.TrimSpace(raw.Data.Object.Metadata["type"]),
	}
	if idStr := strings.TrimSpace(raw.Data.Object.Metadata["enrollment_id"]); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid enrollment_id metadata %q: %w", idStr, err)
		}
		out.EnrollmentID = uint(id)
	}
	return out, nil
}

func payloadHash(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
