package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/elevateforhumanity/elevate/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com/v1"

// PaymentLinkRequest describes the checkout link to create.
type PaymentLinkRequest struct {
	EnrollmentID uint
	UserID       uint
	ProgramSlug  string
	Amount       float64
	Description  string
}

// PaymentLinkResult is the provider's answer.
type PaymentLinkResult struct {
	ProviderLinkID string
	URL            string
}

// StripeClient is a minimal HTTP client for the Stripe payment-link API. It
// only covers what the billing service needs; charges and refunds stay with
// the external checkout integration.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string
	SiteURL    string

	HTTPClient *http.Client
}

// NewStripeClientFromEnv builds a client from STRIPE_* environment values.
func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		SiteURL:    strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "https://www.elevateforhumanity.org"), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreatePaymentLink creates a hosted Stripe payment link for a single
// tuition line item. Amounts are converted to cents.
func (c *StripeClient) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLinkResult, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}
	if req.Amount <= 0 {
		return nil, errors.New("a positive amount is required")
	}

	form := url.Values{}
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][product_data][name]", "Weekly Tuition Payment")
	if desc := strings.TrimSpace(req.Description); desc != "" {
		form.Set("line_items[0][price_data][product_data][description]", desc)
	}
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(int(roundDollars(req.Amount*100))))
	form.Set("line_items[0][quantity]", "1")
	form.Set("after_completion[type]", "redirect")
	form.Set("after_completion[redirect][url]", c.SiteURL+"/apprentice?payment=success")
	form.Set("metadata[type]", "weekly_payment")
	form.Set("metadata[enrollment_id]", strconv.FormatUint(uint64(req.EnrollmentID), 10))
	form.Set("metadata[user_id]", strconv.FormatUint(uint64(req.UserID), 10))
	form.Set("metadata[program_slug]", req.ProgramSlug)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/payment_links", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe payment link creation failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" || strings.TrimSpace(out.URL) == "" {
		return nil, errors.New("stripe payment link response missing id or url")
	}
	return &PaymentLinkResult{ProviderLinkID: out.ID, URL: out.URL}, nil
}
