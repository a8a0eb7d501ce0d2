package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elevateforhumanity/elevate/internal/pkg/env"
)

const defaultMiladyAPIBaseURL = "https://api.miladytraining.com/v1"

// MiladyClient purchases curriculum licenses from the Milady RISE API.
type MiladyClient struct {
	APIKey     string
	APIBaseURL string

	HTTPClient *http.Client
}

// MiladyPurchaseRequest describes one license purchase.
type MiladyPurchaseRequest struct {
	ProgramSlug  string  `json:"program_slug"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email"`
	Amount       float64 `json:"amount"`
}

// MiladyPurchaseResponse is the vendor's confirmation with the license code.
type MiladyPurchaseResponse struct {
	OrderID     string `json:"order_id"`
	LicenseCode string `json:"license_code"`
	Status      string `json:"status"`
}

// ErrMiladyNotConfigured is returned when no API key is set; callers fall
// back to the manual purchase queue.
var ErrMiladyNotConfigured = errors.New("MILADY_API_KEY is not configured")

func NewMiladyClientFromEnv() *MiladyClient {
	return &MiladyClient{
		APIKey:     strings.TrimSpace(env.GetEnv("MILADY_API_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("MILADY_API_BASE_URL", defaultMiladyAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PurchaseLicense buys one curriculum seat. The vendor responds with a
// license code that is later assigned to the student.
func (c *MiladyClient) PurchaseLicense(ctx context.Context, req MiladyPurchaseRequest) (*MiladyPurchaseResponse, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, ErrMiladyNotConfigured
	}
	if strings.TrimSpace(req.StudentEmail) == "" {
		return nil, errors.New("student email is required")
	}
	if strings.TrimSpace(req.ProgramSlug) == "" {
		return nil, errors.New("program slug is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/licenses/purchase", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("milady license purchase failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out MiladyPurchaseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.LicenseCode) == "" {
		return nil, errors.New("milady purchase returned empty license_code")
	}
	return &out, nil
}
