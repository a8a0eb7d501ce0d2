package vendors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testPurchaseRequest() MiladyPurchaseRequest {
	return MiladyPurchaseRequest{
		ProgramSlug:  "barber-apprenticeship",
		StudentName:  "Jordan Smith",
		StudentEmail: "jordan@example.com",
		Amount:       295,
	}
}

func TestPurchaseLicense(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody MiladyPurchaseRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding purchase body: %v", err)
		}
		json.NewEncoder(w).Encode(MiladyPurchaseResponse{
			OrderID:     "ord_123",
			LicenseCode: "MILADY-ABC-123",
			Status:      "completed",
		})
	}))
	defer srv.Close()

	client := &MiladyClient{
		APIKey:     "test-key",
		APIBaseURL: srv.URL,
		HTTPClient: srv.Client(),
	}

	resp, err := client.PurchaseLicense(context.Background(), testPurchaseRequest())
	if err != nil {
		t.Fatalf("PurchaseLicense() error = %v", err)
	}
	if resp.LicenseCode != "MILADY-ABC-123" {
		t.Errorf("license code = %q", resp.LicenseCode)
	}
	if gotPath != "/licenses/purchase" {
		t.Errorf("request path = %q, want /licenses/purchase", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotBody.StudentEmail != "jordan@example.com" || gotBody.Amount != 295 {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestPurchaseLicenseWithoutAPIKey(t *testing.T) {
	client := &MiladyClient{HTTPClient: http.DefaultClient}

	_, err := client.PurchaseLicense(context.Background(), testPurchaseRequest())
	if !errors.Is(err, ErrMiladyNotConfigured) {
		t.Fatalf("PurchaseLicense() error = %v, want ErrMiladyNotConfigured", err)
	}
}

func TestPurchaseLicenseRejectsIncompleteRequest(t *testing.T) {
	client := &MiladyClient{APIKey: "test-key", HTTPClient: http.DefaultClient}

	req := testPurchaseRequest()
	req.StudentEmail = ""
	if _, err := client.PurchaseLicense(context.Background(), req); err == nil {
		t.Error("expected error for missing student email")
	}

	req = testPurchaseRequest()
	req.ProgramSlug = ""
	if _, err := client.PurchaseLicense(context.Background(), req); err == nil {
		t.Error("expected error for missing program slug")
	}
}

func TestPurchaseLicenseVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"insufficient_funds"}`))
	}))
	defer srv.Close()

	client := &MiladyClient{
		APIKey:     "test-key",
		APIBaseURL: srv.URL,
		HTTPClient: srv.Client(),
	}

	_, err := client.PurchaseLicense(context.Background(), testPurchaseRequest())
	if err == nil {
		t.Fatal("expected error for non-2xx vendor response")
	}
	if !strings.Contains(err.Error(), "status=402") {
		t.Errorf("error = %v, want status in message", err)
	}
}

func TestPurchaseLicenseEmptyLicenseCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MiladyPurchaseResponse{OrderID: "ord_123", Status: "completed"})
	}))
	defer srv.Close()

	client := &MiladyClient{
		APIKey:     "test-key",
		APIBaseURL: srv.URL,
		HTTPClient: srv.Client(),
	}

	if _, err := client.PurchaseLicense(context.Background(), testPurchaseRequest()); err == nil {
		t.Fatal("expected error for empty license_code")
	}
}
