package controllers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/database"
	"github.com/elevateforhumanity/elevate/internal/pkg/env"
	"github.com/elevateforhumanity/elevate/internal/pkg/usercontext"
	"github.com/elevateforhumanity/elevate/internal/pkg/vendors"
)

var (
	billingSvc   *billing.Service
	provisionSvc *vendors.ProvisionService
)

// InitializeBillingController wires the billing service and the vendor
// provisioning service. Called once from the router during startup.
func InitializeBillingController() {
	db := database.GetDB()
	billingSvc = billing.NewServiceFromDB(db, billing.NewStripeClientFromEnv())
	provisionSvc = vendors.NewProvisionService(db, vendors.NewMiladyClientFromEnv())
}

func billingService() *billing.Service {
	if billingSvc == nil {
		InitializeBillingController()
	}
	return billingSvc
}

// HandleRequestPaymentLink issues a hosted checkout link for the student's
// next weekly payment.
func HandleRequestPaymentLink(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	slug := c.Params("slug")

	plan, err := billingService().GetStudentPaymentPlan(c.Context(), userID, slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No enrollment found"})
	}
	if plan.Status == billing.PlanStatusPaidInFull {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "paid_in_full", "message": "Nothing left to pay"})
	}
	if plan.WeeklyPaymentAmount <= 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no_plan", "message": "No payment plan established yet"})
	}

	link, err := billingService().IssuePaymentLink(c.Context(), plan.EnrollmentID, plan.WeeklyPaymentAmount, models.PaymentTypeWeekly)
	if err != nil {
		log.Printf("payment link for enrollment %d failed: %v", plan.EnrollmentID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "provider_error", "message": "Could not create payment link"})
	}
	return c.JSON(fiber.Map{"url": link.URL, "amount": link.Amount, "expires_at": link.ExpiresAt})
}

// HandleStripeWebhook ingests payment processor events. Signature-verified,
// idempotent via the webhook event table.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	signatureValid := billing.VerifyStripeWebhookSignature(payload, c.Get("Stripe-Signature"), secret)
	if !signatureValid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	event, err := billing.ParseStripeWebhookPaymentEvent(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload", "message": err.Error()})
	}

	created, stored, err := billingService().RecordWebhookEvent(c.Context(), billing.WebhookEventInput{
		Provider:        models.PaymentProviderStripe,
		ProviderEventID: event.EventID,
		EventType:       event.EventType,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	if !created {
		// Duplicate delivery, already handled.
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	processErr := processStripePaymentEvent(c.Context(), event)
	if err := billingService().MarkWebhookProcessed(c.Context(), stored.ID, processErr); err != nil {
		log.Printf("marking webhook %d processed failed: %v", stored.ID, err)
	}
	if processErr != nil {
		log.Printf("stripe event %s failed: %v", event.EventID, processErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing_failed"})
	}
	return c.JSON(fiber.Map{"received": true})
}

func processStripePaymentEvent(ctx context.Context, event *billing.StripeWebhookPaymentEvent) error {
	switch event.EventType {
	case "checkout.session.completed", "payment_intent.succeeded":
	default:
		// Ignore event types we do not act on.
		return nil
	}
	if event.EnrollmentID == 0 || event.AmountDollars <= 0 {
		return nil
	}

	payment, err := billingService().RecordPayment(ctx, billing.PaymentInput{
		EnrollmentID:      event.EnrollmentID,
		Amount:            event.AmountDollars,
		Type:              event.PaymentType,
		Provider:          models.PaymentProviderStripe,
		ProviderPaymentID: event.ProviderPaymentID,
		Status:            models.PaymentStatusCompleted,
	})
	if err != nil {
		return err
	}

	// A completed setup fee triggers the vendor curriculum purchase.
	if payment.Type == models.PaymentTypeSetupFee || payment.Type == models.PaymentTypePayInFull {
		enrollment, err := repository.GetGlobalFactory().GetEnrollmentRepository().GetByID(event.EnrollmentID)
		if err != nil {
			return err
		}
		if _, err := provisionSvc.ProvisionCurriculum(ctx, enrollment.User, enrollment.Program, payment.ID); err != nil {
			// The student's payment stands; vendor issues go to the manual queue.
			log.Printf("vendor provisioning for enrollment %d failed: %v", enrollment.ID, err)
		}
	}
	return nil
}
