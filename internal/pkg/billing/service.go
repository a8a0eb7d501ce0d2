package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment plan statuses derived for an enrollment.
const (
	PlanStatusCurrent    = "current"
	PlanStatusDue        = "due"
	PlanStatusOverdue    = "overdue"
	PlanStatusPaidInFull = "paid_in_full"
)

// overdueAfter is the grace period since the last completed payment before a
// weekly plan counts as overdue.
const overdueAfter = 7 * 24 * time.Hour

// PricingFor converts a program record into the calculator's pricing
// configuration.
func PricingFor(p *models.Program) ProgramPricing {
	return ProgramPricing{
		FullPrice:          p.FullPrice,
		TotalHoursRequired: p.TotalHoursRequired,
		VendorCost:         p.VendorCost,
	}
}

// StudentPaymentPlan is the full derived payment state of one enrollment.
type StudentPaymentPlan struct {
	EnrollmentID        uint      `json:"enrollment_id"`
	UserID              uint      `json:"user_id"`
	ProgramSlug         string    `json:"program_slug"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name"`
	HoursPerWeek        int       `json:"hours_per_week"`
	TransferHours       int       `json:"transfer_hours"`
	TotalPaid           float64   `json:"total_paid"`
	TotalOwed           float64   `json:"total_owed"`
	RemainingBalance    float64   `json:"remaining_balance"`
	WeeklyPaymentAmount float64   `json:"weekly_payment_amount"`
	WeeksRemaining      int       `json:"weeks_remaining"`
	LastPaymentAt       *time.Time `json:"last_payment_at,omitempty"`
	NextPaymentDue      time.Time `json:"next_payment_due"`
	Status              string    `json:"status"`
	Options             PaymentOptionsResult `json:"options"`
}

// ClockInCheck is the result of the payment gate in front of the timeclock.
type ClockInCheck struct {
	Allowed    bool    `json:"allowed"`
	Reason     string  `json:"reason,omitempty"`
	AmountDue  float64 `json:"amount_due,omitempty"`
	PaymentURL string  `json:"payment_url,omitempty"`
}

// PaymentInput is a normalized payment fact from the processor.
type PaymentInput struct {
	EnrollmentID      uint
	Amount            float64
	Type              string
	Provider          string
	ProviderPaymentID string
	Status            string
	PaidAt            *time.Time
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// PaymentLinkCreator issues hosted checkout links; implemented by the Stripe
// client and faked in tests.
type PaymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLinkResult, error)
}

// Service derives payment plans, enforces the payment gate and records
// payment facts against the enrollment tables.
type Service struct {
	repo  Repository
	links PaymentLinkCreator
	now   func() time.Time
}

// NewService creates a billing service from an injected repository. The link
// creator may be nil; gate checks then report amounts without a URL.
func NewService(repo Repository, links PaymentLinkCreator) *Service {
	return &Service{repo: repo, links: links, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, links PaymentLinkCreator) *Service {
	return NewService(NewRepository(db), links)
}

// GetStudentPaymentPlan derives the current payment state for a student's
// enrollment in a program.
func (s *Service) GetStudentPaymentPlan(ctx context.Context, userID uint, programSlug string) (*StudentPaymentPlan, error) {
	_ = ctx
	slug := strings.TrimSpace(programSlug)
	if userID == 0 || slug == "" {
		return nil, errors.New("user_id and program_slug are required")
	}

	enrollment, err := s.repo.GetEnrollmentByUserAndProgram(userID, slug)
	if err != nil {
		return nil, err
	}
	return s.planForEnrollment(enrollment)
}

func (s *Service) planForEnrollment(enrollment *models.Enrollment) (*StudentPaymentPlan, error) {
	program := enrollment.Program
	if program == nil {
		p, err := s.repo.GetProgramBySlug(enrollment.ProgramSlug)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", enrollment.ProgramSlug, err)
		}
		program = p
	}

	totalPaid, err := s.repo.SumCompletedPayments(enrollment.ID)
	if err != nil {
		return nil, err
	}

	hoursPerWeek, err := NewHoursPerWeek(enrollment.HoursPerWeek)
	if err != nil {
		hoursPerWeek = DefaultHoursPerWeek
	}

	plan := Unenrolled()
	if enrollment.PlanEstablished {
		plan = ActivePlan(enrollment.WeeklyPaymentAmount)
	}

	pricing := PricingFor(program)
	options := pricing.PaymentOptions(hoursPerWeek, enrollment.TransferHours, totalPaid, plan)

	var lastPaidAt *time.Time
	last, err := s.repo.LastCompletedPayment(enrollment.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if last != nil && last.PaidAt != nil {
		lastPaidAt = last.PaidAt
	}

	now := s.now()
	status := PlanStatusCurrent
	switch {
	case options.RemainingBalance <= 0:
		status = PlanStatusPaidInFull
	case s.isPaymentOverdue(lastPaidAt, now):
		status = PlanStatusOverdue
	case isPaymentDay(now):
		status = PlanStatusDue
	}

	result := &StudentPaymentPlan{
		EnrollmentID:        enrollment.ID,
		UserID:              enrollment.UserID,
		ProgramSlug:         enrollment.ProgramSlug,
		HoursPerWeek:        int(hoursPerWeek),
		TransferHours:       enrollment.TransferHours,
		TotalPaid:           totalPaid,
		TotalOwed:           pricing.FullPrice,
		RemainingBalance:    options.RemainingBalance,
		WeeklyPaymentAmount: options.WeeklyPayment,
		WeeksRemaining:      options.WeeksLeftToPay,
		LastPaymentAt:       lastPaidAt,
		NextPaymentDue:      nextFriday(now),
		Status:              status,
		Options:             options,
	}
	if enrollment.User != nil {
		result.Email = enrollment.User.Email
		result.FullName = enrollment.User.Name
	}
	return result, nil
}

// CanClockIn enforces the payment gate: overdue students cannot clock in
// until their weekly payment is made. When a link creator is configured, an
// overdue result carries a fresh payment link.
func (s *Service) CanClockIn(ctx context.Context, userID uint, programSlug string) (*ClockInCheck, error) {
	plan, err := s.GetStudentPaymentPlan(ctx, userID, programSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ClockInCheck{Allowed: false, Reason: "No active enrollment found"}, nil
		}
		return nil, err
	}

	if plan.Status != PlanStatusOverdue {
		return &ClockInCheck{Allowed: true}, nil
	}

	check := &ClockInCheck{
		Allowed:   false,
		Reason:    "Payment is overdue. Please complete your weekly payment to continue training.",
		AmountDue: plan.WeeklyPaymentAmount,
	}
	if s.links != nil {
		link, err := s.IssuePaymentLink(ctx, plan.EnrollmentID, plan.WeeklyPaymentAmount, models.PaymentTypeWeekly)
		if err == nil {
			check.PaymentURL = link.URL
		}
	}
	return check, nil
}

// EstablishPlan validates a proposed setup fee and, when valid, locks in the
// resulting weekly payment amount on the enrollment. Invalid fees are
// reported as data, not as an error.
func (s *Service) EstablishPlan(ctx context.Context, enrollmentID uint, customSetupFee float64) (CustomSetupFeeResult, error) {
	_ = ctx
	enrollment, err := s.repo.GetEnrollment(enrollmentID)
	if err != nil {
		return CustomSetupFeeResult{}, err
	}
	program := enrollment.Program
	if program == nil {
		if program, err = s.repo.GetProgramBySlug(enrollment.ProgramSlug); err != nil {
			return CustomSetupFeeResult{}, err
		}
	}

	hoursPerWeek, err := NewHoursPerWeek(enrollment.HoursPerWeek)
	if err != nil {
		return CustomSetupFeeResult{}, err
	}

	pricing := PricingFor(program)
	options := pricing.PaymentOptions(hoursPerWeek, enrollment.TransferHours, 0, Unenrolled())
	result := pricing.CustomSetupFee(customSetupFee, options.WeeksRemaining)
	if !result.IsValid {
		return result, nil
	}
	if enrollment.PlanEstablished {
		return result, errors.New("an installment plan is already established for this enrollment")
	}

	enrollment.EstablishPlan(result.WeeklyPayment)
	if err := s.repo.SaveEnrollment(enrollment); err != nil {
		return result, err
	}
	return result, nil
}

// RecordPayment persists a payment fact. Completed payments update the
// enrollment's setup-fee marker and flip the status to paid_in_full once the
// balance is retired.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*models.StudentPayment, error) {
	_ = ctx
	if in.EnrollmentID == 0 || in.Amount <= 0 {
		return nil, errors.New("enrollment_id and a positive amount are required")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.PaymentStatusCompleted
	}
	paymentType := strings.TrimSpace(in.Type)
	if paymentType == "" {
		paymentType = models.PaymentTypeWeekly
	}
	paidAt := in.PaidAt
	if paidAt == nil && status == models.PaymentStatusCompleted {
		now := s.now()
		paidAt = &now
	}

	enrollment, err := s.repo.GetEnrollment(in.EnrollmentID)
	if err != nil {
		return nil, err
	}

	payment := &models.StudentPayment{
		Reference:         uuid.NewString(),
		UserID:            enrollment.UserID,
		EnrollmentID:      enrollment.ID,
		Amount:            in.Amount,
		Type:              paymentType,
		Status:            status,
		ProviderPaymentID: strings.TrimSpace(in.ProviderPaymentID),
		PaidAt:            paidAt,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	if status != models.PaymentStatusCompleted {
		return payment, nil
	}

	if paymentType == models.PaymentTypeSetupFee && enrollment.SetupFeePaid == 0 {
		enrollment.SetupFeePaid = in.Amount
	}

	program := enrollment.Program
	if program == nil {
		program, _ = s.repo.GetProgramBySlug(enrollment.ProgramSlug)
	}
	if program != nil {
		totalPaid, err := s.repo.SumCompletedPayments(enrollment.ID)
		if err == nil && totalPaid >= program.FullPrice {
			enrollment.Status = models.EnrollmentStatusPaidInFull
		}
	}
	if err := s.repo.SaveEnrollment(enrollment); err != nil {
		return payment, err
	}
	return payment, nil
}

// IssuePaymentLink creates a hosted checkout link for an enrollment and
// records it.
func (s *Service) IssuePaymentLink(ctx context.Context, enrollmentID uint, amount float64, linkType string) (*models.PaymentLink, error) {
	if s.links == nil {
		return nil, errors.New("no payment link provider configured")
	}
	if amount <= 0 {
		return nil, errors.New("a positive amount is required")
	}

	enrollment, err := s.repo.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}

	res, err := s.links.CreatePaymentLink(ctx, PaymentLinkRequest{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		ProgramSlug:  enrollment.ProgramSlug,
		Amount:       amount,
		Description:  fmt.Sprintf("Weekly Tuition Payment - %s", enrollment.ProgramSlug),
	})
	if err != nil {
		return nil, err
	}

	link := &models.PaymentLink{
		UserID:         enrollment.UserID,
		EnrollmentID:   enrollment.ID,
		ProviderLinkID: res.ProviderLinkID,
		URL:            res.URL,
		Amount:         amount,
		Type:           linkType,
		Status:         models.PaymentLinkStatusActive,
		ExpiresAt:      s.now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreatePaymentLink(link); err != nil {
		return nil, err
	}
	return link, nil
}

// RecordWebhookEvent persists processor webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.PaymentWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		eventID = "hash:" + payloadHash(in.PayloadJSON)
	}

	event := &models.PaymentWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// isPaymentOverdue reports whether too much time has passed since the last
// completed payment. A plan with no payment at all is overdue: the setup fee
// is due at enrollment.
func (s *Service) isPaymentOverdue(lastPaidAt *time.Time, now time.Time) bool {
	if lastPaidAt == nil {
		return true
	}
	return now.Sub(*lastPaidAt) > overdueAfter
}
