package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/elevateforhumanity/elevate/app/models"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	programs    map[string]*models.Program
	enrollments map[uint]*models.Enrollment
	payments    []*models.StudentPayment
	links       []*models.PaymentLink
	events      map[string]*models.PaymentWebhookEvent
	nextEventID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		programs:    map[string]*models.Program{},
		enrollments: map[uint]*models.Enrollment{},
		events:      map[string]*models.PaymentWebhookEvent{},
	}
}

func (f *fakeRepo) GetProgramBySlug(slug string) (*models.Program, error) {
	p, ok := f.programs[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetEnrollment(id uint) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeRepo) GetEnrollmentByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.ProgramSlug == programSlug {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListActiveEnrollments(programSlug string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if e.Status != models.EnrollmentStatusActive {
			continue
		}
		if programSlug != "" && e.ProgramSlug != programSlug {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeRepo) SaveEnrollment(e *models.Enrollment) error {
	f.enrollments[e.ID] = e
	return nil
}

func (f *fakeRepo) SumCompletedPayments(enrollmentID uint) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.EnrollmentID == enrollmentID && p.Status == models.PaymentStatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakeRepo) LastCompletedPayment(enrollmentID uint) (*models.StudentPayment, error) {
	var last *models.StudentPayment
	for _, p := range f.payments {
		if p.EnrollmentID != enrollmentID || p.Status != models.PaymentStatusCompleted || p.PaidAt == nil {
			continue
		}
		if last == nil || p.PaidAt.After(*last.PaidAt) {
			last = p
		}
	}
	if last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return last, nil
}

func (f *fakeRepo) CreatePayment(p *models.StudentPayment) error {
	p.ID = uint(len(f.payments) + 1)
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeRepo) GetPaymentByProviderID(provider, providerPaymentID string) (*models.StudentPayment, error) {
	for _, p := range f.payments {
		if p.ProviderPaymentID == providerPaymentID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreatePaymentLink(l *models.PaymentLink) error {
	l.ID = uint(len(f.links) + 1)
	f.links = append(f.links, l)
	return nil
}

func (f *fakeRepo) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		return false, existing, nil
	}
	f.nextEventID++
	event.ID = f.nextEventID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range f.events {
		if e.ID == id {
			now := time.Now()
			e.ProcessedAt = &now
			e.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeLinks issues deterministic payment links.
type fakeLinks struct {
	calls int
	err   error
}

func (f *fakeLinks) CreatePaymentLink(_ context.Context, req PaymentLinkRequest) (*PaymentLinkResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &PaymentLinkResult{
		ProviderLinkID: fmt.Sprintf("plink_%d", f.calls),
		URL:            fmt.Sprintf("https://pay.example.com/%d", f.calls),
	}, nil
}

func seedBarber(repo *fakeRepo) *models.Enrollment {
	repo.programs["barber-apprenticeship"] = &models.Program{
		ID:                 1,
		Slug:               "barber-apprenticeship",
		Label:              "Barber Apprenticeship",
		FullPrice:          4980,
		IsFlatFee:          true,
		TotalHoursRequired: 2000,
		VendorName:         models.VendorMilady,
		VendorCost:         295,
		IsActive:           true,
	}
	e := &models.Enrollment{
		ID:           1,
		Reference:    "11111111-1111-1111-1111-111111111111",
		UserID:       7,
		ProgramSlug:  "barber-apprenticeship",
		Status:       models.EnrollmentStatusActive,
		HoursPerWeek: 40,
		EnrolledAt:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		User:         &models.User{ID: 7, Name: "Test Student", Email: "student@example.com"},
	}
	repo.enrollments[e.ID] = e
	return e
}

func serviceAt(repo *fakeRepo, links PaymentLinkCreator, now time.Time) *Service {
	s := NewService(repo, links)
	s.now = func() time.Time { return now }
	return s
}

func completedPayment(repo *fakeRepo, enrollmentID uint, amount float64, paidAt time.Time) {
	repo.payments = append(repo.payments, &models.StudentPayment{
		ID:           uint(len(repo.payments) + 1),
		EnrollmentID: enrollmentID,
		UserID:       7,
		Amount:       amount,
		Type:         models.PaymentTypeWeekly,
		Status:       models.PaymentStatusCompleted,
		PaidAt:       &paidAt,
	})
}

var wednesdayNoon = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func TestGetStudentPaymentPlanCurrent(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	e.PlanEstablished = true
	e.WeeklyPaymentAmount = 64.74
	completedPayment(repo, e.ID, 1743, wednesdayNoon.Add(-48*time.Hour))

	s := serviceAt(repo, nil, wednesdayNoon)
	plan, err := s.GetStudentPaymentPlan(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != PlanStatusCurrent {
		t.Fatalf("expected current, got %s", plan.Status)
	}
	if plan.TotalPaid != 1743 || plan.RemainingBalance != 4980-1743 {
		t.Fatalf("unexpected amounts: %+v", plan)
	}
	if plan.WeeklyPaymentAmount != 64.74 {
		t.Fatalf("expected sticky weekly amount 64.74, got %v", plan.WeeklyPaymentAmount)
	}
	if plan.NextPaymentDue.Weekday() != time.Friday {
		t.Fatalf("expected next payment on a Friday, got %v", plan.NextPaymentDue)
	}
	if plan.Email != "student@example.com" || plan.FullName != "Test Student" {
		t.Fatalf("expected student identity on the plan, got %+v", plan)
	}
}

func TestGetStudentPaymentPlanOverdueWithoutAnyPayment(t *testing.T) {
	repo := newFakeRepo()
	seedBarber(repo)

	s := serviceAt(repo, nil, wednesdayNoon)
	plan, err := s.GetStudentPaymentPlan(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != PlanStatusOverdue {
		t.Fatalf("expected overdue with no payment on record, got %s", plan.Status)
	}
}

func TestGetStudentPaymentPlanOverdueAfterGracePeriod(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	completedPayment(repo, e.ID, 1743, wednesdayNoon.Add(-8*24*time.Hour))

	s := serviceAt(repo, nil, wednesdayNoon)
	plan, err := s.GetStudentPaymentPlan(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != PlanStatusOverdue {
		t.Fatalf("expected overdue after 8 days, got %s", plan.Status)
	}
}

func TestGetStudentPaymentPlanDueOnFriday(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	friday := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	completedPayment(repo, e.ID, 1743, friday.Add(-72*time.Hour))

	s := serviceAt(repo, nil, friday)
	plan, err := s.GetStudentPaymentPlan(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Status != PlanStatusDue {
		t.Fatalf("expected due on payment day, got %s", plan.Status)
	}
}

func TestGetStudentPaymentPlanPaidInFull(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	completedPayment(repo, e.ID, 4980, wednesdayNoon.Add(-60*24*time.Hour))

	s := serviceAt(repo, nil, wednesdayNoon)
	plan, err := s.GetStudentPaymentPlan(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Paid in full wins over staleness.
	if plan.Status != PlanStatusPaidInFull {
		t.Fatalf("expected paid_in_full, got %s", plan.Status)
	}
	if plan.RemainingBalance != 0 {
		t.Fatalf("expected zero balance, got %v", plan.RemainingBalance)
	}
}

func TestCanClockInCurrentStudent(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	completedPayment(repo, e.ID, 1743, wednesdayNoon.Add(-24*time.Hour))

	s := serviceAt(repo, nil, wednesdayNoon)
	check, err := s.CanClockIn(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.Allowed {
		t.Fatalf("expected clock-in to be allowed: %+v", check)
	}
}

func TestCanClockInOverdueIssuesPaymentLink(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	e.PlanEstablished = true
	e.WeeklyPaymentAmount = 64.74
	completedPayment(repo, e.ID, 1743, wednesdayNoon.Add(-10*24*time.Hour))

	links := &fakeLinks{}
	s := serviceAt(repo, links, wednesdayNoon)
	check, err := s.CanClockIn(context.Background(), 7, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Allowed {
		t.Fatalf("expected overdue student to be blocked")
	}
	if check.AmountDue != 64.74 {
		t.Fatalf("expected the weekly amount due, got %v", check.AmountDue)
	}
	if check.PaymentURL == "" {
		t.Fatalf("expected a payment link on the gate result")
	}
	if len(repo.links) != 1 {
		t.Fatalf("expected the issued link to be recorded, got %d", len(repo.links))
	}
	if repo.links[0].Type != models.PaymentTypeWeekly {
		t.Fatalf("expected a weekly payment link, got %s", repo.links[0].Type)
	}
}

func TestCanClockInNoEnrollment(t *testing.T) {
	repo := newFakeRepo()
	s := serviceAt(repo, nil, wednesdayNoon)
	check, err := s.CanClockIn(context.Background(), 99, "barber-apprenticeship")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Allowed || check.Reason == "" {
		t.Fatalf("expected a blocked result with a reason, got %+v", check)
	}
}

func TestEstablishPlanLocksWeeklyAmount(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)

	s := serviceAt(repo, nil, wednesdayNoon)
	res, err := s.EstablishPlan(context.Background(), e.ID, 1743)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsValid {
		t.Fatalf("expected the floor fee to be valid: %+v", res)
	}
	if res.WeeklyPayment != 64.74 || res.TotalWeeks != 50 {
		t.Fatalf("unexpected plan terms: %+v", res)
	}
	if !e.PlanEstablished || e.WeeklyPaymentAmount != 64.74 {
		t.Fatalf("expected the plan to be locked on the enrollment: %+v", e)
	}

	// A second attempt must not re-open the plan.
	if _, err := s.EstablishPlan(context.Background(), e.ID, 2000); err == nil {
		t.Fatalf("expected an error establishing a second plan")
	}
	if e.WeeklyPaymentAmount != 64.74 {
		t.Fatalf("weekly amount changed on rejected re-establish: %v", e.WeeklyPaymentAmount)
	}
}

func TestEstablishPlanRejectsLowFeeAsData(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)

	s := serviceAt(repo, nil, wednesdayNoon)
	res, err := s.EstablishPlan(context.Background(), e.ID, 1000)
	if err != nil {
		t.Fatalf("a low fee is a validation result, not an error: %v", err)
	}
	if res.IsValid {
		t.Fatalf("expected the fee to be rejected")
	}
	if e.PlanEstablished {
		t.Fatalf("a rejected fee must not establish a plan")
	}
}

func TestRecordPaymentMarksSetupFee(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)

	s := serviceAt(repo, nil, wednesdayNoon)
	p, err := s.RecordPayment(context.Background(), PaymentInput{
		EnrollmentID: e.ID,
		Amount:       1743,
		Type:         models.PaymentTypeSetupFee,
		Provider:     models.PaymentProviderStripe,
		Status:       models.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Reference == "" {
		t.Fatalf("expected a generated payment reference")
	}
	if p.PaidAt == nil {
		t.Fatalf("expected a PaidAt for a completed payment")
	}
	if e.SetupFeePaid != 1743 {
		t.Fatalf("expected the setup fee marker, got %v", e.SetupFeePaid)
	}
	if e.Status == models.EnrollmentStatusPaidInFull {
		t.Fatalf("a setup fee alone does not retire the balance")
	}
}

func TestRecordPaymentRetiresBalance(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	completedPayment(repo, e.ID, 4900, wednesdayNoon.Add(-24*time.Hour))

	s := serviceAt(repo, nil, wednesdayNoon)
	if _, err := s.RecordPayment(context.Background(), PaymentInput{
		EnrollmentID: e.ID,
		Amount:       80,
		Status:       models.PaymentStatusCompleted,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != models.EnrollmentStatusPaidInFull {
		t.Fatalf("expected the enrollment to flip to paid_in_full, got %s", e.Status)
	}
}

func TestRecordPaymentPendingDoesNotTouchEnrollment(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)

	s := serviceAt(repo, nil, wednesdayNoon)
	p, err := s.RecordPayment(context.Background(), PaymentInput{
		EnrollmentID: e.ID,
		Amount:       1743,
		Type:         models.PaymentTypeSetupFee,
		Status:       models.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PaidAt != nil {
		t.Fatalf("a pending payment has no PaidAt")
	}
	if e.SetupFeePaid != 0 {
		t.Fatalf("a pending payment must not mark the setup fee")
	}
}

func TestIssuePaymentLink(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	links := &fakeLinks{}

	s := serviceAt(repo, links, wednesdayNoon)
	link, err := s.IssuePaymentLink(context.Background(), e.ID, 64.74, models.PaymentTypeWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL == "" || link.ProviderLinkID == "" {
		t.Fatalf("expected provider details on the link: %+v", link)
	}
	if !link.ExpiresAt.Equal(wednesdayNoon.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expected a 7-day expiry, got %v", link.ExpiresAt)
	}

	if _, err := s.IssuePaymentLink(context.Background(), e.ID, 0, models.PaymentTypeWeekly); err == nil {
		t.Fatalf("expected an error for a non-positive amount")
	}
}

func TestIssuePaymentLinkProviderFailure(t *testing.T) {
	repo := newFakeRepo()
	e := seedBarber(repo)
	links := &fakeLinks{err: errors.New("stripe is down")}

	s := serviceAt(repo, links, wednesdayNoon)
	if _, err := s.IssuePaymentLink(context.Background(), e.ID, 64.74, models.PaymentTypeWeekly); err == nil {
		t.Fatalf("expected the provider error to surface")
	}
	if len(repo.links) != 0 {
		t.Fatalf("no link must be recorded on provider failure")
	}
}

func TestRecordWebhookEventIdempotent(t *testing.T) {
	repo := newFakeRepo()
	s := serviceAt(repo, nil, wednesdayNoon)

	in := WebhookEventInput{
		Provider:        "Stripe",
		ProviderEventID: "evt_123",
		EventType:       "checkout.session.completed",
		PayloadJSON:     `{"id":"evt_123"}`,
		SignatureValid:  true,
	}
	created, event, err := s.RecordWebhookEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected the first delivery to be stored")
	}
	if event.Provider != "stripe" {
		t.Fatalf("expected the provider to be normalized, got %s", event.Provider)
	}

	created, again, err := s.RecordWebhookEvent(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected the duplicate delivery to be skipped")
	}
	if again.ID != event.ID {
		t.Fatalf("expected the stored event back, got %d vs %d", again.ID, event.ID)
	}
}

func TestRecordWebhookEventHashFallback(t *testing.T) {
	repo := newFakeRepo()
	s := serviceAt(repo, nil, wednesdayNoon)

	payload := `{"type":"payment_intent.succeeded"}`
	created, event, err := s.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: payload,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected the event to be stored")
	}
	if event.ProviderEventID != "hash:"+payloadHash(payload) {
		t.Fatalf("expected a payload-hash event id, got %s", event.ProviderEventID)
	}

	created, _, err = s.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: payload,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected the same payload to dedupe")
	}
}

func TestMarkWebhookProcessed(t *testing.T) {
	repo := newFakeRepo()
	s := serviceAt(repo, nil, wednesdayNoon)

	_, event, err := s.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_9",
		PayloadJSON:     "{}",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.MarkWebhookProcessed(context.Background(), event.ID, errors.New("unknown event type")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.events["stripe/evt_9"]
	if stored.ProcessedAt == nil || stored.ProcessingError != "unknown event type" {
		t.Fatalf("expected the processing outcome to be stored: %+v", stored)
	}
}
