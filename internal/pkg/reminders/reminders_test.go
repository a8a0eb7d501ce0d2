package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/mail"
)

type fakeRepo struct {
	programs    map[string]*models.Program
	enrollments []models.Enrollment
	paid        map[uint]float64
	links       []models.PaymentLink
}

func (r *fakeRepo) GetProgramBySlug(slug string) (*models.Program, error) {
	p, ok := r.programs[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetEnrollment(id uint) (*models.Enrollment, error) {
	for i := range r.enrollments {
		if r.enrollments[i].ID == id {
			return &r.enrollments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetEnrollmentByUserAndProgram(userID uint, programSlug string) (*models.Enrollment, error) {
	for i := range r.enrollments {
		if r.enrollments[i].UserID == userID && r.enrollments[i].ProgramSlug == programSlug {
			return &r.enrollments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListActiveEnrollments(programSlug string) ([]models.Enrollment, error) {
	return r.enrollments, nil
}

func (r *fakeRepo) SaveEnrollment(e *models.Enrollment) error { return nil }

func (r *fakeRepo) SumCompletedPayments(enrollmentID uint) (float64, error) {
	return r.paid[enrollmentID], nil
}

func (r *fakeRepo) LastCompletedPayment(enrollmentID uint) (*models.StudentPayment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreatePayment(p *models.StudentPayment) error { return nil }

func (r *fakeRepo) GetPaymentByProviderID(provider, providerPaymentID string) (*models.StudentPayment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreatePaymentLink(l *models.PaymentLink) error {
	r.links = append(r.links, *l)
	return nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	return true, event, nil
}

func (r *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error { return nil }

type fakeLinks struct{}

func (fakeLinks) CreatePaymentLink(ctx context.Context, req billing.PaymentLinkRequest) (*billing.PaymentLinkResult, error) {
	return &billing.PaymentLinkResult{
		ProviderLinkID: "plink_test",
		URL:            "https://pay.example.com/plink_test",
	}, nil
}

func overdueRepo() *fakeRepo {
	return &fakeRepo{
		programs: map[string]*models.Program{
			"barber-apprenticeship": {
				ID:                 1,
				Slug:               "barber-apprenticeship",
				Label:              "Barber Apprenticeship",
				FullPrice:          4980,
				TotalHoursRequired: 2000,
			},
		},
		enrollments: []models.Enrollment{
			{
				ID:                  1,
				UserID:              7,
				ProgramSlug:         "barber-apprenticeship",
				Status:              models.EnrollmentStatusActive,
				HoursPerWeek:        40,
				PlanEstablished:     true,
				WeeklyPaymentAmount: 64.74,
				User: &models.User{
					ID:    7,
					Name:  "Jordan Smith",
					Email: "jordan@example.com",
				},
			},
		},
		paid: map[uint]float64{1: 1743},
	}
}

func runnerAt(repo billing.Repository, send Sender, now time.Time) *Runner {
	return &Runner{
		billing: billing.NewService(repo, fakeLinks{}),
		repo:    repo,
		send:    send,
		now:     func() time.Time { return now },
	}
}

func TestRunOnceSendsReminderToOverdueStudent(t *testing.T) {
	friday := time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC)

	var sentTo string
	var got mail.PaymentReminder
	send := func(to string, reminder mail.PaymentReminder) error {
		sentTo = to
		got = reminder
		return nil
	}

	r := runnerAt(overdueRepo(), send, friday)
	sent, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent != 1 {
		t.Fatalf("RunOnce() sent = %d, want 1", sent)
	}
	if sentTo != "jordan@example.com" {
		t.Errorf("reminder recipient = %q, want jordan@example.com", sentTo)
	}
	if got.Name != "Jordan Smith" {
		t.Errorf("reminder name = %q", got.Name)
	}
	if got.ProgramLabel != "barber-apprenticeship" {
		t.Errorf("reminder program label = %q", got.ProgramLabel)
	}
	if got.Amount != "$64.74" {
		t.Errorf("reminder amount = %q, want $64.74", got.Amount)
	}
	if got.PaymentURL != "https://pay.example.com/plink_test" {
		t.Errorf("reminder payment url = %q", got.PaymentURL)
	}
}

func TestRunOnceSkipsOutsidePaymentDay(t *testing.T) {
	wednesday := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)

	called := false
	send := func(to string, reminder mail.PaymentReminder) error {
		called = true
		return nil
	}

	r := runnerAt(overdueRepo(), send, wednesday)
	sent, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent != 0 {
		t.Fatalf("RunOnce() sent = %d, want 0", sent)
	}
	if called {
		t.Error("sender was called outside the payment day")
	}
}

func TestRunOnceSkipsPaidInFullStudent(t *testing.T) {
	friday := time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC)

	repo := overdueRepo()
	repo.paid[1] = 4980

	called := false
	send := func(to string, reminder mail.PaymentReminder) error {
		called = true
		return nil
	}

	r := runnerAt(repo, send, friday)
	sent, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent != 0 {
		t.Fatalf("RunOnce() sent = %d, want 0", sent)
	}
	if called {
		t.Error("sender was called for a paid in full student")
	}
}

func TestRunOnceCountsOnlyDeliveredMail(t *testing.T) {
	friday := time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC)

	send := func(to string, reminder mail.PaymentReminder) error {
		return errors.New("smtp unavailable")
	}

	r := runnerAt(overdueRepo(), send, friday)
	sent, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent != 0 {
		t.Fatalf("RunOnce() sent = %d, want 0", sent)
	}
}

func TestRunOnceSkipsStudentWithoutEstablishedPlan(t *testing.T) {
	friday := time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC)

	repo := overdueRepo()
	repo.enrollments[0].PlanEstablished = false
	repo.enrollments[0].WeeklyPaymentAmount = 0
	repo.paid[1] = 0

	called := false
	send := func(to string, reminder mail.PaymentReminder) error {
		called = true
		return nil
	}

	r := runnerAt(repo, send, friday)
	sent, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if sent != 0 || called {
		t.Fatalf("reminder sent to a student with no plan, sent = %d", sent)
	}
}
