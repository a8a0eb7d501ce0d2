package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/cache"
	"github.com/elevateforhumanity/elevate/internal/pkg/mail"
)

// checkInterval is how often the runner wakes up to see whether reminders
// are due. The cache dedupe key keeps a student at one email per payment day.
const checkInterval = 30 * time.Minute

// dedupeTTL outlives the payment day so a restart cannot double-send.
const dedupeTTL = 36 * time.Hour

// Sender is the mail dependency, faked in tests.
type Sender func(to string, reminder mail.PaymentReminder) error

// Runner sends weekly payment reminders to students with a payment due.
type Runner struct {
	billing *billing.Service
	repo    billing.Repository
	send    Sender
	now     func() time.Time
}

func NewRunner(svc *billing.Service, repo billing.Repository) *Runner {
	return &Runner{
		billing: svc,
		repo:    repo,
		send:    mail.SendPaymentReminder,
		now:     time.Now,
	}
}

// Run loops until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	log.Print("Payment reminder runner started")
	for {
		select {
		case <-ctx.Done():
			log.Print("Payment reminder runner stopped")
			return
		case <-ticker.C:
			if sent, err := r.RunOnce(ctx); err != nil {
				log.Printf("Payment reminder pass failed: %v", err)
			} else if sent > 0 {
				log.Printf("Sent %d payment reminders", sent)
			}
		}
	}
}

// RunOnce sends reminders for every active enrollment whose payment is due
// or overdue. Outside the payment day it does nothing. Returns the number of
// reminders sent.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	now := r.now()
	if now.Weekday() != time.Friday {
		return 0, nil
	}

	enrollments, err := r.repo.ListActiveEnrollments("")
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range enrollments {
		e := &enrollments[i]
		ok, err := r.remind(ctx, e, now)
		if err != nil {
			log.Printf("Reminder for enrollment %d failed: %v", e.ID, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// remind sends at most one reminder for the enrollment. It reports whether
// a mail actually went out.
func (r *Runner) remind(ctx context.Context, e *models.Enrollment, now time.Time) (bool, error) {
	if !e.PlanEstablished {
		return false, nil
	}
	plan, err := r.billing.GetStudentPaymentPlan(ctx, e.UserID, e.ProgramSlug)
	if err != nil {
		return false, err
	}
	if plan.Status != billing.PlanStatusDue && plan.Status != billing.PlanStatusOverdue {
		return false, nil
	}
	if plan.Email == "" || plan.WeeklyPaymentAmount <= 0 {
		return false, nil
	}

	key := fmt.Sprintf("reminder:%d:%s", e.ID, now.Format("2006-01-02"))
	fresh, err := cache.SetNX(key, "1", dedupeTTL)
	if err != nil {
		// Cache down: send anyway, a duplicate beats a missed payment.
		log.Printf("Reminder dedupe unavailable: %v", err)
	} else if !fresh {
		return false, nil
	}

	paymentURL := ""
	if link, err := r.billing.IssuePaymentLink(ctx, e.ID, plan.WeeklyPaymentAmount, models.PaymentTypeWeekly); err == nil {
		paymentURL = link.URL
	}

	label := e.ProgramSlug
	if e.Program != nil {
		label = e.Program.Label
	}

	err = r.send(plan.Email, mail.PaymentReminder{
		Name:             plan.FullName,
		ProgramLabel:     label,
		Amount:           billing.FormatCurrency(plan.WeeklyPaymentAmount),
		RemainingBalance: billing.FormatCurrency(plan.RemainingBalance),
		PaymentURL:       paymentURL,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
