package mail

import (
	"fmt"
	"html/template"
	"strings"
)

var paymentReminderTemplate = template.Must(template.New("payment_reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 560px; margin: 0 auto;">
	<h2 style="color:#1a1a2e;">Weekly Payment Reminder</h2>
	<p>Hi {{.Name}},</p>
	<p>Your weekly tuition payment of <strong>{{.Amount}}</strong> for the
	<strong>{{.ProgramLabel}}</strong> program is due today.</p>
	{{if .PaymentURL}}
	<p style="margin:24px 0;">
		<a href="{{.PaymentURL}}" style="background:#4f46e5;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none;">Pay Now</a>
	</p>
	{{end}}
	<p>Remaining balance: {{.RemainingBalance}}</p>
	<p style="color:#666;font-size:13px;">Staying current keeps your clock-in access active.
	If you already paid, you can ignore this email.</p>
</div>
`))

// PaymentReminder is the data rendered into the weekly reminder email.
type PaymentReminder struct {
	Name             string
	ProgramLabel     string
	Amount           string
	RemainingBalance string
	PaymentURL       string
}

// SendPaymentReminder renders and sends the weekly payment reminder.
func SendPaymentReminder(to string, reminder PaymentReminder) error {
	var sb strings.Builder
	if err := paymentReminderTemplate.Execute(&sb, reminder); err != nil {
		return fmt.Errorf("render payment reminder: %w", err)
	}
	subject := fmt.Sprintf("Payment due today - %s", reminder.ProgramLabel)
	return SendMail(to, subject, sb.String())
}
