package billing

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a USD amount en-US style with exactly two decimal
// places, e.g. 1743 -> "$1,743.00".
func FormatCurrency(amount float64) string {
	return usPrinter.Sprintf("$%.2f", amount)
}

// PaymentSummary renders a one-line description of a payment option: either
// a one-time payment or a setup fee followed by weekly installments.
func PaymentSummary(option PaymentOption) string {
	if option.WeeklyPayment == 0 {
		return fmt.Sprintf("%s one-time payment", FormatCurrency(option.SetupFee))
	}
	return fmt.Sprintf("%s today, then %s/week for %d weeks",
		FormatCurrency(option.SetupFee),
		FormatCurrency(option.WeeklyPayment),
		option.TotalWeeks,
	)
}
