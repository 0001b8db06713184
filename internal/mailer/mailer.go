package mailer

import "fmt"

// UpcomingDueParams carries the template data for a payment reminder email.
type UpcomingDueParams struct {
	To         string
	ClientName string
	OwnerName  string
	DueDate    string // formatted YYYY-MM-DD
}

// PaymentReceiptParams carries the template data for a payment receipt email.
type PaymentReceiptParams struct {
	To         string
	ClientName string
	OwnerName  string
	Amount     string
	Plan       string
	DueDate    string // formatted YYYY-MM-DD, empty when the payment has no period
}

// Mailer sends transactional emails. Semantics are at-most-one attempt with
// no retry; callers treat failures as non-fatal and record them in the email
// log instead.
type Mailer interface {
	SendUpcomingDue(p UpcomingDueParams) error
	SendPaymentReceipt(p PaymentReceiptParams) error
}

// UpcomingDueSubject is the subject line for reminder emails; it is also
// recorded verbatim in the email log.
func UpcomingDueSubject(ownerName string) string {
	return fmt.Sprintf("Recordatorio de pago de cuota - %s", ownerName)
}

// PaymentReceiptSubject is the subject line for receipt emails.
func PaymentReceiptSubject(ownerName string) string {
	return fmt.Sprintf("Comprobante de pago - %s", ownerName)
}
