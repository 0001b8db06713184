package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers email through the Resend HTTP API.
type ResendMailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

// NewResendMailer creates a ResendMailer with a 10 second request timeout.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	Message string `json:"message"`
}

// SendUpcomingDue sends a payment reminder email.
func (m *ResendMailer) SendUpcomingDue(p UpcomingDueParams) error {
	html := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Te recordamos que tu cuota vence el día <strong>%s</strong>.</p>
		<p>Si ya realizaste el pago, podés ignorar este mensaje.</p>
		<p>¡Gracias por seguir entrenando con nosotros!</p>
	`, p.ClientName, p.DueDate)

	return m.send(p.To, UpcomingDueSubject(p.OwnerName), html)
}

// SendPaymentReceipt sends a payment receipt email.
func (m *ResendMailer) SendPaymentReceipt(p PaymentReceiptParams) error {
	due := ""
	if p.DueDate != "" {
		due = fmt.Sprintf("<p>Tu próximo vencimiento es el <strong>%s</strong>.</p>", p.DueDate)
	}
	html := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Registramos tu pago de <strong>$%s</strong> (plan %s).</p>
		%s
		<p>¡Gracias por entrenar con %s!</p>
	`, p.ClientName, p.Amount, p.Plan, due, p.OwnerName)

	return m.send(p.To, PaymentReceiptSubject(p.OwnerName), html)
}

func (m *ResendMailer) send(to, subject, html string) error {
	if m.from == "" {
		return fmt.Errorf("EMAIL_FROM is not set")
	}
	if m.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not set")
	}

	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr resendError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend: %s", apiErr.Message)
		}
		return fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}
