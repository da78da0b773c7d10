package email

import (
	"fmt"

	"github.com/resend/resend-go/v3"
)

// ResendSender delivers transactional mail through the Resend API.
type ResendSender struct {
	client      *resend.Client
	fromAddress string
}

func NewResendSender(apiKey, fromAddress string) *ResendSender {
	return &ResendSender{
		client:      resend.NewClient(apiKey),
		fromAddress: fromAddress,
	}
}

func (r *ResendSender) Send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}
