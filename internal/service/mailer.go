package service

import (
	"fmt"

	"github.com/labstack/gommon/log"
)

// EmailSender is the outbound delivery channel, satisfied by
// email.ResendSender in production.
type EmailSender interface {
	Send(to, subject, html string) error
}

type welcomeMail struct {
	username string
	email    string
}

// Mailer delivers notification emails off the request path. Sends are
// fire-and-forget: a failed or dropped email is logged and never affects
// the transaction that triggered it.
type Mailer struct {
	sender EmailSender
	queue  chan welcomeMail
	done   chan struct{}
}

func NewMailer(sender EmailSender) *Mailer {
	m := &Mailer{
		sender: sender,
		queue:  make(chan welcomeMail, 64),
		done:   make(chan struct{}),
	}
	go m.work()
	return m
}

// SendWelcome enqueues the account-created email. It never blocks: if the
// queue is full the mail is dropped with a warning.
func (m *Mailer) SendWelcome(username, email string) {
	select {
	case m.queue <- welcomeMail{username: username, email: email}:
	default:
		log.Warnf("mailer queue full, dropping welcome email to %s", email)
	}
}

// Close stops the worker after draining queued mail.
func (m *Mailer) Close() {
	close(m.queue)
	<-m.done
}

func (m *Mailer) work() {
	defer close(m.done)
	for mail := range m.queue {
		err := m.sender.Send(mail.email, "Your account was created", welcomeBody(mail.username))
		if err != nil {
			log.Errorf("failed to send welcome email to %s: %v", mail.email, err)
		}
	}
}

func welcomeBody(username string) string {
	return fmt.Sprintf(
		"<p>Hello %s, your account was created successfully. You can now create, tag and share notes.</p>",
		username,
	)
}
