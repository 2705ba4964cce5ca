package notify

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the account lifecycle emails. Delivery failures are reported
// to the caller for logging only; nothing upstream depends on them.
type Mailer interface {
	SendWelcomeEmail(email, name string) error
	SendCancellationEmail(email, name string) error
}

type sendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer() Mailer {
	return &sendGridMailer{
		client: sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY")),
		from:   mail.NewEmail("Task Manager", os.Getenv("NOTIFY_FROM_EMAIL")),
	}
}

func (m *sendGridMailer) SendWelcomeEmail(email, name string) error {
	subject := "Welcome to Task Manager"
	html := fmt.Sprintf("<h1>Welcome %s to Task Manager</h1><h3>Where tasks finish faster</h3>", name)
	return m.send(email, name, subject, html)
}

func (m *sendGridMailer) SendCancellationEmail(email, name string) error {
	subject := "Sorry to see you go"
	html := fmt.Sprintf("<h1>Goodbye %s, and thanks for the memories</h1><h3>Is there anything we could have done to keep you?</h3>", name)
	return m.send(email, name, subject, html)
}

func (m *sendGridMailer) send(email, name, subject, html string) error {
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(m.from, subject, to, "", html)

	res, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}
