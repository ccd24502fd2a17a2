// Package mail is the outbound notification gateway.
package mail

import (
	"bytes"
	"context"
	"html/template"

	"github.com/dmitrijs2005/bloodbay/internal/logging"
)

// Message is a single outgoing email. Text or HTML may be empty.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender logs messages instead of delivering them.
type NoopSender struct {
	log logging.Logger
}

func NewNoopSender(log logging.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(ctx context.Context, msg Message) error {
	s.log.Info(ctx, "mail delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

const verificationSubject = "Please, verify your email"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Welcome to BloodBay</h2>
  <p>Please confirm your email address to activate your account.</p>
  <p><a href="{{.Link}}">Verify email</a></p>
  <p>If the button does not work, open this link in your browser:<br>{{.Link}}</p>
</body>
</html>
`))

// VerificationEmail builds the message sent after registration. link is
// the absolute URL of the verification page.
func VerificationEmail(to, link string) (Message, error) {
	var buf bytes.Buffer
	if err := verificationTemplate.Execute(&buf, struct{ Link string }{link}); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: verificationSubject, HTML: buf.String()}, nil
}
