package mail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

var outreachTemplate = template.Must(template.New("outreach").Parse(
	`{{.Body}}
{{if .CTA}}
{{.CTA}}
{{end}}`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
	s.send = func(m ...*gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m...)
	}
	return s
}

// SendOutreach mails a composed draft to the lead as plain text.
func (s *EmailSender) SendOutreach(to, name string, draft entity.EmailDraft) error {
	m, err := s.buildOutreach(to, name, draft)
	if err != nil {
		return err
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildOutreach(to, name string, draft entity.EmailDraft) (*gomail.Message, error) {
	if draft.IsEmpty() {
		return nil, fmt.Errorf("refusing to send an empty draft to %s", to)
	}

	body, err := renderOutreach(draft)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", to, name)
	m.SetHeader("Subject", draft.Subject)
	m.SetBody("text/plain", body)
	return m, nil
}

func renderOutreach(draft entity.EmailDraft) (string, error) {
	var body bytes.Buffer
	data := OutreachEmailData{Body: draft.Body, CTA: draft.CTA}
	if err := outreachTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return strings.TrimRight(body.String(), "\n") + "\n", nil
}
