package mail

import "gopkg.in/gomail.v2"

// OutreachEmailData feeds the outreach template. Drafts carry their own
// greeting, so the recipient name only goes into the To header.
type OutreachEmailData struct {
	Body string
	CTA  string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	send func(m ...*gomail.Message) error
}
