// Package mailer sends plain SMTP email.
package mailer

import "context"

type Service interface {
	Send(ctx context.Context, e Email) error
}

type Email struct {
	FromName string // optional display name
	From     string

	To  []string
	Cc  []string
	Bcc []string

	Subject string

	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (e Email) AllRecipients() []string {
	out := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	out = append(out, e.To...)
	out = append(out, e.Cc...)
	out = append(out, e.Bcc...)
	return out
}

func (e Email) validate() error {
	switch {
	case len(e.To) == 0:
		return errNoRecipient
	case e.From == "":
		return errNoFrom
	case e.Subject == "":
		return errNoSubject
	case e.TextBody == "" && e.HTMLBody == "":
		return errNoBody
	}
	return nil
}
