// Package email tells customers about their order by mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"orderdesk.io/app/internal/mailer"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
)

// StatusMailer mails the customer when an order is dispatched or delivered.
// It is an orders.Listener.
type StatusMailer struct {
	mailer   mailer.Service
	from     string
	fromName string
	log      logger.Logger
}

func NewStatusMailer(m mailer.Service, from, fromName string, log logger.Logger) *StatusMailer {
	if log == nil {
		log = logger.Nop()
	}
	return &StatusMailer{mailer: m, from: from, fromName: fromName, log: log}
}

type statusMail struct {
	subject  string
	headline string
	line     string
}

var statusMails = map[orders.Status]statusMail{
	orders.StatusDispatch: {
		subject:  "Your order is on its way",
		headline: "Your order has been dispatched",
		line:     "We handed your order to the carrier. It will reach you soon.",
	},
	orders.StatusSuccess: {
		subject:  "Your order has been delivered",
		headline: "Your order has been delivered",
		line:     "Thank you for shopping with us.",
	},
}

var htmlBody = template.Must(template.New("status").Parse(`<html>
  <body style="font-family: sans-serif;">
    <h2>{{.Headline}}</h2>
    <p>Hello {{.Name}},</p>
    <p>{{.Line}}</p>
    <p><strong>Order:</strong> #{{.OrderID}}</p>
    {{if .Items}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </body>
</html>
`))

type bodyData struct {
	Headline string
	Name     string
	Line     string
	OrderID  string
	Items    []string
}

func (s *StatusMailer) OrderStatusChanged(ctx context.Context, ch orders.StatusChange) error {
	if ch.From.Normalize() == ch.To.Normalize() {
		return nil
	}
	m, ok := statusMails[ch.To.Normalize()]
	if !ok || ch.Order.Email == "" {
		return nil
	}

	data := bodyData{
		Headline: m.headline,
		Name:     ch.Order.FirstName,
		Line:     m.line,
		OrderID:  ch.Order.ID,
	}
	if data.Name == "" {
		data.Name = "there"
	}
	for _, it := range ch.Order.CartItems {
		data.Items = append(data.Items, it.Title)
	}

	var html bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return fmt.Errorf("render status mail: %w", err)
	}
	text := fmt.Sprintf("Hello %s,\n\n%s\n%s\n\nOrder: #%s\n", data.Name, m.headline, m.line, data.OrderID)

	err := s.mailer.Send(ctx, mailer.Email{
		From:     s.from,
		FromName: s.fromName,
		To:       []string{ch.Order.Email},
		Subject:  m.subject,
		TextBody: text,
		HTMLBody: html.String(),
		Headers:  map[string]string{"X-Order-ID": ch.Order.ID},
	})
	if err != nil {
		return fmt.Errorf("send status mail for order %s: %w", ch.Order.ID, err)
	}

	s.log.Info("status_mail_sent",
		logger.String("order_id", ch.Order.ID),
		logger.String("status", string(ch.To)),
	)
	return nil
}

func (s *StatusMailer) OrderDeleted(context.Context, string) error { return nil }
