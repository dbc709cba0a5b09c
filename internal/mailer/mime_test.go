package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestBuildMIMEMessage_Alternative(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		FromName: "Order Désk",
		From:     "orders@example.com",
		To:       []string{"ada@example.com"},
		Cc:       []string{"ops@example.com"},
		Bcc:      []string{"audit@example.com"},
		Subject:  "Your order is on its way",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
		Headers:  map[string]string{"X-Order-ID": "o1", "X-Empty": ""},
	}, "example.com", fixedNow)
	require.NoError(t, err)

	assert.Contains(t, raw, "Date: Fri, 01 Mar 2024 09:30:00 +0000\r\n")
	assert.Contains(t, raw, "From: =?utf-8?q?Order_D=C3=A9sk?= <orders@example.com>\r\n")
	assert.Contains(t, raw, "To: ada@example.com\r\n")
	assert.Contains(t, raw, "Cc: ops@example.com\r\n")
	assert.NotContains(t, raw, "audit@example.com")
	assert.Contains(t, raw, "X-Order-ID: o1\r\n")
	assert.NotContains(t, raw, "X-Empty")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Equal(t, 2, strings.Count(raw, "Content-Transfer-Encoding: 8bit"))
	assert.True(t, strings.HasSuffix(raw, "--\r\n"))
}

func TestBuildMIMEMessage_SinglePart(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		From:     "orders@example.com",
		To:       []string{"ada@example.com"},
		Subject:  "Hello",
		TextBody: "plain\n",
	}, "example.com", fixedNow)
	require.NoError(t, err)
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.NotContains(t, raw, "multipart")
	assert.True(t, strings.HasSuffix(raw, "plain\n"))
}

func TestBuildMIMEMessage_Validation(t *testing.T) {
	base := Email{From: "a@example.com", To: []string{"b@example.com"}, Subject: "s", TextBody: "t"}

	noTo := base
	noTo.To = nil
	noFrom := base
	noFrom.From = ""
	noSubject := base
	noSubject.Subject = ""
	noBody := base
	noBody.TextBody = ""

	for want, e := range map[error]Email{
		errNoRecipient: noTo,
		errNoFrom:      noFrom,
		errNoSubject:   noSubject,
		errNoBody:      noBody,
	} {
		_, err := buildMIMEMessage(e, "example.com", fixedNow)
		assert.ErrorIs(t, err, want)
	}
}

func TestMock(t *testing.T) {
	m := &Mock{}
	require.NoError(t, m.Send(context.Background(), Email{From: "a@x", To: []string{"b@x"}, Subject: "s", TextBody: "t"}))
	assert.Error(t, m.Send(context.Background(), Email{}))
	assert.Len(t, m.Sent(), 1)

	m.Err = errors.New("down")
	assert.EqualError(t, m.Send(context.Background(), Email{From: "a@x", To: []string{"b@x"}, Subject: "s", TextBody: "t"}), "down")
}
