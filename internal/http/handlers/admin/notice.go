package admin

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/view"
)

// noticeBox keeps the last notice of one console action so the handler
// can hand it to the client after the action returns.
type noticeBox struct {
	last *orders.Notice
}

func (b *noticeBox) Notify(_ context.Context, n orders.Notice) { b.last = &n }

func (b *noticeBox) flash() *view.Flash {
	if b.last == nil {
		return nil
	}
	return &view.Flash{Kind: flashKind(b.last.Kind), Title: b.last.Title, Message: b.last.Message}
}

func flashKind(k orders.NoticeKind) view.FlashKind {
	switch k {
	case orders.NoticeSuccess:
		return view.FlashSuccess
	case orders.NoticeError:
		return view.FlashError
	default:
		return view.FlashInfo
	}
}

// confirmation answers the delete prompt from the request: the form field
// or query parameter confirm must be set to an affirmative value.
func confirmation(c *gin.Context) orders.Confirmer {
	v := c.PostForm("confirm")
	if v == "" {
		v = c.Query("confirm")
	}
	yes := isYes(v)
	return orders.ConfirmerFunc(func(context.Context, orders.Prompt) bool { return yes })
}

func isYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
