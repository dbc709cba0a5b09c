package orders

import "context"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
)

// Notice is a message for the admin after a console action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Prompt is a yes/no question put to the admin before a destructive action.
type Prompt struct {
	Title        string `json:"title"`
	Text         string `json:"text"`
	ConfirmLabel string `json:"confirmLabel"`
}

type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

type ConfirmerFunc func(ctx context.Context, p Prompt) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

var DeletePrompt = Prompt{
	Title:        "Are you sure?",
	Text:         "You won't be able to revert this!",
	ConfirmLabel: "Yes, delete it!",
}

var (
	noticeStatusFailed = Notice{Kind: NoticeError, Title: "Error!", Message: "Something went wrong while updating the order status."}
	noticeDeleted      = Notice{Kind: NoticeSuccess, Title: "Deleted!", Message: "Your order has been deleted."}
	noticeDeleteFailed = Notice{Kind: NoticeError, Title: "Error!", Message: "Something went wrong while deleting the order."}
)

// StatusNotice is the message shown after an acknowledged status change.
func StatusNotice(s Status) Notice {
	switch s.Normalize() {
	case StatusDispatch:
		return Notice{Kind: NoticeSuccess, Title: "Order dispatched", Message: "Your order has been dispatched."}
	case StatusSuccess:
		return Notice{Kind: NoticeSuccess, Title: "Success", Message: "Your order has been delivered."}
	default:
		return Notice{Kind: NoticeInfo, Title: "Order pending", Message: "Your order is pending again."}
	}
}
