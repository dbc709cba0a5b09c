package orders

import (
	"context"
	"time"
)

// Store is the order backend. Implementations return orders in their own
// stable order and report unknown ids with ErrOrderNotFound.
type Store interface {
	List(ctx context.Context) ([]Order, error)
	SetStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// StatusChange describes an acknowledged status update.
type StatusChange struct {
	Order Order // order after the change
	From  Status
	To    Status
}

// Listener is told about acknowledged mutations. Errors are logged by the
// console and never affect its state.
type Listener interface {
	OrderStatusChanged(ctx context.Context, ch StatusChange) error
	OrderDeleted(ctx context.Context, id string) error
}

// StatusEvent is one recorded status change.
type StatusEvent struct {
	OrderID string
	From    Status
	To      Status
	At      time.Time
}

// HistoryStore is implemented by stores that keep an audit trail of status
// changes.
type HistoryStore interface {
	StatusHistory(ctx context.Context, id string) ([]StatusEvent, error)
}
