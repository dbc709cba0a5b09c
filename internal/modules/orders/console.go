package orders

import (
	"context"
	"fmt"
	"sync"

	"orderdesk.io/app/pkg/logger"
)

// Console holds one admin session's view of the orders: the list as last
// loaded or locally patched, the expanded order and the active filter.
//
// Status changes are applied optimistically. While requests for an order are
// in flight the order shows the status of the newest one still pending;
// once none is, it shows the last status the store accepted. Acknowledgments
// are ordered by issue sequence, not arrival.
type Console struct {
	store     Store
	log       logger.Logger
	listeners []Listener

	mountOnce sync.Once

	mu         sync.Mutex
	orders     []Order
	selectedID string
	filter     Filter
	seq        uint64
	tracks     map[string]*statusTrack
}

// statusTrack exists for an order while status requests for it are in flight.
type statusTrack struct {
	settled      Status // status before the first pending request
	committed    Status
	committedSeq uint64
	inflight     []pendingStatus
}

type pendingStatus struct {
	seq    uint64
	status Status
}

// current is the status the order should show: the newest pending request
// unless a later one has already been accepted.
func (t *statusTrack) current() Status {
	if n := len(t.inflight); n > 0 && t.inflight[n-1].seq > t.committedSeq {
		return t.inflight[n-1].status
	}
	return t.committed
}

func (t *statusTrack) finish(seq uint64) {
	for i, p := range t.inflight {
		if p.seq == seq {
			t.inflight = append(t.inflight[:i:i], t.inflight[i+1:]...)
			return
		}
	}
}

func NewConsole(store Store, log logger.Logger, listeners ...Listener) *Console {
	if log == nil {
		log = logger.Nop()
	}
	return &Console{
		store:     store,
		log:       log.WithFields(logger.String("component", "order_console")),
		listeners: listeners,
		filter:    FilterAll,
		tracks:    make(map[string]*statusTrack),
	}
}

// Mount loads the orders the first time it is called; later calls are no-ops.
func (c *Console) Mount(ctx context.Context) {
	c.mountOnce.Do(func() { c.Load(ctx) })
}

// Load replaces the local order list with the store's. A failure is only
// logged; the console keeps whatever it had.
func (c *Console) Load(ctx context.Context) {
	list, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("order_load_failed", logger.Error(err))
		return
	}

	c.mu.Lock()
	c.orders = list
	for i := range c.orders {
		if t, ok := c.tracks[c.orders[i].ID]; ok {
			c.orders[i].Status = t.current()
		}
	}
	c.mu.Unlock()

	c.log.Debug("orders_loaded", logger.Int("count", len(list)))
}

// View is a snapshot of the console for rendering.
type View struct {
	Filter          Filter  `json:"filter"`
	Orders          []Order `json:"orders"`
	Counts          Counts  `json:"counts"`
	SelectedOrderID string  `json:"selectedOrderId,omitempty"`
}

func (c *Console) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]Order, len(c.orders))
	copy(all, c.orders)

	return View{
		Filter:          c.filter,
		Orders:          Visible(all, c.filter),
		Counts:          CountByStatus(all),
		SelectedOrderID: c.selectedID,
	}
}

// Orders returns a copy of the full, unfiltered list.
func (c *Console) Orders() []Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Order, len(c.orders))
	copy(out, c.orders)
	return out
}

func (c *Console) SetFilter(f Filter) {
	c.mu.Lock()
	c.filter = ParseFilter(string(f))
	c.mu.Unlock()
}

// SelectedOrderID returns the expanded order id, or "" when none is.
func (c *Console) SelectedOrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// ToggleDetails collapses id when it is expanded, otherwise expands it in
// place of whatever was expanded before. It returns the new selection.
func (c *Console) ToggleDetails(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selectedID == id {
		c.selectedID = ""
	} else {
		c.selectedID = id
	}
	return c.selectedID
}

// HandleStatus changes the status of order id in the store and locally.
// Listeners hear about a change once every request for the order has been
// answered, with From set to the status they were last told about.
func (c *Console) HandleStatus(ctx context.Context, id, status string, n Notifier) (Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return Order{}, ErrOrderNotFound
	}
	t, ok := c.tracks[id]
	if !ok {
		cur := c.orders[i].Status
		t = &statusTrack{settled: cur, committed: cur}
		c.tracks[id] = t
	}
	c.seq++
	seq := c.seq
	t.inflight = append(t.inflight, pendingStatus{seq: seq, status: st})
	c.orders[i].Status = st
	c.mu.Unlock()

	storeErr := c.store.SetStatus(ctx, id, st)

	c.mu.Lock()
	var (
		updated Order
		change  *StatusChange
	)
	// no track means the order was deleted meanwhile
	if t, ok := c.tracks[id]; ok {
		t.finish(seq)
		if storeErr == nil && seq > t.committedSeq {
			t.committed = st
			t.committedSeq = seq
		}
		j := c.indexOf(id)
		if j >= 0 {
			c.orders[j].Status = t.current()
			updated = c.orders[j]
		}
		if len(t.inflight) == 0 {
			delete(c.tracks, id)
			if j >= 0 && t.committed != t.settled {
				change = &StatusChange{Order: updated, From: t.settled, To: t.committed}
			}
		}
	}
	c.mu.Unlock()

	if storeErr != nil {
		c.log.Warn("order_status_update_failed",
			logger.String("order_id", id),
			logger.String("status", string(st)),
			logger.Error(storeErr),
		)
		notify(ctx, n, noticeStatusFailed)
	} else {
		notify(ctx, n, StatusNotice(st))
	}

	if change != nil {
		for _, l := range c.listeners {
			if err := l.OrderStatusChanged(ctx, *change); err != nil {
				c.log.Warn("order_listener_failed", logger.String("order_id", id), logger.Error(err))
			}
		}
	}

	if storeErr != nil {
		return Order{}, fmt.Errorf("update status of order %s: %w", id, storeErr)
	}
	return updated, nil
}

// HandleDelete asks for confirmation and deletes order id. A declined
// confirmation returns (false, nil) without touching the store.
func (c *Console) HandleDelete(ctx context.Context, id string, confirm Confirmer, n Notifier) (bool, error) {
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return false, nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.Warn("order_delete_failed", logger.String("order_id", id), logger.Error(err))
		notify(ctx, n, noticeDeleteFailed)
		return false, fmt.Errorf("delete order %s: %w", id, err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.orders = append(c.orders[:i:i], c.orders[i+1:]...)
	}
	if c.selectedID == id {
		c.selectedID = ""
	}
	delete(c.tracks, id)
	c.mu.Unlock()

	notify(ctx, n, noticeDeleted)
	for _, l := range c.listeners {
		if err := l.OrderDeleted(ctx, id); err != nil {
			c.log.Warn("order_listener_failed", logger.String("order_id", id), logger.Error(err))
		}
	}
	return true, nil
}

// caller holds c.mu
func (c *Console) indexOf(id string) int {
	for i := range c.orders {
		if c.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func notify(ctx context.Context, n Notifier, notice Notice) {
	if n != nil {
		n.Notify(ctx, notice)
	}
}
