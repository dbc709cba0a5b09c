package orders

import "strings"

// Status is an order's fulfillment status. The zero value means the store
// holds no status for the order.
type Status string

const (
	StatusPending  Status = "pending"
	StatusDispatch Status = "dispatch"
	StatusSuccess  Status = "success"
)

// Statuses lists the closed set of assignable statuses in display order.
var Statuses = []Status{StatusPending, StatusDispatch, StatusSuccess}

// ParseStatus normalizes s to lower case and checks it against the closed set.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Normalize lower-cases the status and maps an absent one to pending.
// Only used for comparison and display; never persisted.
func (s Status) Normalize() Status {
	n := Status(strings.ToLower(strings.TrimSpace(string(s))))
	if n == "" {
		return StatusPending
	}
	return n
}

// Label is the human readable form used in the status selector.
func (s Status) Label() string {
	switch s.Normalize() {
	case StatusDispatch:
		return "Dispatched"
	case StatusSuccess:
		return "Success"
	default:
		return "Pending"
	}
}

type CartItem struct {
	Title string `json:"title"`
	// Image is an opaque image reference resolved by imageurl.Resolver.
	Image string `json:"image,omitempty"`
}

type Order struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     int64      `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	ZipCode   string     `json:"zipCode"`
	City      string     `json:"city"`
	Total     float64    `json:"total"`
	Discount  float64    `json:"discount"`
	OrderDate string     `json:"orderDate"`
	Status    Status     `json:"status"`
	CartItems []CartItem `json:"cartItems"`
}

func (o Order) NormalizedStatus() Status { return o.Status.Normalize() }

func (o Order) CustomerName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}
