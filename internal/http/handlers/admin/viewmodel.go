package admin

import (
	"context"

	"orderdesk.io/app/internal/imageurl"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
	"orderdesk.io/app/pkg/view"
)

// pageBuilder maps console snapshots to template view models.
type pageBuilder struct {
	images   imageurl.Resolver
	currency string
	log      logger.Logger
}

func (b pageBuilder) dashboard(ctx context.Context, v orders.View) view.DashboardPage {
	page := view.DashboardPage{
		Filter:       string(v.Filter),
		DeletePrompt: orders.DeletePrompt.Title + " " + orders.DeletePrompt.Text,
		Orders:       make([]view.OrderRow, 0, len(v.Orders)),
	}
	for _, f := range orders.Filters {
		page.Filters = append(page.Filters, view.FilterTab{
			Value:  string(f),
			Label:  f.Label(),
			Count:  v.Counts.For(f),
			Active: f == v.Filter,
		})
	}
	for _, o := range v.Orders {
		page.Orders = append(page.Orders, b.row(ctx, o, o.ID == v.SelectedOrderID))
	}
	return page
}

func (b pageBuilder) row(ctx context.Context, o orders.Order, expanded bool) view.OrderRow {
	st := o.NormalizedStatus()
	r := view.OrderRow{
		ID:          o.ID,
		Customer:    o.CustomerName(),
		Email:       o.Email,
		Phone:       view.Phone(o.Phone),
		Address:     o.Address,
		City:        o.City,
		ZipCode:     o.ZipCode,
		Total:       view.Money(o.Total, b.currency),
		Discount:    view.Money(o.Discount, b.currency),
		Date:        view.Date(o.OrderDate),
		Status:      string(st),
		StatusLabel: st.Label(),
		Expanded:    expanded,
	}
	for _, s := range orders.Statuses {
		r.StatusOptions = append(r.StatusOptions, view.StatusOption{
			Value:    string(s),
			Label:    s.Label(),
			Selected: s == st,
		})
	}
	// images are only resolved for the expanded order
	if expanded {
		for _, it := range o.CartItems {
			r.Items = append(r.Items, view.OrderItemRow{Title: it.Title, ImageURL: b.imageURL(ctx, it.Image)})
		}
	}
	return r
}

// imageURL never fails the page: an unresolvable image renders without a
// picture.
func (b pageBuilder) imageURL(ctx context.Context, ref string) string {
	if ref == "" || b.images == nil {
		return ""
	}
	u, err := b.images.URL(ctx, ref)
	if err != nil {
		b.log.Debug("image_url_unresolved", logger.String("ref", ref), logger.Error(err))
		return ""
	}
	return u
}

type itemJSON struct {
	Title    string `json:"title"`
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type orderJSON struct {
	orders.Order
	DisplayStatus orders.Status `json:"displayStatus"`
	CartItems     []itemJSON    `json:"cartItems"`
}

type viewJSON struct {
	Filter          orders.Filter `json:"filter"`
	Counts          orders.Counts `json:"counts"`
	SelectedOrderID string        `json:"selectedOrderId,omitempty"`
	Orders          []orderJSON   `json:"orders"`
}

func (b pageBuilder) order(ctx context.Context, o orders.Order) orderJSON {
	out := orderJSON{Order: o, DisplayStatus: o.NormalizedStatus(), CartItems: make([]itemJSON, 0, len(o.CartItems))}
	for _, it := range o.CartItems {
		out.CartItems = append(out.CartItems, itemJSON{Title: it.Title, Image: it.Image, ImageURL: b.imageURL(ctx, it.Image)})
	}
	return out
}

func (b pageBuilder) json(ctx context.Context, v orders.View) viewJSON {
	out := viewJSON{
		Filter:          v.Filter,
		Counts:          v.Counts,
		SelectedOrderID: v.SelectedOrderID,
		Orders:          make([]orderJSON, 0, len(v.Orders)),
	}
	for _, o := range v.Orders {
		out.Orders = append(out.Orders, b.order(ctx, o))
	}
	return out
}
