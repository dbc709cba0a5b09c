package contentapi

import (
	"context"
	"fmt"

	"orderdesk.io/app/internal/modules/orders"
)

// OrderStore is the orders.Store backed by the content API.
type OrderStore struct {
	client *Client
}

func NewOrderStore(c *Client) *OrderStore {
	return &OrderStore{client: c}
}

func (s *OrderStore) List(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	if err := s.client.Query(ctx, OrdersQuery, &out); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	for i := range out {
		if out[i].CartItems == nil {
			out[i].CartItems = []orders.CartItem{}
		}
	}
	return out, nil
}

func (s *OrderStore) SetStatus(ctx context.Context, id string, status orders.Status) error {
	_, err := s.client.Mutate(ctx, Mutation{
		Patch: &Patch{ID: id, Set: map[string]any{"status": string(status)}},
	})
	if isNotFound(err) {
		return orders.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("patch order: %w", err)
	}
	return nil
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	res, err := s.client.Mutate(ctx, Mutation{Delete: &DeleteDoc{ID: id}})
	if isNotFound(err) {
		return orders.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if len(res.Results) == 0 {
		return orders.ErrOrderNotFound
	}
	return nil
}
