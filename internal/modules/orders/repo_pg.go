package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgDB is the subset of *pgxpool.Pool the Postgres store uses.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// PgRepo is the pgx-backed Store, sharing the table layout of Repo.
type PgRepo struct {
	pool pgDB
}

func NewPgRepo(pool pgDB) *PgRepo {
	return &PgRepo{pool: pool}
}

// EnsureSchema creates the order tables when they do not exist yet.
func (r *PgRepo) EnsureSchema(ctx context.Context) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone BIGINT NOT NULL,
			email TEXT NOT NULL,
			address TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			city TEXT NOT NULL,
			total NUMERIC(12,2) NOT NULL,
			discount NUMERIC(12,2) NOT NULL,
			order_date TIMESTAMPTZ NOT NULL,
			status TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS order_items (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			title TEXT NOT NULL,
			image_ref TEXT NULL
		);
		CREATE TABLE IF NOT EXISTS order_events (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			from_status TEXT NULL,
			to_status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`
	_, err := r.pool.Exec(ctx, stmt)
	return err
}

func (r *PgRepo) List(ctx context.Context) ([]Order, error) {
	const ordersQuery = `
		SELECT id, first_name, last_name, phone, email, address, zip_code, city,
		       total::float8, discount::float8, order_date, status
		FROM orders
		ORDER BY order_date DESC, id ASC;
	`
	rows, err := r.pool.Query(ctx, ordersQuery)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			o      Order
			date   time.Time
			status *string
		)
		if err := rows.Scan(
			&o.ID,
			&o.FirstName,
			&o.LastName,
			&o.Phone,
			&o.Email,
			&o.Address,
			&o.ZipCode,
			&o.City,
			&o.Total,
			&o.Discount,
			&date,
			&status,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.OrderDate = date.UTC().Format(time.RFC3339)
		o.Status = Status(ptrStr(status))
		o.CartItems = []CartItem{}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const itemsQuery = `
		SELECT order_id, title, image_ref
		FROM order_items
		ORDER BY order_id, position ASC;
	`
	itemRows, err := r.pool.Query(ctx, itemsQuery)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			it      CartItem
			image   *string
		)
		if err := itemRows.Scan(&orderID, &it.Title, &image); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.Image = ptrStr(image)
		if i, ok := index[orderID]; ok {
			out[i].CartItems = append(out[i].CartItems, it)
		}
	}
	return out, itemRows.Err()
}

func (r *PgRepo) SetStatus(ctx context.Context, id string, status Status) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from *string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), now, id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO order_events (id, order_id, from_status, to_status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), id, from, string(status), now,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PgRepo) StatusHistory(ctx context.Context, id string) ([]StatusEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, from_status, to_status, created_at FROM order_events WHERE order_id = $1 ORDER BY created_at ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query order events: %w", err)
	}
	defer rows.Close()

	out := []StatusEvent{}
	for rows.Next() {
		var (
			ev   StatusEvent
			from *string
			to   string
		)
		if err := rows.Scan(&ev.OrderID, &from, &to, &ev.At); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		ev.From = Status(ptrStr(from))
		ev.To = Status(to)
		ev.At = ev.At.UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
