package orders

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows serves canned rows; unused pgx.Rows methods stay nil.
type fakeRows struct {
	pgx.Rows
	data [][]any
	pos  int
}

func (r *fakeRows) Next() bool { r.pos++; return r.pos <= len(r.data) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.data[r.pos-1], dest)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

func scanInto(values, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(values[i]))
	}
	return nil
}

type execCall struct {
	sql  string
	args []any
}

type fakeTx struct {
	pgx.Tx
	row        fakeRow
	execs      []execCall
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row { return t.row }

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakePg struct {
	tables  map[string][][]any // keyed by the table a query reads
	execTag string
	tx      *fakeTx
	queries []execCall
}

func (p *fakePg) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(p.execTag), nil
}

func (p *fakePg) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	for _, table := range []string{"order_items", "order_events", "orders"} {
		if strings.Contains(sql, "FROM "+table) {
			return &fakeRows{data: p.tables[table]}, nil
		}
	}
	return nil, errors.New("unexpected query")
}

func (p *fakePg) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return p.tx, nil
}

func TestPgRepo_ListJoinsItems(t *testing.T) {
	date := time.Date(2024, 3, 2, 11, 0, 0, 0, time.FixedZone("CET", 3600))
	pg := &fakePg{tables: map[string][][]any{
		"orders": {
			{"A", "Ada", "Lovelace", int64(5550100), "ada@example.com", "1 Analytical Way", "N1", "London", 120.5, 0.0, date, strPtr("dispatch")},
			{"B", "Bob", "", int64(0), "", "", "", "", 8.0, 1.0, date.Add(-time.Hour), nil},
		},
		"order_items": {
			{"A", "Desk", strPtr("image-desk-100x100-png")},
			{"A", "Lamp", nil},
			{"Z", "Orphan", nil},
		},
	}}

	got, err := NewPgRepo(pg).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, StatusDispatch, got[0].Status)
	assert.Equal(t, "2024-03-02T10:00:00Z", got[0].OrderDate)
	assert.Equal(t, []CartItem{{Title: "Desk", Image: "image-desk-100x100-png"}, {Title: "Lamp"}}, got[0].CartItems)

	assert.Equal(t, Status(""), got[1].Status)
	assert.NotNil(t, got[1].CartItems)
	assert.Empty(t, got[1].CartItems)
}

func TestPgRepo_SetStatus(t *testing.T) {
	tx := &fakeTx{row: fakeRow{values: []any{strPtr("pending")}}}
	pg := &fakePg{tx: tx}

	require.NoError(t, NewPgRepo(pg).SetStatus(context.Background(), "A", StatusSuccess))

	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0].sql, "UPDATE orders")
	assert.Equal(t, "success", tx.execs[0].args[0])
	assert.Contains(t, tx.execs[1].sql, "INSERT INTO order_events")
	assert.Equal(t, strPtr("pending"), tx.execs[1].args[2])
	assert.True(t, tx.committed)
}

func TestPgRepo_SetStatusUnknownOrder(t *testing.T) {
	tx := &fakeTx{row: fakeRow{err: pgx.ErrNoRows}}
	pg := &fakePg{tx: tx}

	err := NewPgRepo(pg).SetStatus(context.Background(), "missing", StatusSuccess)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, tx.execs)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestPgRepo_Delete(t *testing.T) {
	pg := &fakePg{execTag: "DELETE 1"}
	repo := NewPgRepo(pg)

	require.NoError(t, repo.Delete(context.Background(), "A"))
	assert.Equal(t, []any{"A"}, pg.queries[0].args)

	pg.execTag = "DELETE 0"
	assert.ErrorIs(t, repo.Delete(context.Background(), "A"), ErrOrderNotFound)
}

func TestPgRepo_StatusHistory(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	pg := &fakePg{tables: map[string][][]any{
		"order_events": {
			{"A", nil, "dispatch", at},
			{"A", strPtr("dispatch"), "success", at.Add(time.Hour)},
		},
	}}

	got, err := NewPgRepo(pg).StatusHistory(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []StatusEvent{
		{OrderID: "A", From: "", To: StatusDispatch, At: at},
		{OrderID: "A", From: StatusDispatch, To: StatusSuccess, At: at.Add(time.Hour)},
	}, got)
	assert.Equal(t, []any{"A"}, pg.queries[0].args)
}
