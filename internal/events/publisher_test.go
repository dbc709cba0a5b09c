package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"orderdesk.io/app/internal/modules/orders"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	var out kgo.ProduceResults
	for _, r := range rs {
		out = append(out, kgo.ProduceResult{Record: r, Err: args.Error(0)})
	}
	return out
}

func (m *MockProducer) Close() { m.Called() }

var at = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestPublisher(p producer) *KafkaPublisher {
	pub := newPublisher(p, "order-events", nil)
	pub.now = func() time.Time { return at }
	return pub
}

func TestKafkaPublisher_StatusChanged(t *testing.T) {
	p := new(MockProducer)
	var got []*kgo.Record
	p.On("ProduceSync", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).([]*kgo.Record) }).
		Return(nil).Once()

	pub := newTestPublisher(p)
	err := pub.OrderStatusChanged(context.Background(), orders.StatusChange{
		Order: orders.Order{ID: "o1"},
		From:  orders.StatusPending,
		To:    orders.StatusDispatch,
	})
	require.NoError(t, err)
	p.AssertExpectations(t)

	require.Len(t, got, 1)
	rec := got[0]
	assert.Equal(t, "order-events", rec.Topic)
	assert.Equal(t, []byte("o1"), rec.Key)
	assert.Equal(t, at, rec.Timestamp)
	assert.Equal(t, []kgo.RecordHeader{{Key: "type", Value: []byte(TypeStatusChanged)}}, rec.Headers)

	var ev Event
	require.NoError(t, json.Unmarshal(rec.Value, &ev))
	assert.Equal(t, Event{Type: TypeStatusChanged, OrderID: "o1", From: "pending", To: "dispatch", At: at}, ev)
}

func TestKafkaPublisher_Deleted(t *testing.T) {
	p := new(MockProducer)
	var got []*kgo.Record
	p.On("ProduceSync", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).([]*kgo.Record) }).
		Return(nil).Once()

	require.NoError(t, newTestPublisher(p).OrderDeleted(context.Background(), "o2"))
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"type":"order.deleted","orderId":"o2","at":"2024-03-01T09:30:00Z"}`, string(got[0].Value))
}

func TestKafkaPublisher_ProduceError(t *testing.T) {
	p := new(MockProducer)
	p.On("ProduceSync", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := newTestPublisher(p).OrderDeleted(context.Background(), "o2")
	assert.ErrorContains(t, err, "broker down")
	assert.ErrorContains(t, err, TypeDeleted)
}

func TestKafkaPublisher_Close(t *testing.T) {
	p := new(MockProducer)
	p.On("Close").Return().Once()
	newTestPublisher(p).Close()
	p.AssertExpectations(t)
}
