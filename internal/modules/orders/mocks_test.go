package orders

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context) ([]Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockStore) SetStatus(ctx context.Context, id string, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockListener struct {
	mock.Mock
}

func (m *MockListener) OrderStatusChanged(ctx context.Context, ch StatusChange) error {
	return m.Called(ctx, ch).Error(0)
}

func (m *MockListener) OrderDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// noticeRecorder collects notices in order.
type noticeRecorder struct {
	notices []Notice
}

func (r *noticeRecorder) Notify(_ context.Context, n Notice) {
	r.notices = append(r.notices, n)
}

func answer(yes bool) Confirmer {
	return ConfirmerFunc(func(context.Context, Prompt) bool { return yes })
}
