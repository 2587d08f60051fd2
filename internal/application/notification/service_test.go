package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/medimate-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) MarkAsRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func TestListUnread(t *testing.T) {
	st := &mockStore{}
	st.On("ListUnread", mock.Anything, "u1").
		Return([]domain.Notification{{NotificationID: "n1", Kind: domain.NotificationKindReminder}}, nil)

	ns, err := NewService(st).ListUnread(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "n1", ns[0].NotificationID)
}

func TestMarkAsRead_OwnRecord(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u1"}, nil)
	st.On("MarkAsRead", mock.Anything, "n1").Return(nil)

	require.NoError(t, NewService(st).MarkAsRead(context.Background(), "u1", "n1"))
}

func TestMarkAsRead_ForeignRecord(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u2"}, nil)

	err := NewService(st).MarkAsRead(context.Background(), "u1", "n1")

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	st.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_Missing(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	err := NewService(st).MarkAsRead(context.Background(), "u1", "nope")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
