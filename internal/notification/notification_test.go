package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushNotification_DeliversToHandler(t *testing.T) {
	received := make(chan Notification, 1)
	OnNotification(func(ctx context.Context, n Notification) {
		received <- n
	})

	PushNotification(context.Background(), NameEventsLock, map[string]interface{}{
		"item": "abc",
	})

	select {
	case n := <-received:
		assert.Equal(t, NameEventsLock, n.Name)
		assert.Equal(t, "abc", n.Payload["item"])
		assert.NotZero(t, n.CreatedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được notification")
	}
}

func TestPushNotification_PanicInHandlerDoesNotPropagate(t *testing.T) {
	OnNotification(func(ctx context.Context, n Notification) {
		panic("handler lỗi")
	})
	done := make(chan struct{}, 1)
	OnNotification(func(ctx context.Context, n Notification) {
		done <- struct{}{}
	})

	require.NotPanics(t, func() {
		PushNotification(context.Background(), NamePlanningUpdated, nil)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler lành không được gọi khi handler khác panic")
	}
}

func TestLockNameFor(t *testing.T) {
	assert.Equal(t, "events:lock", LockNameFor("events", true))
	assert.Equal(t, "planning:unlock", LockNameFor("planning", false))
}
