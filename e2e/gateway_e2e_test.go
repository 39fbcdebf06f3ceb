//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/displaykit/network/pkg/config"
	"github.com/displaykit/network/pkg/notify"
)

func TestE2E_NotifyRoundTrip(t *testing.T) {
	base := startGateway(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subscriber := NewDisplayClient(t, base)
	publisher := NewDisplayClient(t, base)

	displayKey := GenerateDisplayKey()
	events := subscribe(t, ctx, subscriber, displayKey)
	waitForDisplayConnected(t, publisher, displayKey)

	delivered, err := publisher.Notify(ctx, displayKey, notify.EventDisplayUpdated,
		map[string]string{"displayId": displayKey, "action": "update"})
	require.NoError(t, err, "notify failed")
	require.True(t, delivered, "expected delivery to a connected display")

	recvCtx, recvCancel := context.WithTimeout(ctx, 10*time.Second)
	defer recvCancel()
	ev, err := waitForEvent(recvCtx, events)
	require.NoError(t, err)
	require.Equal(t, notify.EventDisplayUpdated, ev.Event)
	require.JSONEq(t, `{"displayId":"`+displayKey+`","action":"update"}`, string(ev.Data))

	st, err := publisher.Status(ctx, displayKey)
	require.NoError(t, err)
	require.True(t, st.IsConnected)
	require.Equal(t, 1, st.ConnectionCount)
}

func TestE2E_BroadcastReachesAllDisplays(t *testing.T) {
	base := startGateway(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	keyA := GenerateDisplayKey()
	keyB := GenerateDisplayKey()

	clientA := NewDisplayClient(t, base)
	clientB := NewDisplayClient(t, base)
	publisher := NewDisplayClient(t, base)

	eventsA := subscribe(t, ctx, clientA, keyA)
	eventsB := subscribe(t, ctx, clientB, keyB)
	waitForDisplayConnected(t, publisher, keyA)
	waitForDisplayConnected(t, publisher, keyB)

	displays, err := publisher.ConnectedDisplays(ctx)
	require.NoError(t, err)
	require.Len(t, displays, 2)

	notified, err := publisher.Broadcast(ctx, notify.EventReservationCreated,
		map[string]string{"reservationId": "res-42"})
	require.NoError(t, err)
	require.Equal(t, 2, notified, "broadcast should reach both displays")

	recvCtx, recvCancel := context.WithTimeout(ctx, 10*time.Second)
	defer recvCancel()
	for _, ch := range []chan displayEvent{eventsA, eventsB} {
		ev, err := waitForEvent(recvCtx, ch)
		require.NoError(t, err)
		require.Equal(t, notify.EventReservationCreated, ev.Event)
		require.JSONEq(t, `{"reservationId":"res-42"}`, string(ev.Data))
	}
}

func TestE2E_UnknownDisplay(t *testing.T) {
	base := startGateway(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := NewDisplayClient(t, base)

	delivered, err := c.Notify(ctx, "never-connected", notify.EventDisplayUpdated, nil)
	require.NoError(t, err, "publishing to an unknown display is not an error")
	require.False(t, delivered)

	st, err := c.Status(ctx, "never-connected")
	require.NoError(t, err)
	require.False(t, st.IsConnected)
	require.Equal(t, 0, st.ConnectionCount)
}

func TestE2E_HealthAndVersion(t *testing.T) {
	base := startGateway(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := NewDisplayClient(t, base)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)
	require.NotEmpty(t, h.Uptime)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, v)
}

func TestE2E_KeepAliveDoesNotDisturbStream(t *testing.T) {
	base := startGateway(t, func(cfg *config.Config) {
		cfg.Notify.KeepAliveInterval = 50 * time.Millisecond
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subscriber := NewDisplayClient(t, base)
	publisher := NewDisplayClient(t, base)

	displayKey := GenerateDisplayKey()
	events := subscribe(t, ctx, subscriber, displayKey)
	waitForDisplayConnected(t, publisher, displayKey)

	// Let several keep-alive comments pass through the stream first.
	time.Sleep(250 * time.Millisecond)

	delivered, err := publisher.Notify(ctx, displayKey, notify.EventReservationUpdated,
		map[string]string{"roomId": "r1"})
	require.NoError(t, err)
	require.True(t, delivered)

	recvCtx, recvCancel := context.WithTimeout(ctx, 10*time.Second)
	defer recvCancel()
	ev, err := waitForEvent(recvCtx, events)
	require.NoError(t, err)
	require.Equal(t, notify.EventReservationUpdated, ev.Event)
	require.JSONEq(t, `{"roomId":"r1"}`, string(ev.Data))
}

func TestE2E_MultipleConnectionsPerDisplay(t *testing.T) {
	base := startGateway(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	displayKey := GenerateDisplayKey()
	first := NewDisplayClient(t, base)
	second := NewDisplayClient(t, base)
	publisher := NewDisplayClient(t, base)

	eventsFirst := subscribe(t, ctx, first, displayKey)
	eventsSecond := subscribe(t, ctx, second, displayKey)

	waitUntil(t, 5*time.Second, func() bool {
		stCtx, stCancel := context.WithTimeout(ctx, 2*time.Second)
		defer stCancel()
		st, err := publisher.Status(stCtx, displayKey)
		return err == nil && st.ConnectionCount == 2
	}, "both connections never attached")

	delivered, err := publisher.Notify(ctx, displayKey, notify.EventDisplayUpdated,
		map[string]string{"displayId": displayKey, "action": "update"})
	require.NoError(t, err)
	require.True(t, delivered)

	recvCtx, recvCancel := context.WithTimeout(ctx, 10*time.Second)
	defer recvCancel()
	for _, ch := range []chan displayEvent{eventsFirst, eventsSecond} {
		ev, err := waitForEvent(recvCtx, ch)
		require.NoError(t, err)
		require.Equal(t, notify.EventDisplayUpdated, ev.Event)
	}
}
