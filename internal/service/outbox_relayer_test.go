package service

import (
	"context"
	"errors"
	"testing"

	"Campus_Portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRelayerDrainOnce(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	for _, ev := range []string{model.EventClubCreated, model.EventJoinRequested, model.EventRequestApproved} {
		require.NoError(t, store.Outbox().Add(ctx, &model.ClubOutbox{EventType: ev, ClubID: 7, Payload: "{}"}))
	}

	var sent []string
	sender := func(_ context.Context, ob *model.ClubOutbox) error {
		if ob.EventType == model.EventJoinRequested {
			return errors.New("broker down")
		}
		sent = append(sent, ob.EventType)
		return nil
	}
	r := NewOutboxRelayer(store.Outbox(), sender, newTestLogger())

	r.drainOnce(ctx)
	assert.Equal(t, []string{model.EventClubCreated, model.EventRequestApproved}, sent)

	pending, err := store.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.OutboxFailed, pending[0].Status)
	assert.Equal(t, 1, pending[0].Retry)

	// 达到重试上限后不再投递
	for i := 1; i < model.OutboxMaxRetry; i++ {
		r.drainOnce(ctx)
	}
	pending, err = store.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRelayerRunStopsOnCancel(t *testing.T) {
	store := newMemStore()
	r := NewOutboxRelayer(store.Outbox(), LogSender(newTestLogger()), newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}
