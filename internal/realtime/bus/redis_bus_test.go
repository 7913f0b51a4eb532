package bus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/questlearn-backend/internal/data/repos/testutil"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

func TestNewRedisBusValidation(t *testing.T) {
	log := testutil.Logger(t)
	_, rdb := testutil.Redis(t)

	_, err := NewRedisBus(nil, rdb, "x")
	assert.Error(t, err)
	_, err = NewRedisBus(log, nil, "x")
	assert.Error(t, err)

	b, err := NewRedisBus(log, rdb, "  ")
	require.NoError(t, err)
	assert.Equal(t, "questlearn:sse", b.(*redisBus).channel)
	assert.Error(t, b.StartForwarder(context.Background(), nil))
}

func TestRedisBusFansOutAcrossReplicas(t *testing.T) {
	log := testutil.Logger(t)
	mr, rdb := testutil.Redis(t)
	peer := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = peer.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const channel = "test:sse"
	local, err := NewRedisBus(log, rdb, channel)
	require.NoError(t, err)
	remote, err := NewRedisBus(log, peer, channel)
	require.NoError(t, err)

	gotLocal := make(chan realtime.SSEMessage, 4)
	gotRemote := make(chan realtime.SSEMessage, 4)
	require.NoError(t, local.StartForwarder(ctx, func(m realtime.SSEMessage) { gotLocal <- m }))
	require.NoError(t, remote.StartForwarder(ctx, func(m realtime.SSEMessage) { gotRemote <- m }))

	// Undecodable payloads are dropped, the forwarder keeps going.
	mr.Publish(channel, "not json")
	msg := realtime.ToUser(uuid.New(), realtime.SSEEventXPAwarded, map[string]int{"xp_gained": 10})
	require.NoError(t, local.Publish(ctx, msg))

	for name, ch := range map[string]chan realtime.SSEMessage{"local": gotLocal, "remote": gotRemote} {
		select {
		case m := <-ch:
			assert.Equal(t, msg.Channel, m.Channel, name)
			assert.Equal(t, msg.Event, m.Event, name)
			assert.Equal(t, map[string]any{"xp_gained": 10.0}, m.Data, name)
		case <-time.After(2 * time.Second):
			t.Fatalf("%s replica did not receive the message", name)
		}
	}
	assert.NoError(t, local.Close())
}
