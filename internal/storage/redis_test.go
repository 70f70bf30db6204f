package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs := NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func TestRedisPing(t *testing.T) {
	rs, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rs.Ping(ctx))

	mr.Close()
	assert.Error(t, rs.Ping(ctx))
}

func TestRedisSessionRoundTrip(t *testing.T) {
	rs, _ := setupTestRedis(t)
	ctx := context.Background()
	id := uuid.New()

	gs := state.New(state.Config{StartLocation: "harbor_inn"})
	gs.Flags["storm"] = true
	gs.Dialogue = &state.Cursor{DialogueID: "intro", NodeID: "start"}
	saved := &state.SavedGame{
		Version: state.SaveVersion,
		RNGSeed: 42,
		RNGPos:  3,
		State:   gs,
	}

	require.NoError(t, rs.SaveSession(ctx, id, saved))

	loaded, err := rs.LoadSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, state.SaveVersion, loaded.Version)
	assert.Equal(t, int64(42), loaded.RNGSeed)
	assert.Equal(t, int64(3), loaded.RNGPos)
	assert.Equal(t, "harbor_inn", loaded.State.Location)
	assert.True(t, loaded.State.Flags["storm"])
	require.NotNil(t, loaded.State.Dialogue)
	assert.Equal(t, "intro", loaded.State.Dialogue.DialogueID)
}

func TestRedisLoadMissingSession(t *testing.T) {
	rs, _ := setupTestRedis(t)

	loaded, err := rs.LoadSession(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisSessionTTL(t *testing.T) {
	rs, mr := setupTestRedis(t)
	ctx := context.Background()
	id := uuid.New()

	saved := &state.SavedGame{Version: state.SaveVersion, State: state.New(state.Config{})}
	require.NoError(t, rs.SaveSession(ctx, id, saved))

	mr.FastForward(SessionTTL + 1)

	loaded, err := rs.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, loaded, "session should expire after the TTL")
}

func TestRedisDeleteSession(t *testing.T) {
	rs, _ := setupTestRedis(t)
	ctx := context.Background()
	id := uuid.New()

	saved := &state.SavedGame{Version: state.SaveVersion, State: state.New(state.Config{})}
	require.NoError(t, rs.SaveSession(ctx, id, saved))
	require.NoError(t, rs.DeleteSession(ctx, id))

	loaded, err := rs.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting a missing session is not an error.
	assert.NoError(t, rs.DeleteSession(ctx, uuid.New()))
}
