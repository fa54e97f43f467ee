package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

type recordingResetter struct {
	users []string
}

func (r *recordingResetter) ResetSession(_ context.Context, userID string) {
	r.users = append(r.users, userID)
}

func TestManager_LoginLogout(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()
	reset := &recordingResetter{}
	m := NewManager(adapter, logger.NewNop(), reset)

	sess, err := m.Login(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.Equal(t, "user-1", sess.UserID)
	require.False(t, sess.StartedAt.IsZero())
	require.Equal(t, []string{"user-1"}, reset.users)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, sess, got)

	// Sessions are distinct even for the same user.
	again, err := m.Login(ctx, "user-1")
	require.NoError(t, err)
	require.NotEqual(t, sess.ID, again.ID)

	m.Logout(sess.ID)
	_, ok = m.Get(sess.ID)
	require.False(t, ok)

	// Logging out an unknown session is harmless.
	m.Logout("nope")
}

func TestManager_LoginMigratesLegacyBlobs(t *testing.T) {
	ctx := context.Background()
	adapter := storage.NewMemory()
	m := NewManager(adapter, logger.NewNop())

	legacy := []byte(`{"totalEarned":50}`)
	require.NoError(t, adapter.Put(ctx, "", storage.KeyPoints, legacy))

	_, err := m.Login(ctx, "user-1")
	require.NoError(t, err)

	blob, err := adapter.Get(ctx, "user-1", storage.KeyPoints)
	require.NoError(t, err)
	require.Equal(t, legacy, blob)

	_, err = adapter.Get(ctx, "", storage.KeyPoints)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
