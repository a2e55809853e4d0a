package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("github.com/redis/go-redis/v9/internal/pool.(*ConnPool).reaper"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client)
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := NewOrder("d-42", time.Now())
	o.SelectSupplier(7)
	require.NoError(t, o.AddLineItem(catalogFixture()[0]))
	require.NoError(t, store.Save(ctx, o))

	loaded, err := store.Get(ctx, "d-42")
	require.NoError(t, err)
	require.Equal(t, o.ID, loaded.ID)
	require.Equal(t, o.OrderNo, loaded.OrderNo)
	require.Equal(t, int64(7), loaded.SupplierID)
	require.Len(t, loaded.Items, 1)
	require.True(t, loaded.ItemTotal.Equal(o.ItemTotal))
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	o := NewOrder("d-1", time.Now())
	require.NoError(t, store.Save(ctx, o))
	require.NoError(t, store.Delete(ctx, "d-1"))

	_, err := store.Get(ctx, "d-1")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "d-1"))
}

func TestStoreSubmitGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireSubmit(ctx, "d-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.AcquireSubmit(ctx, "d-1")
	require.NoError(t, err)
	require.False(t, ok)

	// A different draft is unaffected.
	ok, err = store.AcquireSubmit(ctx, "d-2")
	require.NoError(t, err)
	require.True(t, ok)

	store.ReleaseSubmit(ctx, "d-1")
	ok, err = store.AcquireSubmit(ctx, "d-1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestStoreSweepRemovesStaleDrafts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stale := NewOrder("stale", time.Now())
	stale.UpdatedAt = time.Now().Add(-100 * time.Hour)
	require.NoError(t, store.Save(ctx, stale))

	fresh := NewOrder("fresh", time.Now())
	require.NoError(t, store.Save(ctx, fresh))

	removed, err := store.Sweep(ctx, 72*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = store.Get(ctx, "stale")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestStoreSweepSkipsSubmitGuards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.AcquireSubmit(ctx, "d-1")
	require.NoError(t, err)
	require.True(t, ok)

	removed, err := store.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}
