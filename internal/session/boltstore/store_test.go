package boltstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/domain"
	"logistics-console/internal/session"
	"logistics-console/internal/session/boltstore"
)

func openTemp(t *testing.T) (*boltstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	st, err := boltstore.Open(path)
	require.NoError(t, err)
	return st, path
}

func TestStore_EmptyLoadReturnsNil(t *testing.T) {
	st, _ := openTemp(t)
	defer st.Close()

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	st, path := openTemp(t)

	require.NoError(t, st.Save(ctx, session.Snapshot{
		Token: "bearer-1",
		User:  domain.User{ID: 3, Username: "dispatch", Role: "admin"},
	}))
	require.NoError(t, st.Close())

	reopened, err := boltstore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, "bearer-1", snap.Token)
	require.Equal(t, domain.User{ID: 3, Username: "dispatch", Role: "admin"}, snap.User)
}

func TestStore_ClearRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)
	defer st.Close()

	require.NoError(t, st.Save(ctx, session.Snapshot{Token: "x"}))
	require.NoError(t, st.Clear(ctx))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestStore_BacksSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)
	defer st.Close()

	s := session.New(st, nil)
	require.NoError(t, s.Init(ctx))
	require.Equal(t, session.StateCleared, s.State())

	require.NoError(t, s.Activate(ctx, "tok", domain.User{Username: "ana"}))

	restored := session.New(st, nil)
	require.NoError(t, restored.Init(ctx))
	require.True(t, restored.Active())
}
