package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/session"
	testlog "logistics-console/internal/testutil"
)

type failingStorage struct {
	session.MemoryStorage
	clearErr error
	loadErr  error
}

func (f *failingStorage) Load(ctx context.Context) (*session.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.MemoryStorage.Load(ctx)
}

func (f *failingStorage) Clear(ctx context.Context) error {
	_ = f.MemoryStorage.Clear(ctx)
	return f.clearErr
}

func TestSession_InitEmptyStorage_Cleared(t *testing.T) {
	t.Parallel()

	s := session.New(session.NewMemoryStorage(), nil)
	require.Equal(t, session.StateInit, s.State())

	require.NoError(t, s.Init(context.Background()))
	require.Equal(t, session.StateCleared, s.State())

	_, ok := s.Token()
	require.False(t, ok)
}

func TestSession_InitRestoresPersistedSnapshot(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStorage()
	require.NoError(t, store.Save(context.Background(), session.Snapshot{
		Token: "tok",
		User:  domain.User{ID: 7, Username: "ana"},
	}))

	s := session.New(store, nil)
	require.NoError(t, s.Init(context.Background()))
	require.True(t, s.Active())

	tok, ok := s.Token()
	require.True(t, ok)
	require.Equal(t, "tok", tok)

	u, ok := s.User()
	require.True(t, ok)
	require.Equal(t, "ana", u.Username)
}

func TestSession_ActivateThenClear(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	store := session.NewMemoryStorage()
	s := session.New(store, rec.Logger())
	require.NoError(t, s.Init(context.Background()))

	require.NoError(t, s.Activate(context.Background(), "abc", domain.User{ID: 1, Username: "ops"}))
	require.Equal(t, session.StateActive, s.State())

	persisted, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc", persisted.Token)

	require.NoError(t, s.Clear(context.Background()))
	require.Equal(t, session.StateCleared, s.State())

	persisted, err = store.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, persisted)

	require.Len(t, rec.Find("info", "session cleared"), 1)
}

func TestSession_ActivateEmptyToken_Invalid(t *testing.T) {
	t.Parallel()

	s := session.New(nil, nil)
	err := s.Activate(context.Background(), "", domain.User{})
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.Equal(t, session.StateInit, s.State())
}

func TestSession_ClearStorageError_StillClearsMemory(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	store := &failingStorage{clearErr: boom}
	s := session.New(store, nil)
	require.NoError(t, s.Activate(context.Background(), "abc", domain.User{}))

	err := s.Clear(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, s.Active())
}

func TestSession_InitLoadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt")
	s := session.New(&failingStorage{loadErr: boom}, nil)
	require.ErrorIs(t, s.Init(context.Background()), boom)
	require.Equal(t, session.StateInit, s.State())
}
