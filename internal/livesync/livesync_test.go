package livesync

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

const waitFor = 3 * time.Second
const tick = 10 * time.Millisecond

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func newTestListener(t *testing.T) (*Listener, *remote.MemoryStore, *storage.Storage, *notify.Hub) {
	t.Helper()
	s, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "livesync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := newTestLogger()
	delegator := operator.NewOperatorDelegator(s, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	store := remote.NewMemoryStore()
	hub := notify.NewHub()
	listener := NewListener(store, delegator, hub, logger)
	t.Cleanup(listener.StopAll)
	return listener, store, s, hub
}

func transactionDoc() remote.TransactionDocument {
	return remote.TransactionDocument{
		ID:     uuid.Must(uuid.NewV4()).String(),
		Amount: 18.48,
		Type:   "expense",
		Date:   time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC),
	}
}

func localExists(s *storage.Storage, docID string) bool {
	_, err := s.Reader.Transactions.FindByID(context.Background(), uuid.FromStringOrNil(docID))
	return err == nil
}

// -- Listener tests --

func TestListener_MergesInitialAndLaterChanges(t *testing.T) {
	listener, store, s, hub := newTestListener(t)
	ctx := context.Background()

	existing := transactionDoc()
	require.NoError(t, store.PutTransaction(ctx, "alice", existing))

	events, cancel := hub.Subscribe()
	defer cancel()

	require.NoError(t, listener.Start(ctx, "alice"))
	assert.True(t, listener.Active("alice"))
	assert.Eventually(t, func() bool { return localExists(s, existing.ID) }, waitFor, tick)

	later := transactionDoc()
	require.NoError(t, store.PutTransaction(ctx, "alice", later))
	assert.Eventually(t, func() bool { return localExists(s, later.ID) }, waitFor, tick)

	select {
	case event := <-events:
		require.NotNil(t, event.RecordsChanged)
		assert.Equal(t, "alice", event.RecordsChanged.Owner)
		assert.Equal(t, notify.RecordTypeTransaction, event.RecordsChanged.RecordType)
	case <-time.After(waitFor):
		t.Fatal("no records-changed event")
	}
}

func TestListener_PropagatesRemoteRemoval(t *testing.T) {
	listener, store, s, _ := newTestListener(t)
	ctx := context.Background()

	doc := transactionDoc()
	require.NoError(t, store.PutTransaction(ctx, "alice", doc))
	require.NoError(t, listener.Start(ctx, "alice"))
	require.Eventually(t, func() bool { return localExists(s, doc.ID) }, waitFor, tick)

	require.NoError(t, store.Delete(ctx, "alice", remote.RecordTypeTransaction, doc.ID))
	assert.Eventually(t, func() bool { return !localExists(s, doc.ID) }, waitFor, tick)
}

func TestListener_CategoriesMergedWithOwner(t *testing.T) {
	listener, store, s, _ := newTestListener(t)
	ctx := context.Background()

	id := uuid.Must(uuid.NewV4())
	require.NoError(t, listener.Start(ctx, "alice"))
	require.NoError(t, store.PutCategory(ctx, "alice", remote.CategoryDocument{ID: id.String(), Name: "Pets", Type: "expense"}))

	assert.Eventually(t, func() bool {
		category, err := s.Reader.Categories.FindByID(ctx, id)
		return err == nil && category.OwnerID != nil && *category.OwnerID == "alice"
	}, waitFor, tick)
}

func TestListener_StopEndsMerging(t *testing.T) {
	listener, store, s, _ := newTestListener(t)
	ctx := context.Background()

	require.NoError(t, listener.Start(ctx, "alice"))
	require.NoError(t, listener.Start(ctx, "alice"))
	listener.Stop("alice")
	assert.False(t, listener.Active("alice"))

	doc := transactionDoc()
	require.NoError(t, store.PutTransaction(ctx, "alice", doc))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, localExists(s, doc.ID))

	count, err := s.Reader.Transactions.Count(ctx, &sqlconfig.TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListener_SubscribeFailure(t *testing.T) {
	store := remote.NewMockStore(t)
	logger := newTestLogger()
	listener := NewListener(store, nil, notify.NewHub(), logger)

	store.EXPECT().Subscribe(mock.Anything, "alice", remote.RecordTypeCategory).Return(nil, errors.New("denied"))

	err := listener.Start(context.Background(), "alice")
	assert.ErrorContains(t, err, "denied")
	assert.False(t, listener.Active("alice"))
}

// -- Outbound tests --

func TestOutbound_WritesReachRemote(t *testing.T) {
	store := remote.NewMemoryStore()
	out := NewOutbound(store, 2, 16, newTestLogger())
	out.Start()
	ctx := context.Background()

	doc := transactionDoc()
	out.PutTransaction("alice", doc)
	out.PutCategory("alice", remote.CategoryDocument{ID: "c1", Name: "Pets", Type: "expense"})
	out.Stop()

	snap, err := store.FetchAll(ctx, "alice", remote.RecordTypeTransaction)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, doc.ID, snap.Transactions[0].ID)

	snap, err = store.FetchAll(ctx, "alice", remote.RecordTypeCategory)
	require.NoError(t, err)
	assert.Len(t, snap.Categories, 1)
}

func TestOutbound_FailuresReported(t *testing.T) {
	store := remote.NewMockStore(t)
	store.EXPECT().Delete(mock.Anything, "alice", remote.RecordTypeTransaction, "t1").Return(errors.New("unavailable"))

	out := NewOutbound(store, 1, 4, newTestLogger())
	out.Start()
	out.Delete("alice", remote.RecordTypeTransaction, "t1")

	select {
	case failure := <-out.Failures():
		assert.Equal(t, "t1", failure.Op.DeleteID)
		assert.EqualError(t, failure.Err, "unavailable")
	case <-time.After(waitFor):
		t.Fatal("no failure reported")
	}
	out.Stop()
}

func TestOutbound_PublishAfterStop(t *testing.T) {
	out := NewOutbound(remote.NewMemoryStore(), 1, 1, newTestLogger())
	out.Start()
	out.Stop()

	out.Delete("alice", remote.RecordTypeCategory, "c1")

	failure := <-out.Failures()
	assert.ErrorIs(t, failure.Err, ErrOutboundStopped)
}
