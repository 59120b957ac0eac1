package reconcile

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

type testEnv struct {
	engine    *Engine
	remote    *remote.MemoryStore
	storage   *storage.Storage
	delegator *operator.OperatorDelegator
	hub       *notify.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, nil)
}

func newTestEnvWithStore(t *testing.T, store remote.Store) *testEnv {
	t.Helper()
	s, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "reconcile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := logrus.New()
	logger.Out = io.Discard

	delegator := operator.NewOperatorDelegator(s, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	memory := remote.NewMemoryStore()
	if store == nil {
		store = memory
	}
	hub := notify.NewHub()
	return &testEnv{
		engine:    NewEngine(store, s.Reader, delegator, hub, logger),
		remote:    memory,
		storage:   s,
		delegator: delegator,
		hub:       hub,
	}
}

func strPtr(s string) *string {
	return &s
}

func (env *testEnv) putRemoteTransaction(t *testing.T, owner string, categoryID *string) string {
	t.Helper()
	id := uuid.Must(uuid.NewV4()).String()
	require.NoError(t, env.remote.PutTransaction(context.Background(), owner, remote.TransactionDocument{
		ID:         id,
		Amount:     12.5,
		Type:       "expense",
		CategoryID: categoryID,
		Date:       time.Date(2025, 11, 13, 20, 26, 0, 0, time.UTC),
	}))
	return id
}

func (env *testEnv) putRemoteCategory(t *testing.T, owner string) string {
	t.Helper()
	id := uuid.Must(uuid.NewV4()).String()
	require.NoError(t, env.remote.PutCategory(context.Background(), owner, remote.CategoryDocument{
		ID:    id,
		Name:  "Coffee",
		Color: strPtr("#abc"),
		Type:  "expense",
	}))
	return id
}

func (env *testEnv) localTransactionIDs(t *testing.T, owner string) []string {
	t.Helper()
	txns, err := env.storage.Reader.Transactions.List(context.Background(), &sqlconfig.TransactionFilter{OwnerID: &owner})
	require.NoError(t, err)
	ids := make([]string, 0, len(txns))
	for _, txn := range txns {
		ids = append(ids, txn.ID.String())
	}
	sort.Strings(ids)
	return ids
}

func (env *testEnv) localOwnedCategoryIDs(t *testing.T, owner string) []string {
	t.Helper()
	cats, err := env.storage.Reader.Categories.List(context.Background(), &sqlconfig.CategoryFilter{OwnerID: &owner, OwnedOnly: true})
	require.NoError(t, err)
	ids := make([]string, 0, len(cats))
	for _, category := range cats {
		ids = append(ids, category.ID.String())
	}
	sort.Strings(ids)
	return ids
}

func (env *testEnv) remoteIDs(t *testing.T, owner string, recordType remote.RecordType) []string {
	t.Helper()
	snap, err := env.remote.FetchAll(context.Background(), owner, recordType)
	require.NoError(t, err)
	var ids []string
	for _, doc := range snap.Transactions {
		ids = append(ids, doc.ID)
	}
	for _, doc := range snap.Categories {
		ids = append(ids, doc.ID)
	}
	sort.Strings(ids)
	return ids
}

func (env *testEnv) defaultCount(t *testing.T) int64 {
	t.Helper()
	n, err := env.storage.Reader.Categories.Count(context.Background(), nil)
	require.NoError(t, err)
	return n
}

// -- Converge tests --

func TestConverge_EmptyStoresNeedNoResync(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.engine.Converge(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, result.Resynced)
	assert.Equal(t, notify.SyncStateIdle, env.hub.Status().State)
}

func TestConverge_ResyncMirrorsRemote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	categoryID := env.putRemoteCategory(t, "alice")
	env.putRemoteTransaction(t, "alice", &categoryID)
	env.putRemoteTransaction(t, "alice", nil)
	env.putRemoteTransaction(t, "bob", nil)

	events, cancel := env.hub.Subscribe()
	defer cancel()

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)
	assert.Equal(t, 3, result.Mutations.Inserted)

	assert.Equal(t, env.remoteIDs(t, "alice", remote.RecordTypeTransaction), env.localTransactionIDs(t, "alice"))
	assert.Equal(t, env.remoteIDs(t, "alice", remote.RecordTypeCategory), env.localOwnedCategoryIDs(t, "alice"))
	assert.Empty(t, env.localTransactionIDs(t, "bob"))

	category, err := env.storage.Reader.Categories.FindByID(ctx, uuid.FromStringOrNil(categoryID))
	require.NoError(t, err)
	assert.Equal(t, "#AABBCC", *category.Color)
	assert.Equal(t, DefaultIcon, *category.Icon)

	var changed []notify.RecordType
	for len(events) > 0 {
		event := <-events
		if event.RecordsChanged != nil {
			changed = append(changed, event.RecordsChanged.RecordType)
		}
	}
	assert.ElementsMatch(t, []notify.RecordType{notify.RecordTypeCategory, notify.RecordTypeTransaction}, changed)
}

func TestConverge_SecondRunMakesNoMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	categoryID := env.putRemoteCategory(t, "alice")
	env.putRemoteTransaction(t, "alice", &categoryID)

	first, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	require.True(t, first.Resynced)

	second, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, second.Resynced)
	assert.Zero(t, second.Mutations.Mutations())
}

func TestConverge_RemovesLocalRecordsMissingRemotely(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := &sqlconfig.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		Amount:    decimalFromString(t, "3"),
		Direction: sqlconfig.DirectionIncome,
		Date:      time.Now(),
		OwnerID:   "alice",
	}
	require.NoError(t, env.delegator.Process(ctx, &actions.UpsertTransaction{Transaction: stale}))
	env.putRemoteTransaction(t, "alice", nil)
	env.putRemoteTransaction(t, "alice", nil)

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)
	assert.Equal(t, env.remoteIDs(t, "alice", remote.RecordTypeTransaction), env.localTransactionIDs(t, "alice"))
}

func TestConverge_SameCountDifferentIDsResyncs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	local := &sqlconfig.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		Amount:    decimalFromString(t, "3"),
		Direction: sqlconfig.DirectionExpense,
		Date:      time.Now(),
		OwnerID:   "alice",
	}
	require.NoError(t, env.delegator.Process(ctx, &actions.UpsertTransaction{Transaction: local}))
	remoteID := env.putRemoteTransaction(t, "alice", nil)

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)
	assert.Contains(t, result.Reason, "missing locally")
	assert.Equal(t, []string{remoteID}, env.localTransactionIDs(t, "alice"))
}

func TestConverge_DefaultsSurviveResync(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	before := env.defaultCount(t)

	food := storage.DefaultCategoryID(sqlconfig.DirectionExpense, "Food").String()
	env.putRemoteTransaction(t, "alice", &food)

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	require.True(t, result.Resynced)
	assert.Equal(t, before, env.defaultCount(t))

	txns, err := env.storage.Reader.Transactions.List(ctx, &sqlconfig.TransactionFilter{OwnerID: strPtr("alice")})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].CategoryID)
	assert.Equal(t, food, txns[0].CategoryID.String())

	second, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, second.Resynced)
}

func TestConverge_RemoteDefaultFlagIgnoredForUnknownID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	require.NoError(t, env.remote.PutCategory(ctx, "alice", remote.CategoryDocument{
		ID:        id.String(),
		Name:      "Alice Secret",
		Type:      "expense",
		IsDefault: true,
	}))

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)

	category, err := env.storage.Reader.Categories.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, category.IsDefault)
	require.NotNil(t, category.OwnerID)
	assert.Equal(t, "alice", *category.OwnerID)

	bobs, err := env.storage.Reader.Categories.List(ctx, &sqlconfig.CategoryFilter{OwnerID: strPtr("bob")})
	require.NoError(t, err)
	for _, c := range bobs {
		assert.NotEqual(t, id, c.ID)
	}

	second, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, second.Resynced)

	require.NoError(t, env.delegator.Process(ctx, &actions.ClearOwner{OwnerID: "alice"}))
	_, err = env.storage.Reader.Categories.FindByID(ctx, id)
	assert.ErrorIs(t, err, sqlconfig.ErrNotFound)
}

func TestConverge_UpperCaseDocumentIDsConverge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	upper := strings.ToUpper(id.String())
	created := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, env.remote.PutTransaction(ctx, "alice", remote.TransactionDocument{
		ID:        upper,
		Amount:    20,
		Type:      "expense",
		Date:      created,
		UpdatedAt: created,
	}))
	first, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	require.True(t, first.Resynced)

	// A local edit is pushed under the canonical ID, overwriting the same document.
	local, err := env.storage.Reader.Transactions.FindByID(ctx, id)
	require.NoError(t, err)
	local.Amount = decimalFromString(t, "25")
	require.NoError(t, env.delegator.Process(ctx, &actions.UpsertTransaction{Transaction: local}))
	require.NoError(t, env.remote.PutTransaction(ctx, "alice", TransactionToDocument(local, nil, created.Add(time.Hour))))
	assert.Equal(t, []string{upper}, env.remoteIDs(t, "alice", remote.RecordTypeTransaction))

	for i := 0; i < 2; i++ {
		result, err := env.engine.Converge(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, result.Resynced, result.Reason)
	}

	for _, docID := range DocumentIDVariants(id) {
		require.NoError(t, env.remote.Delete(ctx, "alice", remote.RecordTypeTransaction, docID))
	}
	assert.Empty(t, env.remoteIDs(t, "alice", remote.RecordTypeTransaction))
}

func TestConverge_CaseVariantDuplicatesCountOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	older := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, env.remote.PutTransaction(ctx, "alice", remote.TransactionDocument{
		ID: id.String(), Amount: 20, Type: "expense", Date: older, UpdatedAt: older,
	}))
	require.NoError(t, env.remote.PutTransaction(ctx, "alice", remote.TransactionDocument{
		ID: strings.ToUpper(id.String()), Amount: 25, Type: "expense", Date: older, UpdatedAt: older.Add(time.Hour),
	}))

	first, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	require.True(t, first.Resynced)
	assert.Equal(t, 1, first.RemoteTransactions)

	local, err := env.storage.Reader.Transactions.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "25", local.Amount.String())

	second, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, second.Resynced, second.Reason)
}

func TestConverge_InvalidDocumentIDSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := env.putRemoteTransaction(t, "alice", nil)
	require.NoError(t, env.remote.PutTransaction(ctx, "alice", remote.TransactionDocument{
		ID:     "not-a-uuid",
		Amount: 1,
		Type:   "expense",
		Date:   time.Now(),
	}))

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)
	assert.Equal(t, 1, result.SkippedDocuments)
	assert.Equal(t, []string{valid}, env.localTransactionIDs(t, "alice"))

	second, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, second.Resynced)
}

func TestConverge_UndecodableDocumentsCounted(t *testing.T) {
	store := remote.NewMockStore(t)
	env := newTestEnvWithStore(t, store)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	store.EXPECT().FetchAll(mock.Anything, "alice", remote.RecordTypeTransaction).
		Return(remote.Snapshot{
			RecordType: remote.RecordTypeTransaction,
			Transactions: []remote.TransactionDocument{
				{ID: DocumentID(id), Amount: 4, Type: "income", Date: time.Now()},
			},
			Undecodable: []error{errors.New("undecodable document X: bad amount")},
		}, nil)
	store.EXPECT().FetchAll(mock.Anything, "alice", remote.RecordTypeCategory).
		Return(remote.Snapshot{RecordType: remote.RecordTypeCategory}, nil)

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkippedDocuments)
	assert.Equal(t, 1, result.RemoteTransactions)
	assert.Equal(t, []string{id.String()}, env.localTransactionIDs(t, "alice"))
}

func TestConverge_RunsToCompletionAfterCancel(t *testing.T) {
	env := newTestEnv(t)
	env.putRemoteTransaction(t, "alice", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := env.engine.Converge(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Resynced)
	assert.Len(t, env.localTransactionIDs(t, "alice"), 1)
}

func TestConverge_FetchFailureAbortsWithoutMutation(t *testing.T) {
	store := remote.NewMockStore(t)
	env := newTestEnvWithStore(t, store)
	ctx := context.Background()

	existing := &sqlconfig.Transaction{
		ID:        uuid.Must(uuid.NewV4()),
		Amount:    decimalFromString(t, "9"),
		Direction: sqlconfig.DirectionExpense,
		Date:      time.Now(),
		OwnerID:   "alice",
	}
	require.NoError(t, env.delegator.Process(ctx, &actions.UpsertTransaction{Transaction: existing}))

	store.EXPECT().FetchAll(mock.Anything, "alice", remote.RecordTypeTransaction).
		Return(remote.Snapshot{RecordType: remote.RecordTypeTransaction}, nil)
	store.EXPECT().FetchAll(mock.Anything, "alice", remote.RecordTypeCategory).
		Return(remote.Snapshot{}, errors.New("unavailable"))

	_, err := env.engine.Converge(ctx, "alice")
	assert.ErrorContains(t, err, "unavailable")
	assert.Equal(t, []string{existing.ID.String()}, env.localTransactionIDs(t, "alice"))

	status := env.hub.Status()
	assert.Equal(t, notify.SyncStateError, status.State)
	assert.Contains(t, status.Err, "unavailable")
}

func TestConverge_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.engine.Converge(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoOwner)
}
