package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/storage"
	"github.com/carson-networks/mymoney-server/internal/storage/sqlconfig"
)

var ErrNoOwner = errors.New("owner id is required")

// Result describes one convergence run.
type Result struct {
	Resynced bool
	// Reason says why a resync happened; empty when none did.
	Reason             string
	RemoteTransactions int
	RemoteCategories   int
	LocalTransactions  int64
	LocalCategories    int64
	SkippedDocuments   int
	Mutations          actions.MergeResult
}

// Engine makes the local store mirror the remote store for one owner.
type Engine struct {
	store     remote.Store
	reader    *storage.Reader
	processor operator.IProcessor
	hub       *notify.Hub
	logger    *logrus.Logger
}

func NewEngine(store remote.Store, reader *storage.Reader, processor operator.IProcessor, hub *notify.Hub, logger *logrus.Logger) *Engine {
	return &Engine{
		store:     store,
		reader:    reader,
		processor: processor,
		hub:       hub,
		logger:    logger,
	}
}

// Converge compares the owner's local records with the remote snapshot and
// rebuilds the local side from the remote one when they differ. It is not
// cancelled by ctx once started. Any failure aborts the run without a partial
// commit; there is no retry.
func (e *Engine) Converge(ctx context.Context, owner string) (Result, error) {
	if owner == "" {
		return Result{}, ErrNoOwner
	}
	ctx = context.WithoutCancel(ctx)

	logData := logging.NewLogData(e.logger)
	logData.AddData("owner", owner)
	endTotal := logData.AddTiming("converge")

	e.hub.SetStatus(notify.SyncStateSyncing, "Checking for changes", nil)
	result, err := e.converge(ctx, owner, logData)
	endTotal()

	logData.AddData("resynced", result.Resynced)
	logData.AddData("skippedDocuments", result.SkippedDocuments)
	if err != nil {
		e.hub.SetStatus(notify.SyncStateError, "Sync failed", err)
		logData.Log().WithError(err).Error("Reconcile.Converge.failed")
		return result, err
	}

	if result.Resynced {
		logData.AddData("reason", result.Reason)
		logData.AddData("inserted", result.Mutations.Inserted)
		logData.AddData("deleted", result.Mutations.Deleted)
		e.hub.RecordsChanged(owner, notify.RecordTypeCategory)
		e.hub.RecordsChanged(owner, notify.RecordTypeTransaction)
	}
	e.hub.SetStatus(notify.SyncStateIdle, "Up to date", nil)
	logData.Log().Info("Reconcile.Converge.complete")
	return result, nil
}

func (e *Engine) converge(ctx context.Context, owner string, logData *logging.LogData) (Result, error) {
	var result Result

	endFetch := logData.AddTiming("fetchRemote")
	remoteTxnSnap, err := e.store.FetchAll(ctx, owner, remote.RecordTypeTransaction)
	if err != nil {
		endFetch()
		return result, fmt.Errorf("fetch remote transactions: %w", err)
	}
	remoteCatSnap, err := e.store.FetchAll(ctx, owner, remote.RecordTypeCategory)
	endFetch()
	if err != nil {
		return result, fmt.Errorf("fetch remote categories: %w", err)
	}

	remoteTxns, skippedTxns := ConvertTransactions(owner, remoteTxnSnap.Transactions)
	remoteCats, skippedCats := ConvertCategories(owner, remoteCatSnap.Categories)
	var skipped []error
	skipped = append(skipped, remoteTxnSnap.Undecodable...)
	skipped = append(skipped, remoteCatSnap.Undecodable...)
	skipped = append(skipped, skippedTxns...)
	skipped = append(skipped, skippedCats...)
	for _, skipErr := range skipped {
		e.logger.WithError(skipErr).WithField("owner", owner).Warn("Reconcile.converge.skipDocument")
	}
	result.SkippedDocuments = len(skipped)
	result.RemoteTransactions = len(remoteTxns)
	result.RemoteCategories = len(remoteCats)

	endLocal := logData.AddTiming("inspectLocal")
	reason, err := e.divergence(ctx, owner, remoteTxns, remoteCats, &result)
	endLocal()
	if err != nil {
		return result, err
	}
	if reason == "" {
		return result, nil
	}

	if e.logger.IsLevelEnabled(logrus.DebugLevel) {
		e.logger.WithField("owner", owner).Debugf("Reconcile.converge.remoteSnapshot\n%s", spew.Sdump(remoteCats, remoteTxns))
	}

	e.hub.SetStatus(notify.SyncStateSyncing, fmt.Sprintf("Syncing %d categories and %d transactions", len(remoteCats), len(remoteTxns)), nil)
	endResync := logData.AddTiming("resync")
	resync := &actions.ResyncOwner{
		OwnerID:      owner,
		Categories:   remoteCats,
		Transactions: remoteTxns,
	}
	err = e.processor.Process(ctx, resync)
	endResync()
	if err != nil {
		return result, fmt.Errorf("resync: %w", err)
	}

	result.Resynced = true
	result.Reason = reason
	result.Mutations = resync.Result
	return result, nil
}

// divergence returns a non-empty reason when the local store does not match
// the remote records. Default categories are system-wide, so they count as
// present remotely.
func (e *Engine) divergence(ctx context.Context, owner string, remoteTxns []*sqlconfig.Transaction, remoteCats []*sqlconfig.Category, result *Result) (string, error) {
	localTxnCount, err := e.reader.Transactions.Count(ctx, &sqlconfig.TransactionFilter{OwnerID: &owner})
	if err != nil {
		return "", fmt.Errorf("count local transactions: %w", err)
	}
	localCatCount, err := e.reader.Categories.Count(ctx, &sqlconfig.CategoryFilter{OwnerID: &owner})
	if err != nil {
		return "", fmt.Errorf("count local categories: %w", err)
	}
	defaults, err := e.reader.Categories.List(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("list default categories: %w", err)
	}

	expectedCats := make(map[uuid.UUID]struct{}, len(defaults)+len(remoteCats))
	for _, category := range defaults {
		expectedCats[category.ID] = struct{}{}
	}
	for _, category := range remoteCats {
		expectedCats[category.ID] = struct{}{}
	}
	result.LocalTransactions = localTxnCount
	result.LocalCategories = localCatCount

	if int64(len(remoteTxns)) != localTxnCount {
		return fmt.Sprintf("transaction count mismatch: remote %d, local %d", len(remoteTxns), localTxnCount), nil
	}
	if int64(len(expectedCats)) != localCatCount {
		return fmt.Sprintf("category count mismatch: remote %d, local %d", len(expectedCats), localCatCount), nil
	}

	for _, txn := range remoteTxns {
		local, err := e.reader.Transactions.FindByID(ctx, txn.ID)
		if errors.Is(err, sqlconfig.ErrNotFound) {
			return fmt.Sprintf("transaction %s missing locally", txn.ID), nil
		}
		if err != nil {
			return "", fmt.Errorf("verify transaction %s: %w", txn.ID, err)
		}
		if local.OwnerID != owner {
			return fmt.Sprintf("transaction %s has a different owner locally", txn.ID), nil
		}
	}
	for _, category := range remoteCats {
		local, err := e.reader.Categories.FindByID(ctx, category.ID)
		if errors.Is(err, sqlconfig.ErrNotFound) {
			return fmt.Sprintf("category %s missing locally", category.ID), nil
		}
		if err != nil {
			return "", fmt.Errorf("verify category %s: %w", category.ID, err)
		}
		if !local.IsDefault && (local.OwnerID == nil || *local.OwnerID != owner) {
			return fmt.Sprintf("category %s has a different owner locally", category.ID), nil
		}
	}
	return "", nil
}
