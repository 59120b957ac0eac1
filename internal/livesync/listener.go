package livesync

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
	"github.com/carson-networks/mymoney-server/internal/remote"
)

var recordTypes = []remote.RecordType{remote.RecordTypeCategory, remote.RecordTypeTransaction}

// Listener keeps one remote subscription per record type for every active
// owner and merges what arrives into the local store.
type Listener struct {
	store     remote.Store
	processor operator.IProcessor
	hub       *notify.Hub
	logger    *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	cancel context.CancelFunc
	feeds  []*remote.Feed
	wg     sync.WaitGroup
}

func NewListener(store remote.Store, processor operator.IProcessor, hub *notify.Hub, logger *logrus.Logger) *Listener {
	return &Listener{
		store:     store,
		processor: processor,
		hub:       hub,
		logger:    logger,
		sessions:  make(map[string]*session),
	}
}

// Start subscribes to the owner's collections. It is a no-op when the owner
// is already being listened to. The subscriptions outlive ctx and end with
// Stop or StopAll.
func (l *Listener) Start(ctx context.Context, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sessions[owner]; ok {
		return nil
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{cancel: cancel}
	for _, recordType := range recordTypes {
		feed, err := l.store.Subscribe(ctx, owner, recordType)
		if err != nil {
			cancel()
			for _, f := range sess.feeds {
				f.Cancel()
			}
			return fmt.Errorf("subscribe %s: %w", recordType, err)
		}
		sess.feeds = append(sess.feeds, feed)
	}

	for _, feed := range sess.feeds {
		sess.wg.Add(1)
		go func(feed *remote.Feed) {
			defer sess.wg.Done()
			l.consume(ctx, owner, feed)
		}(feed)
	}
	l.sessions[owner] = sess
	l.logger.WithField("owner", owner).Info("Listener.Start.subscribed")
	return nil
}

// Stop cancels the owner's subscriptions and waits for in-flight merges.
func (l *Listener) Stop(owner string) {
	l.mu.Lock()
	sess, ok := l.sessions[owner]
	delete(l.sessions, owner)
	l.mu.Unlock()

	if !ok {
		return
	}
	sess.cancel()
	for _, feed := range sess.feeds {
		feed.Cancel()
	}
	sess.wg.Wait()
	l.logger.WithField("owner", owner).Info("Listener.Stop.unsubscribed")
}

func (l *Listener) StopAll() {
	l.mu.Lock()
	owners := make([]string, 0, len(l.sessions))
	for owner := range l.sessions {
		owners = append(owners, owner)
	}
	l.mu.Unlock()

	for _, owner := range owners {
		l.Stop(owner)
	}
}

func (l *Listener) Active(owner string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sessions[owner]
	return ok
}

func (l *Listener) consume(ctx context.Context, owner string, feed *remote.Feed) {
	for snap := range feed.C {
		if snap.Err != nil {
			l.logger.WithError(snap.Err).WithFields(logrus.Fields{
				"owner":      owner,
				"recordType": snap.RecordType,
			}).Error("Listener.consume.feedError")
			l.hub.SetStatus(notify.SyncStateError, "Live updates stopped", snap.Err)
			continue
		}
		if err := l.apply(ctx, owner, snap); err != nil && ctx.Err() == nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"owner":      owner,
				"recordType": snap.RecordType,
			}).Error("Listener.consume.apply")
		}
	}
}

// apply merges one snapshot. Only the delivered records are touched.
func (l *Listener) apply(ctx context.Context, owner string, snap remote.Snapshot) error {
	var result actions.MergeResult
	l.logSkipped(owner, snap.Undecodable)

	switch snap.RecordType {
	case remote.RecordTypeTransaction:
		txns, skipped := reconcile.ConvertTransactions(owner, snap.Transactions)
		l.logSkipped(owner, skipped)
		if len(txns) > 0 {
			merge := &actions.MergeTransactions{OwnerID: owner, Transactions: txns}
			if err := l.processor.Process(ctx, merge); err != nil {
				return err
			}
			result = merge.Result
		}
	case remote.RecordTypeCategory:
		cats, skipped := reconcile.ConvertCategories(owner, snap.Categories)
		l.logSkipped(owner, skipped)
		if len(cats) > 0 {
			merge := &actions.MergeCategories{OwnerID: owner, Categories: cats}
			if err := l.processor.Process(ctx, merge); err != nil {
				return err
			}
			result = merge.Result
		}
	default:
		return fmt.Errorf("%w: %q", remote.ErrUnknownRecordType, snap.RecordType)
	}

	if len(snap.Removed) > 0 {
		remove := &actions.RemoveRecords{OwnerID: owner}
		for _, docID := range snap.Removed {
			id, err := reconcile.ParseDocumentID(docID)
			if err != nil {
				l.logSkipped(owner, []error{err})
				continue
			}
			if snap.RecordType == remote.RecordTypeTransaction {
				remove.TransactionIDs = append(remove.TransactionIDs, id)
			} else {
				remove.CategoryIDs = append(remove.CategoryIDs, id)
			}
		}
		if len(remove.TransactionIDs)+len(remove.CategoryIDs) > 0 {
			if err := l.processor.Process(ctx, remove); err != nil {
				return err
			}
			result.Deleted += remove.Result.Deleted
		}
	}

	if result.Mutations() > 0 {
		l.hub.RecordsChanged(owner, notify.RecordType(snap.RecordType))
	}
	return nil
}

func (l *Listener) logSkipped(owner string, skipped []error) {
	for _, err := range skipped {
		l.logger.WithError(err).WithField("owner", owner).Warn("Listener.apply.skipDocument")
	}
}
