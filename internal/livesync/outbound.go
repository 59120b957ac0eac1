package livesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/remote"
)

var (
	ErrOutboundFull    = errors.New("outbound queue is full")
	ErrOutboundStopped = errors.New("outbound queue is stopped")
)

const (
	outboundTimeout = 30 * time.Second
	failureBuffer   = 64
)

// Op is one remote write. Exactly one of Transaction, Category or DeleteID
// is set.
type Op struct {
	Owner       string
	RecordType  remote.RecordType
	Transaction *remote.TransactionDocument
	Category    *remote.CategoryDocument
	DeleteID    string
}

type Failure struct {
	Op  Op
	Err error
}

// Outbound sends local changes to the remote store in the background. Callers
// never wait on the remote store; failures are logged and offered on
// Failures, and are not retried.
type Outbound struct {
	store      remote.Store
	queue      chan Op
	failures   chan Failure
	numWorkers int
	logger     *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

func NewOutbound(store remote.Store, numWorkers, buffer int, logger *logrus.Logger) *Outbound {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if buffer < 1 {
		buffer = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Outbound{
		store:      store,
		queue:      make(chan Op, buffer),
		failures:   make(chan Failure, failureBuffer),
		numWorkers: numWorkers,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (o *Outbound) Start() {
	for i := 0; i < o.numWorkers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for op := range o.queue {
				o.send(op)
			}
		}()
	}
}

// Stop drains the queue and waits for the workers to finish.
func (o *Outbound) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()
		o.wg.Wait()
		o.cancel()
	})
}

// Failures reports remote writes that did not succeed. Failures that nobody
// reads are dropped once the buffer is full.
func (o *Outbound) Failures() <-chan Failure {
	return o.failures
}

func (o *Outbound) PutTransaction(owner string, doc remote.TransactionDocument) {
	o.Publish(Op{Owner: owner, RecordType: remote.RecordTypeTransaction, Transaction: &doc})
}

func (o *Outbound) PutCategory(owner string, doc remote.CategoryDocument) {
	o.Publish(Op{Owner: owner, RecordType: remote.RecordTypeCategory, Category: &doc})
}

func (o *Outbound) Delete(owner string, recordType remote.RecordType, docID string) {
	o.Publish(Op{Owner: owner, RecordType: recordType, DeleteID: docID})
}

// Publish enqueues op without blocking.
func (o *Outbound) Publish(op Op) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.stopped {
		o.fail(op, ErrOutboundStopped)
		return
	}
	select {
	case o.queue <- op:
	default:
		o.fail(op, ErrOutboundFull)
	}
}

func (o *Outbound) send(op Op) {
	ctx, cancel := context.WithTimeout(o.ctx, outboundTimeout)
	defer cancel()

	var err error
	switch {
	case op.Transaction != nil:
		err = o.store.PutTransaction(ctx, op.Owner, *op.Transaction)
	case op.Category != nil:
		err = o.store.PutCategory(ctx, op.Owner, *op.Category)
	default:
		err = o.store.Delete(ctx, op.Owner, op.RecordType, op.DeleteID)
	}
	if err != nil {
		o.fail(op, err)
	}
}

func (o *Outbound) fail(op Op, err error) {
	o.logger.WithError(err).WithFields(logrus.Fields{
		"owner":      op.Owner,
		"recordType": op.RecordType,
	}).Error("Outbound.send.failed")

	select {
	case o.failures <- Failure{Op: op, Err: err}:
	default:
	}
}
