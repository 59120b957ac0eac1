package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RecordType names a per-owner collection in the remote store.
type RecordType string

const (
	RecordTypeTransaction RecordType = "transactions"
	RecordTypeCategory    RecordType = "categories"
)

var (
	ErrUnknownRecordType = errors.New("unknown record type")
	ErrMissingDocumentID = errors.New("document id is required")
	ErrMissingOwner      = errors.New("owner id is required")
	ErrUndecodable       = errors.New("undecodable document")
)

func (r RecordType) Valid() bool {
	return r == RecordTypeTransaction || r == RecordTypeCategory
}

// Snapshot is one delivery from the remote store. For FetchAll and the first
// delivery of a feed it holds every document of the collection; later feed
// deliveries hold only the documents that changed. Removed lists the IDs of
// documents deleted since the previous delivery. Undecodable holds one error
// per delivered document that could not be read.
type Snapshot struct {
	RecordType   RecordType
	Transactions []TransactionDocument
	Categories   []CategoryDocument
	Removed      []string
	Undecodable  []error
	Err          error
}

func (s Snapshot) Len() int {
	return len(s.Transactions) + len(s.Categories)
}

// Feed is a live subscription. C is closed after Cancel or when the
// subscription fails; a failure is delivered as a final Snapshot with Err set.
type Feed struct {
	C <-chan Snapshot

	cancelOnce sync.Once
	cancel     context.CancelFunc
}

func newFeed(c <-chan Snapshot, cancel context.CancelFunc) *Feed {
	return &Feed{C: c, cancel: cancel}
}

func (f *Feed) Cancel() {
	f.cancelOnce.Do(f.cancel)
}

// Store is the remote document store, scoped by owner. Document IDs are the
// canonical string form of the local record IDs.
//
//go:generate mockery --name Store --output mock_Store.go
type Store interface {
	FetchAll(ctx context.Context, owner string, recordType RecordType) (Snapshot, error)
	PutTransaction(ctx context.Context, owner string, doc TransactionDocument) error
	PutCategory(ctx context.Context, owner string, doc CategoryDocument) error
	Delete(ctx context.Context, owner string, recordType RecordType, docID string) error
	Subscribe(ctx context.Context, owner string, recordType RecordType) (*Feed, error)
}

func validate(owner string, recordType RecordType) error {
	if owner == "" {
		return ErrMissingOwner
	}
	if !recordType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordType, recordType)
	}
	return nil
}
