package remote

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection = "users"
	feedBuffer      = 16
)

var _ Store = (*FirestoreStore)(nil)

// FirestoreStore keeps each owner's records under users/{owner}/transactions
// and users/{owner}/categories.
type FirestoreStore struct {
	client *firestore.Client
	logger *logrus.Logger
}

type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string
	CredentialsFile string
}

func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig, logger *logrus.Logger) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	databaseID := cfg.DatabaseID
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClientWithDatabase: %w", err)
	}
	return &FirestoreStore{client: client, logger: logger}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) collection(owner string, recordType RecordType) (*firestore.CollectionRef, error) {
	if err := validate(owner, recordType); err != nil {
		return nil, err
	}
	return s.client.Collection(usersCollection).Doc(owner).Collection(string(recordType)), nil
}

func (s *FirestoreStore) FetchAll(ctx context.Context, owner string, recordType RecordType) (Snapshot, error) {
	coll, err := s.collection(owner, recordType)
	if err != nil {
		return Snapshot{}, err
	}

	docs, err := coll.Documents(ctx).GetAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch %s for %s: %w", recordType, owner, err)
	}

	snap := Snapshot{RecordType: recordType}
	for _, ds := range docs {
		decodeInto(&snap, ds.Ref.ID, ds.DataTo)
	}
	return snap, nil
}

func (s *FirestoreStore) PutTransaction(ctx context.Context, owner string, doc TransactionDocument) error {
	coll, err := s.collection(owner, RecordTypeTransaction)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return ErrMissingDocumentID
	}
	_, err = coll.Doc(doc.ID).Set(ctx, doc)
	return err
}

func (s *FirestoreStore) PutCategory(ctx context.Context, owner string, doc CategoryDocument) error {
	coll, err := s.collection(owner, RecordTypeCategory)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return ErrMissingDocumentID
	}
	_, err = coll.Doc(doc.ID).Set(ctx, doc)
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, owner string, recordType RecordType, docID string) error {
	coll, err := s.collection(owner, recordType)
	if err != nil {
		return err
	}
	if docID == "" {
		return ErrMissingDocumentID
	}
	_, err = coll.Doc(docID).Delete(ctx)
	return err
}

// Subscribe starts a snapshot listener on the owner's collection. The first
// delivery holds every document; later ones hold the changes.
func (s *FirestoreStore) Subscribe(ctx context.Context, owner string, recordType RecordType) (*Feed, error) {
	coll, err := s.collection(owner, recordType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot, feedBuffer)
	it := coll.Snapshots(ctx)

	go func() {
		defer close(out)
		// Stop must not run concurrently with Next, so it runs here once Next
		// has returned.
		defer it.Stop()

		for {
			qs, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
					return
				}
				s.logger.WithError(err).WithFields(logrus.Fields{
					"owner":      owner,
					"recordType": recordType,
				}).Warn("FirestoreStore.Subscribe.listenerFailed")
				select {
				case out <- Snapshot{RecordType: recordType, Err: err}:
				case <-ctx.Done():
				}
				return
			}

			snap := Snapshot{RecordType: recordType}
			for _, change := range qs.Changes {
				if change.Kind == firestore.DocumentRemoved {
					snap.Removed = append(snap.Removed, change.Doc.Ref.ID)
					continue
				}
				decodeInto(&snap, change.Doc.Ref.ID, change.Doc.DataTo)
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return newFeed(out, cancel), nil
}

// decodeInto appends the document read by dataTo to snap. A document that
// cannot be read is recorded in snap.Undecodable.
func decodeInto(snap *Snapshot, docID string, dataTo func(any) error) {
	switch snap.RecordType {
	case RecordTypeTransaction:
		var doc TransactionDocument
		if err := dataTo(&doc); err != nil {
			snap.Undecodable = append(snap.Undecodable, fmt.Errorf("%w %s: %w", ErrUndecodable, docID, err))
			return
		}
		doc.ID = docID
		snap.Transactions = append(snap.Transactions, doc)
	case RecordTypeCategory:
		var doc CategoryDocument
		if err := dataTo(&doc); err != nil {
			snap.Undecodable = append(snap.Undecodable, fmt.Errorf("%w %s: %w", ErrUndecodable, docID, err))
			return
		}
		doc.ID = docID
		snap.Categories = append(snap.Categories, doc)
	}
}
