package remote

import (
	"context"
	"sort"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store. It backs single-device operation and
// behaves like the Firestore store: full overwrite on put, an initial full
// snapshot followed by change snapshots on subscribe.
type MemoryStore struct {
	mu           sync.Mutex
	transactions map[string]map[string]TransactionDocument
	categories   map[string]map[string]CategoryDocument
	subs         map[subKey]map[*memorySub]struct{}
}

type subKey struct {
	owner      string
	recordType RecordType
}

// memorySub queues snapshots without bound so that writers never wait on a
// slow subscriber.
type memorySub struct {
	mu      sync.Mutex
	pending []Snapshot
	signal  chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]map[string]TransactionDocument),
		categories:   make(map[string]map[string]CategoryDocument),
		subs:         make(map[subKey]map[*memorySub]struct{}),
	}
}

func (s *MemoryStore) FetchAll(_ context.Context, owner string, recordType RecordType) (Snapshot, error) {
	if err := validate(owner, recordType); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullSnapshotLocked(owner, recordType), nil
}

func (s *MemoryStore) PutTransaction(_ context.Context, owner string, doc TransactionDocument) error {
	if err := validate(owner, RecordTypeTransaction); err != nil {
		return err
	}
	if doc.ID == "" {
		return ErrMissingDocumentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transactions[owner] == nil {
		s.transactions[owner] = make(map[string]TransactionDocument)
	}
	s.transactions[owner][doc.ID] = doc
	s.broadcastLocked(owner, Snapshot{RecordType: RecordTypeTransaction, Transactions: []TransactionDocument{doc}})
	return nil
}

func (s *MemoryStore) PutCategory(_ context.Context, owner string, doc CategoryDocument) error {
	if err := validate(owner, RecordTypeCategory); err != nil {
		return err
	}
	if doc.ID == "" {
		return ErrMissingDocumentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categories[owner] == nil {
		s.categories[owner] = make(map[string]CategoryDocument)
	}
	s.categories[owner][doc.ID] = doc
	s.broadcastLocked(owner, Snapshot{RecordType: RecordTypeCategory, Categories: []CategoryDocument{doc}})
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (s *MemoryStore) Delete(_ context.Context, owner string, recordType RecordType, docID string) error {
	if err := validate(owner, recordType); err != nil {
		return err
	}
	if docID == "" {
		return ErrMissingDocumentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var existed bool
	switch recordType {
	case RecordTypeTransaction:
		_, existed = s.transactions[owner][docID]
		delete(s.transactions[owner], docID)
	case RecordTypeCategory:
		_, existed = s.categories[owner][docID]
		delete(s.categories[owner], docID)
	}
	if existed {
		s.broadcastLocked(owner, Snapshot{RecordType: recordType, Removed: []string{docID}})
	}
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, owner string, recordType RecordType) (*Feed, error) {
	if err := validate(owner, recordType); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &memorySub{signal: make(chan struct{}, 1)}
	key := subKey{owner: owner, recordType: recordType}

	s.mu.Lock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[*memorySub]struct{})
	}
	s.subs[key][sub] = struct{}{}
	sub.push(s.fullSnapshotLocked(owner, recordType))
	s.mu.Unlock()

	out := make(chan Snapshot)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs[key], sub)
			s.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.signal:
			}
			for _, snap := range sub.drain() {
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return newFeed(out, cancel), nil
}

func (s *MemoryStore) broadcastLocked(owner string, snap Snapshot) {
	for sub := range s.subs[subKey{owner: owner, recordType: snap.RecordType}] {
		sub.push(snap)
	}
}

func (s *MemoryStore) fullSnapshotLocked(owner string, recordType RecordType) Snapshot {
	snap := Snapshot{RecordType: recordType}
	switch recordType {
	case RecordTypeTransaction:
		for _, doc := range s.transactions[owner] {
			snap.Transactions = append(snap.Transactions, doc)
		}
		sort.Slice(snap.Transactions, func(i, j int) bool {
			return snap.Transactions[i].Date.After(snap.Transactions[j].Date)
		})
	case RecordTypeCategory:
		for _, doc := range s.categories[owner] {
			snap.Categories = append(snap.Categories, doc)
		}
		sort.Slice(snap.Categories, func(i, j int) bool {
			return snap.Categories[i].Name < snap.Categories[j].Name
		})
	}
	return snap
}

func (m *memorySub) push(snap Snapshot) {
	m.mu.Lock()
	m.pending = append(m.pending, snap)
	m.mu.Unlock()
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *memorySub) drain() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	pending := m.pending
	m.pending = nil
	return pending
}
