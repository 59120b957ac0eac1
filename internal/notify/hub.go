package notify

import (
	"sync"
)

type RecordType string

const (
	RecordTypeTransaction RecordType = "transactions"
	RecordTypeCategory    RecordType = "categories"
)

type SyncState string

const (
	SyncStateIdle    SyncState = "idle"
	SyncStateSyncing SyncState = "syncing"
	SyncStateError   SyncState = "error"
)

// RecordsChanged tells subscribers that records of one type changed for an
// owner and should be re-read.
type RecordsChanged struct {
	Owner      string
	RecordType RecordType
}

type SyncStatus struct {
	State    SyncState
	Progress string
	Err      string
}

// Event carries exactly one of RecordsChanged or Status.
type Event struct {
	RecordsChanged *RecordsChanged
	Status         *SyncStatus
}

const subscriberBuffer = 64

// Hub fans events out to subscribers. Delivery never blocks the publisher;
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	status SyncStatus
}

func NewHub() *Hub {
	return &Hub{
		subs:   make(map[int]chan Event),
		status: SyncStatus{State: SyncStateIdle},
	}
}

// Subscribe returns a channel of future events and a function that
// unsubscribes and closes it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *Hub) RecordsChanged(owner string, recordType RecordType) {
	h.publish(Event{RecordsChanged: &RecordsChanged{Owner: owner, RecordType: recordType}})
}

func (h *Hub) SetStatus(state SyncState, progress string, err error) {
	status := SyncStatus{State: state, Progress: progress}
	if err != nil {
		status.Err = err.Error()
	}

	h.mu.Lock()
	h.status = status
	h.mu.Unlock()

	h.publish(Event{Status: &status})
}

// Status returns the most recent sync status.
func (h *Hub) Status() SyncStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Hub) publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
