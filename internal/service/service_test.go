package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/smsparser"
	"github.com/carson-networks/mymoney-server/internal/storage"
)

const testOwner = "user-1"

var testNow = time.Date(2025, 12, 24, 9, 30, 0, 0, time.UTC)

type recordingRemote struct {
	mu           sync.Mutex
	transactions []remote.TransactionDocument
	categories   []remote.CategoryDocument
	deletes      []string
}

func (r *recordingRemote) PutTransaction(_ string, doc remote.TransactionDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, doc)
}

func (r *recordingRemote) PutCategory(_ string, doc remote.CategoryDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, doc)
}

func (r *recordingRemote) Delete(_ string, recordType remote.RecordType, docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, string(recordType)+"/"+docID)
}

type mockConverger struct {
	mock.Mock
}

func (m *mockConverger) Converge(ctx context.Context, owner string) (reconcile.Result, error) {
	args := m.Called(ctx, owner)
	result, _ := args.Get(0).(reconcile.Result)
	return result, args.Error(1)
}

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Start(ctx context.Context, owner string) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *mockListener) Stop(owner string) {
	m.Called(owner)
}

type testEnv struct {
	svc      *Service
	storage  *storage.Storage
	remote   *recordingRemote
	hub      *notify.Hub
	engine   *mockConverger
	listener *mockListener
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSchedule(t, "")
}

func newTestEnvWithSchedule(t *testing.T, schedule string) *testEnv {
	t.Helper()
	s, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := newTestLogger()
	delegator := operator.NewOperatorDelegator(s, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	env := &testEnv{
		storage:  s,
		remote:   &recordingRemote{},
		hub:      notify.NewHub(),
		engine:   &mockConverger{},
		listener: &mockListener{},
	}
	now := func() time.Time { return testNow }
	env.svc, err = NewService(Dependencies{
		Reader:            s.Reader,
		Processor:         delegator,
		Remote:            env.remote,
		Hub:               env.hub,
		Engine:            env.engine,
		Listener:          env.listener,
		Parser:            smsparser.New(smsparser.WithLocation(time.UTC), smsparser.WithClock(now)),
		ReconcileSchedule: schedule,
		Logger:            logger,
		Now:               now,
	})
	require.NoError(t, err)
	t.Cleanup(env.svc.Session.Close)
	return env
}

func strPtr(s string) *string {
	return &s
}
