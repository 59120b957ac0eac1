package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/smsparser"
	"github.com/carson-networks/mymoney-server/internal/storage"
)

// IRemoteWriter sends local changes to the remote store without waiting for
// the result.
type IRemoteWriter interface {
	PutTransaction(owner string, doc remote.TransactionDocument)
	PutCategory(owner string, doc remote.CategoryDocument)
	Delete(owner string, recordType remote.RecordType, docID string)
}

// IConverger brings the local store in line with the remote store for one
// owner.
type IConverger interface {
	Converge(ctx context.Context, owner string) (reconcile.Result, error)
}

// IListener manages the live remote subscriptions of an owner.
type IListener interface {
	Start(ctx context.Context, owner string) error
	Stop(owner string)
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Reader    *storage.Reader
	Processor operator.IProcessor
	Remote    IRemoteWriter
	Hub       *notify.Hub
	Engine    IConverger
	Listener  IListener
	Parser    *smsparser.Parser
	// ReconcileSchedule is a cron spec for re-running convergence while a
	// session is active. Empty disables it.
	ReconcileSchedule string
	Logger            *logrus.Logger
	Now               func() time.Time
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Category    *CategoryService
	SMSImport   *SMSImportService
	Session     *SessionService
	Report      *ReportService
}

// NewService creates a new Service from the shared dependencies.
func NewService(deps Dependencies) (*Service, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Parser == nil {
		deps.Parser = smsparser.New()
	}

	transactions := NewTransactionService(deps)
	categories := NewCategoryService(deps)
	session, err := NewSessionService(deps)
	if err != nil {
		return nil, err
	}

	return &Service{
		Transaction: transactions,
		Category:    categories,
		SMSImport:   NewSMSImportService(deps, transactions, categories),
		Session:     session,
		Report:      NewReportService(deps),
	}, nil
}
