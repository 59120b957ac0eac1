package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/operator/actions"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
)

// SessionStart describes the outcome of StartSession.
type SessionStart struct {
	// AlreadyActive is set when the owner's session was running and
	// converged before the call; nothing was done.
	AlreadyActive bool
	Converge      *reconcile.Result
	// ConvergeErr is the logged convergence failure, if any. The listeners
	// are started regardless and the next StartSession retries.
	ConvergeErr error
}

type activeSession struct {
	converged bool
	entryID   cron.EntryID
}

// SessionService ties an owner's sign-in and sign-out to the sync engine: a
// convergence pass, the live listeners, and the optional scheduled
// re-verification.
type SessionService struct {
	engine    IConverger
	listener  IListener
	processor operator.IProcessor
	hub       *notify.Hub
	logger    *logrus.Logger

	schedule string
	cron     *cron.Cron

	mu       sync.Mutex
	sessions map[string]*activeSession
}

// NewSessionService creates a new SessionService. An invalid reconcile
// schedule is reported here rather than on the first session.
func NewSessionService(deps Dependencies) (*SessionService, error) {
	s := &SessionService{
		engine:    deps.Engine,
		listener:  deps.Listener,
		processor: deps.Processor,
		hub:       deps.Hub,
		logger:    deps.Logger,
		schedule:  deps.ReconcileSchedule,
		sessions:  make(map[string]*activeSession),
	}
	if s.schedule != "" {
		if _, err := cron.ParseStandard(s.schedule); err != nil {
			return nil, fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
		}
		s.cron = cron.New()
		s.cron.Start()
	}
	return s, nil
}

// StartSession converges owner's local records with the remote store once and
// starts the live listeners. Calling it again for an active, converged owner
// does nothing.
func (s *SessionService) StartSession(ctx context.Context, owner string) (*SessionStart, error) {
	if owner == "" {
		return nil, ErrNoOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[owner]
	if ok && sess.converged {
		return &SessionStart{AlreadyActive: true}, nil
	}

	start := &SessionStart{}
	result, err := s.engine.Converge(ctx, owner)
	if err != nil {
		s.logger.WithError(err).WithField("owner", owner).Error("Session.Start.converge failed")
		start.ConvergeErr = err
	} else {
		start.Converge = &result
	}

	if !ok {
		if err := s.listener.Start(ctx, owner); err != nil {
			return nil, err
		}
		sess = &activeSession{}
		if s.cron != nil {
			sess.entryID, err = s.cron.AddFunc(s.schedule, s.reverify(owner))
			if err != nil {
				s.listener.Stop(owner)
				return nil, err
			}
		}
		s.sessions[owner] = sess
	}
	sess.converged = start.ConvergeErr == nil

	s.logger.WithFields(logrus.Fields{
		"owner":     owner,
		"converged": sess.converged,
	}).Info("Session.Start.complete")
	return start, nil
}

// EndSession stops the owner's listeners and scheduled re-verification. Local
// records are kept.
func (s *SessionService) EndSession(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked(owner)
}

// Logout ends the owner's session and deletes every local record scoped to
// the owner. Default categories are kept.
func (s *SessionService) Logout(ctx context.Context, owner string) (int, error) {
	if owner == "" {
		return 0, ErrNoOwner
	}

	s.mu.Lock()
	s.endLocked(owner)
	s.mu.Unlock()

	clearOwner := &actions.ClearOwner{OwnerID: owner}
	if err := s.processor.Process(ctx, clearOwner); err != nil {
		return 0, err
	}

	s.hub.RecordsChanged(owner, notify.RecordTypeTransaction)
	s.hub.RecordsChanged(owner, notify.RecordTypeCategory)
	s.logger.WithFields(logrus.Fields{
		"owner":   owner,
		"deleted": clearOwner.Deleted,
	}).Info("Session.Logout.complete")
	return clearOwner.Deleted, nil
}

// Active reports whether owner has a running session.
func (s *SessionService) Active(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[owner]
	return ok
}

// Close ends every session and stops the scheduler.
func (s *SessionService) Close() {
	s.mu.Lock()
	for owner := range s.sessions {
		s.endLocked(owner)
	}
	s.mu.Unlock()

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *SessionService) endLocked(owner string) {
	sess, ok := s.sessions[owner]
	if !ok {
		return
	}
	s.listener.Stop(owner)
	if s.cron != nil {
		s.cron.Remove(sess.entryID)
	}
	delete(s.sessions, owner)
}

func (s *SessionService) reverify(owner string) func() {
	return func() {
		result, err := s.engine.Converge(context.Background(), owner)
		if err != nil {
			s.logger.WithError(err).WithField("owner", owner).Error("Session.Reverify.failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"owner":    owner,
			"resynced": result.Resynced,
		}).Debug("Session.Reverify.complete")
	}
}
