package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/api"
	"github.com/carson-networks/mymoney-server/internal/config"
	"github.com/carson-networks/mymoney-server/internal/livesync"
	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/operator"
	"github.com/carson-networks/mymoney-server/internal/reconcile"
	"github.com/carson-networks/mymoney-server/internal/remote"
	"github.com/carson-networks/mymoney-server/internal/service"
	"github.com/carson-networks/mymoney-server/internal/smsparser"
	"github.com/carson-networks/mymoney-server/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("mymoney-server starting")

	ctx := context.Background()

	dbStorage, err := storage.NewStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	// One worker keeps local writes serialized.
	delegator := operator.NewOperatorDelegator(dbStorage, 1, logger)
	delegator.Start()
	defer delegator.Stop()

	store, closeStore, err := newRemoteStore(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("newRemoteStore")
		return
	}
	defer closeStore()

	hub := notify.NewHub()
	engine := reconcile.NewEngine(store, dbStorage.Reader, delegator, hub, logger)
	listener := livesync.NewListener(store, delegator, hub, logger)
	defer listener.StopAll()

	outbound := livesync.NewOutbound(store, envConfig.OutboundWorkers, envConfig.OutboundBuffer, logger)
	outbound.Start()
	defer outbound.Stop()
	go func() {
		for failure := range outbound.Failures() {
			hub.SetStatus(notify.SyncStateError, "", failure.Err)
		}
	}()

	location, err := time.LoadLocation(envConfig.SMSTimezone)
	if err != nil {
		logger.WithError(err).WithField("timezone", envConfig.SMSTimezone).Fatal("time.LoadLocation")
		return
	}

	svc, err := service.NewService(service.Dependencies{
		Reader:            dbStorage.Reader,
		Processor:         delegator,
		Remote:            outbound,
		Hub:               hub,
		Engine:            engine,
		Listener:          listener,
		Parser:            smsparser.New(smsparser.WithLocation(location)),
		ReconcileSchedule: envConfig.ReconcileSchedule,
		Logger:            logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("service.NewService")
		return
	}
	defer svc.Session.Close()

	httpRest := &api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Service: svc,
		Hub:     hub,
	}
	go httpRest.Serve()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("mymoney-server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpRest.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HttpServer.Shutdown")
	}
}

func newRemoteStore(ctx context.Context, env *config.Config, logger *logrus.Logger) (remote.Store, func(), error) {
	if env.RemoteDriver == config.RemoteDriverMemory {
		logger.Warn("remote.driver is memory; records are not persisted remotely")
		return remote.NewMemoryStore(), func() {}, nil
	}

	store, err := remote.NewFirestoreStore(ctx, remote.FirestoreConfig{
		ProjectID:       env.RemoteProjectID,
		DatabaseID:      env.RemoteDatabaseID,
		CredentialsFile: env.RemoteCredentialsFile,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Error("FirestoreStore.Close")
		}
	}, nil
}
