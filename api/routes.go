package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/mymoney-server/internal/handlers/v1/category"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/events"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/report"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/session"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/sms"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/status"
	"github.com/carson-networks/mymoney-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/mymoney-server/internal/logging"
	"github.com/carson-networks/mymoney-server/internal/notify"
	"github.com/carson-networks/mymoney-server/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Hub     *notify.Hub

	server *http.Server
}

// Handler builds the router with every endpoint registered.
func (r *Rest) Handler() http.Handler {
	router := mux.NewRouter()

	statusHandler := status.NewHandler(r.Hub)
	router.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humamux.New(router, huma.DefaultConfig("My Money", "1.0.0"))
	api.UseMiddleware(logOperation(r.Logger))

	transaction.NewCreateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewUpdateTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewDeleteTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewGetTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)

	category.NewListCategoriesHandler(r.Service.Category).Register(api)
	category.NewCreateCategoryHandler(r.Service.Category).Register(api)
	category.NewDeleteCategoryHandler(r.Service.Category).Register(api)

	session.NewStartSessionHandler(r.Service.Session).Register(api)
	session.NewEndSessionHandler(r.Service.Session).Register(api)
	session.NewGetSessionHandler(r.Service.Session).Register(api)

	sms.NewImportMessageHandler(r.Service.SMSImport).Register(api)
	sms.NewParseMessageHandler(r.Service.SMSImport).Register(api)
	sms.NewImportSettingHandler(r.Service.SMSImport).Register(api)

	report.NewSummaryHandler(r.Service.Report).Register(api)
	report.NewExportHandler(r.Service.Report).Register(api)

	events.NewStreamEventsHandler(r.Hub).Register(api)

	return router
}

// Serve blocks until the server stops.
func (r *Rest) Serve() {
	r.server = &http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := r.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

func (r *Rest) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

// logOperation gives every huma operation its own LogData, reachable from
// handlers through logging.GetLogData.
func logOperation(logger *logrus.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		name := ctx.Operation().OperationID
		logData := logging.NewLogData(logger)
		logData.AddData("method", ctx.Method())
		logData.AddData("operation", name)
		logger.Infof("Handler.%v.Start", name)

		endTimer := logData.AddTiming("duration")
		next(huma.WithContext(ctx, logging.WithLogData(ctx.Context(), logData)))
		endTimer()

		logData.AddData("status", ctx.Status())
		if ctx.Status() >= http.StatusInternalServerError {
			logData.Log().Errorf("Handler.%v.Error", name)
			return
		}
		logData.Log().Infof("Handler.%v.Complete", name)
	}
}
