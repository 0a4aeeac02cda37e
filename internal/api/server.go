package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/internal/api/handler"
	"github.com/vfg2006/ticket-sales-api/internal/api/handler/router"
	"github.com/vfg2006/ticket-sales-api/internal/config"
	"github.com/vfg2006/ticket-sales-api/internal/scheduler"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling"
	"github.com/vfg2006/ticket-sales-api/pkg/metrics"
	"github.com/vfg2006/ticket-sales-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o roteador com a cadeia de middlewares global
func NewHandler(
	cfg *config.Config,
	salesService selling.SalesService,
	receiptSweepService *scheduler.ReceiptSweepService,
	appMetrics *metrics.Metrics,
) http.Handler {
	cronServices := handler.CronJobServices{
		handler.CronJobTypeReceiptSweep: nil,
	}
	if receiptSweepService != nil {
		cronServices[handler.CronJobTypeReceiptSweep] = receiptSweepService
	}

	configs := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Sales(salesService, cfg.Upload.MaxReceiptBytes)...),
		router.WithRoutes(handler.CronJobs(cronServices, cfg.Admin.KeyHash)...),
		router.WithFallback(
			appMetrics.InstrumentUnmatched(handler.NotFound()),
			appMetrics.InstrumentUnmatched(handler.MethodNotAllowed()),
		),
	}
	if appMetrics != nil {
		configs = append(configs,
			router.WithRoutes(handler.Metrics(appMetrics.Handler())...),
			router.WithInstrumentation(appMetrics.InstrumentRoute),
		)
	}

	rt := router.New(configs...)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Cors.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	cfg *config.Config,
	salesService selling.SalesService,
	receiptSweepService *scheduler.ReceiptSweepService,
	appMetrics *metrics.Metrics,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, salesService, receiptSweepService, appMetrics),
			ReadHeaderTimeout: 2 * time.Second,
			// uploads de até 4MB em conexões móveis
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	case err := <-serverErr:
		logrus.WithError(err).Error("Erro durante a execução do servidor")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
