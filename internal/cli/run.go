package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/heartbeat/internal/config"
	"github.com/hamed0406/heartbeat/internal/httpapi"
	apimw "github.com/hamed0406/heartbeat/internal/httpapi/middleware"
	"github.com/hamed0406/heartbeat/internal/logging"
	"github.com/hamed0406/heartbeat/internal/metrics"
	"github.com/hamed0406/heartbeat/internal/notify"
	"github.com/hamed0406/heartbeat/internal/repo/memory"
	"github.com/hamed0406/heartbeat/internal/scheduler"
)

const shutdownGrace = 15 * time.Second

func newRunCommand(loadConfig func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and the status API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// serve runs the monitor until ctx is done, then drains in-flight
// executions and stops the API.
func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	checks, err := config.LoadChecks(cfg.ChecksPath)
	if err != nil {
		return err
	}
	reg, err := memory.New(checks)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(promReg)
	hub := httpapi.NewHub(logger, cfg.AllowedOrigins)
	go hub.Run(ctx)

	exec := scheduler.NewExecutor(logger, reg, newProber(cfg), notify.Multi{rec, hub}, cfg.ProbeTimeout)
	sched := scheduler.New(logger, reg, exec, cfg.MaxConcurrent)

	var srv *http.Server
	if cfg.Addr != "" {
		api := httpapi.NewServer(logger, reg, hub, promReg)
		srv = &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.Router(apimw.Keys{Public: cfg.PublicAPIKeys}, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("api_listen_error", zap.Error(err))
			}
		}()
	}

	sched.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	var errs error
	if srv != nil {
		errs = multierr.Append(errs, srv.Shutdown(shutdownCtx))
	}
	if err := sched.Wait(shutdownCtx); err != nil {
		logger.Warn("shutdown_incomplete", zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	return errs
}
