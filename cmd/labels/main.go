// Command labels derives tropical-cyclone genesis labels for a directory of
// gridded observation files from an IBTrACS best-track catalog.
//
// Usage:
//
//	labels --best-track ibtracs.WP.v04r00.csv \
//	  --observations-dir /data/wp \
//	  --leadtime 12
//
// The label table is written to <observations-dir>/tc_<leadtime>h.csv.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/tringuyen180303/TC-Prediction/internal/adapter/httpadapter"
	"github.com/tringuyen180303/TC-Prediction/internal/adapter/ibtracs"
	"github.com/tringuyen180303/TC-Prediction/internal/adapter/labelcsv"
	"github.com/tringuyen180303/TC-Prediction/internal/adapter/observations"
	"github.com/tringuyen180303/TC-Prediction/internal/config"
	"github.com/tringuyen180303/TC-Prediction/internal/observability"
	"github.com/tringuyen180303/TC-Prediction/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	p := pipeline.New(
		observations.NewIndexer(),
		observations.NewDomainReader(),
		ibtracs.NewLoader(logger),
		labelcsv.NewWriter(),
		cfg,
		logger,
		metrics,
		clockwork.NewRealClock(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health and metrics endpoints are opt-in for long runs.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("label run failed", "error", runErr)
		return 1
	}
	return 0
}
