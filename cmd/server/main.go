package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/dash-indaia/internal/config"
	"github.com/AngelCh415/dash-indaia/internal/dashboard"
	"github.com/AngelCh415/dash-indaia/internal/format"
	"github.com/AngelCh415/dash-indaia/internal/httpx"
	"github.com/AngelCh415/dash-indaia/internal/ingest"
	"github.com/AngelCh415/dash-indaia/internal/metrics"
	"github.com/AngelCh415/dash-indaia/internal/store"
)

// Version se fija con -ldflags "-X main.Version=..."
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dash",
		Short:         "Dashboard comercial: KPIs de mídia, leads e vendas",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          serve,
	}
	root.PersistentFlags().String("config", "", "config file (default $DASH_CONFIG_PATH or config/dash.yaml, optional)")
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP dashboard",
		RunE:  serve,
	})
	root.AddCommand(newFetchCmd())
	return root
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	f, err := format.New(cfg.Locale, cfg.Currency, cfg.CurrencySymbol)
	if err != nil {
		return fmt.Errorf("formatter: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	col := metrics.NewCollectors(reg)

	src, err := buildSource(cfg, logger, time.Now)
	if err != nil {
		return err
	}
	ctrl := dashboard.New(ingest.Instrument(src, col),
		dashboard.WithLogger(logger),
		dashboard.WithContext(ctx),
		dashboard.WithObserver(col),
		dashboard.WithDiscardStale(cfg.DiscardStale),
	)
	ctrl.Initialize(cfg.Period())

	r := httpx.NewRouter(logger, ctrl, f, httpx.Options{
		CORSOrigins:      cfg.CORSOrigins,
		RefreshRateLimit: cfg.RefreshRateLimit,
		Gatherer:         reg,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("source", src.Name()),
			slog.String("periodo", string(cfg.Period())),
			slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown initiated")
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// loadConfig: --config exige que el archivo exista
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// buildSource elige remote o mock según DATA_SOURCE
func buildSource(cfg *config.Config, log *slog.Logger, now func() time.Time) (ingest.Source, error) {
	switch cfg.Source() {
	case config.SourceRemote:
		return ingest.NewRemoteSource(ingest.NewHTTPClient(cfg.HTTPTimeout()), cfg.BackendURL, log), nil
	case config.SourceMock:
		st := store.NewMemoryStore()
		store.Seed(st, now(), cfg.MockDays, cfg.MockSeed)
		m, l, s := st.Counts()
		log.Info("mock data seeded", slog.Int("midia", m), slog.Int("leads", l), slog.Int("vendas", s))
		return ingest.NewMockSource(st, now, log), nil
	}
	return nil, fmt.Errorf("unknown data source %q", cfg.Source())
}
