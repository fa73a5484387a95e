package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/oho/kmeans-daemon/internal/api"
	"github.com/oho/kmeans-daemon/internal/config"
	"github.com/oho/kmeans-daemon/internal/display"
	"github.com/oho/kmeans-daemon/internal/kmeans"
	"github.com/oho/kmeans-daemon/internal/metrics"
	"github.com/oho/kmeans-daemon/internal/server"
	"github.com/oho/kmeans-daemon/internal/storage"
)

const exampleDatasetName = "example"

var exampleData = [][]float64{
	{2, 3},
	{3, 3},
	{6, 8},
	{8, 8},
	{3, 5},
	{7, 9},
}

func main() {
	cfg := config.LoadConfig()

	// Logs go to stderr so the demo tables own stdout.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	cmd, args := "demo", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "demo":
		err = runDemo(args, os.Stdout)
	case "serve":
		err = runServe(cfg)
	default:
		err = fmt.Errorf("unknown command %q (want demo or serve)", cmd)
	}
	if err != nil {
		slog.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// runDemo clusters the built-in example dataset and prints the result tables.
func runDemo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	k := fs.Int("k", 2, "number of clusters")
	seed := fs.Int64("seed", 0, "seed for centroid initialization (0 uses the clock)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []kmeans.Option
	if *seed != 0 {
		opts = append(opts, kmeans.WithSeed(*seed))
	}
	engine, err := kmeans.New(*k, exampleData, opts...)
	if err != nil {
		return err
	}

	res, err := engine.Train(context.Background())
	if err != nil {
		return err
	}
	slog.Info("Training finished", "iterations", res.Iterations, "converged", res.Converged)

	display.Render(out, engine.Clusters(), engine.Points())
	return nil
}

func runServe(cfg config.Config) error {
	slog.Info("Starting k-means daemon...")
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	slog.Info("Configuration loaded", "data_dir", cfg.DataDir, "port", cfg.Port)

	db, err := storage.NewDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	if err := seedExampleDataset(db); err != nil {
		return err
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	collector := metrics.NewCollector()
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	r := server.NewRouter()
	r.Use(middleware.RequestSize(cfg.MaxRequestBytes))
	r.Get("/health", server.HealthHandler(cfg, db))
	r.Method(http.MethodGet, "/metrics", collector.Handler())
	r.Mount("/cluster", server.RateLimitMiddleware(limiter)(api.ClusterRouter(db, cfg.Training, collector)))
	r.Mount("/datasets", api.DatasetsRouter(db))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Daemon ready", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Daemon stopped")
	return nil
}

// seedExampleDataset registers the demo points under "example" on first start.
func seedExampleDataset(db *storage.Database) error {
	existing, err := db.GetDataset(exampleDatasetName)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	ds, err := storage.NewDataset(exampleDatasetName, exampleData)
	if err != nil {
		return err
	}
	return db.AddDataset(ds)
}
