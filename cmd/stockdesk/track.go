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

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"stockdesk/fulfillment/pkg/gateway"
	"stockdesk/fulfillment/pkg/orders"
	"stockdesk/fulfillment/pkg/orders/retention"
	"stockdesk/fulfillment/pkg/polling"
	"stockdesk/fulfillment/pkg/telemetry/metrics"
)

var trackFlags struct {
	ai          bool
	metricsAddr string
}

var trackCmd = &cobra.Command{
	Use:   "track <id>...",
	Short: "Track orders in a local order book until they finish",
	Long: `Track a set of orders in a local order book until they all finish.

Each order gets its own polling session; delivered snapshots advance the
order book, and stale or out-of-order snapshots are dropped. When the
config sets a prune schedule, finished orders past the retention age are
swept out of the book while tracking runs. The final book is printed when
the last order settles.

Examples:
  # Track two stock-media orders
  stockdesk track ord-abc123 ord-def456

  # Track AI jobs and expose poller metrics while doing so
  stockdesk track job-xyz --ai --metrics-addr :9090`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().BoolVar(&trackFlags.ai, "ai", false, "treat the IDs as AI generation jobs")
	trackCmd.Flags().StringVar(&trackFlags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while tracking")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, nil)
	}
	if trackFlags.metricsAddr != "" {
		if collector == nil {
			return fmt.Errorf("--metrics-addr requires metrics.enabled in the config")
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: trackFlags.metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	client, err := gateway.NewClient(cfg.Gateway, collector.Gateway(), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create fulfillment client: %w", err)
	}
	defer client.Close()

	fetch := polling.OrderFetcher(client)
	kind := orders.KindStockMedia
	if trackFlags.ai {
		fetch = polling.AIJobFetcher(client)
		kind = orders.KindAIGeneration
	}

	store := orders.NewStore()

	// The snapshot callback needs the tracker, which needs the poller;
	// the closure resolves the cycle.
	var tracker *orders.Tracker
	opts := polling.Options{
		Interval:        cfg.Polling.Interval,
		BatchInterval:   cfg.Polling.BatchInterval,
		MaxPollingTime:  cfg.Polling.MaxPollingTime,
		ContinueOnError: true,
		OnSnapshot:      func(s *polling.Snapshot) { tracker.Apply(s) },
	}
	poller := polling.New(fetch, opts, collector.Polling(), slog.Default())
	tracker = orders.NewTracker(store, poller, slog.Default())
	defer tracker.Close()

	scheduler := retention.NewScheduler(retention.NewPruner(store, poller, cfg.Orders))
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := make([]*polling.Session, 0, len(args))
	for _, id := range args {
		session, err := tracker.Track(ctx, id, kind, decimal.Zero)
		if err != nil {
			return err
		}
		sessions = append(sessions, session)
	}

	for _, session := range sessions {
		_, err := session.Wait(context.Background())
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			fmt.Println("\nStopped tracking; unfinished jobs keep running server-side.")
		case polling.IsTimeout(err):
			fmt.Fprintf(os.Stderr, "%s: gave up after %s; the job may still finish server-side\n",
				session.JobID(), cfg.Polling.MaxPollingTime)
		default:
			fmt.Fprintf(os.Stderr, "%s: %v\n", session.JobID(), err)
		}
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	printOrderBook(store.List())
	return nil
}

func printOrderBook(book []*orders.Order) {
	if len(book) == 0 {
		fmt.Println("No tracked orders.")
		return
	}
	fmt.Printf("%-24s %-14s %-11s %-9s %s\n", "ORDER", "KIND", "STATUS", "PROGRESS", "UPDATED")
	for _, o := range book {
		fmt.Printf("%-24s %-14s %-11s %8d%% %s\n",
			o.ID, o.Kind, o.Status, o.Progress, o.UpdatedAt.Format(time.RFC3339))
	}
}
