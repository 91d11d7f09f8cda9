package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stockdesk/fulfillment/pkg/cli"
	"stockdesk/fulfillment/pkg/polling"
)

var watchFlags struct {
	ai bool
}

var watchCmd = &cobra.Command{
	Use:   "watch <id>...",
	Short: "Poll orders or AI jobs until they finish",
	Long: `Poll one or more orders or AI jobs until they reach a terminal state.

A single ID gets a live progress bar. With several IDs the jobs are
polled together in rounds on the batch interval, and a line is printed
as each one settles. Polling gives up after the configured max polling
time; the orders themselves keep running server-side. Interrupting with
Ctrl-C stops polling cleanly without affecting any order.

Examples:
  # Watch a stock-media order
  stockdesk watch ord-abc123

  # Watch an AI generation job
  stockdesk watch job-xyz --ai

  # Watch several orders together
  stockdesk watch ord-abc123 ord-def456 ord-ghi789`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFlags.ai, "ai", false, "treat the ID as an AI generation job")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	fetch := polling.OrderFetcher(client)
	if watchFlags.ai {
		fetch = polling.AIJobFetcher(client)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := polling.Options{
		Interval:        cfg.Polling.Interval,
		MaxPollingTime:  cfg.Polling.MaxPollingTime,
		BatchInterval:   cfg.Polling.BatchInterval,
		ContinueOnError: true,
	}

	if len(args) > 1 {
		return watchBatch(ctx, fetch, opts, args, cfg.Polling.MaxPollingTime)
	}

	progress := cli.NewProgressReporter(os.Stdout)
	opts.OnSnapshot = func(s *polling.Snapshot) {
		if !s.Status.Terminal() {
			progress.Update(string(s.Status), s.Progress)
		}
	}
	poller := polling.New(fetch, opts, nil, nil)

	session, err := poller.Start(ctx, args[0])
	if err != nil {
		return err
	}

	snapshot, err := session.Wait(context.Background())
	if err != nil {
		if polling.IsTimeout(err) {
			fmt.Printf("Gave up after %s; the job may still finish server-side.\n", cfg.Polling.MaxPollingTime)
			return nil
		}
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nStopped watching; the job keeps running server-side.")
			return nil
		}
		progress.Error(err)
		return err
	}
	if snapshot == nil {
		// Interrupted before the first snapshot arrived.
		return nil
	}

	progress.Finish(string(snapshot.Status))
	if snapshot.Message != "" {
		fmt.Printf("Message: %s\n", snapshot.Message)
	}
	for i, file := range snapshot.Files {
		fmt.Printf("File %d: %s\n", i, file)
	}
	return nil
}

// watchBatch polls several jobs together and prints one line per job as
// it settles.
func watchBatch(ctx context.Context, fetch polling.FetchFunc, opts polling.Options, ids []string, maxPollingTime time.Duration) error {
	opts.OnComplete = func(s *polling.Snapshot) {
		fmt.Printf("%-24s %s\n", s.JobID, s.Status)
	}
	poller := polling.New(fetch, opts, nil, nil)

	outcomes := poller.PollMany(ctx, ids)

	seen := make(map[string]bool, len(ids))
	unresolved := 0
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		outcome := outcomes[id]
		switch {
		case outcome.Err == nil:
		case errors.Is(outcome.Err, context.Canceled):
			fmt.Println("\nStopped watching; unfinished jobs keep running server-side.")
			return nil
		case polling.IsTimeout(outcome.Err):
			unresolved++
			status := "never fetched"
			if outcome.Snapshot != nil {
				status = fmt.Sprintf("last seen %s at %d%%", outcome.Snapshot.Status, outcome.Snapshot.Progress)
			}
			fmt.Printf("%-24s gave up after %s (%s)\n", id, maxPollingTime, status)
		default:
			unresolved++
			fmt.Printf("%-24s failed: %v\n", id, outcome.Err)
		}
	}

	if unresolved > 0 {
		return fmt.Errorf("%d of %d jobs did not finish", unresolved, len(seen))
	}
	return nil
}
