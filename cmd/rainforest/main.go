package main

import (
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"git.gammaspectra.live/P2Pool/go-rainforest/rainforest"
	"git.gammaspectra.live/P2Pool/go-rainforest/types"
	"git.gammaspectra.live/P2Pool/go-rainforest/utils"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "rainforest",
		Short:         "RainForest proof-of-work hash benchmark and self-check harness",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var debug bool
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			utils.GlobalLogLevel |= utils.LogLevelDebug | utils.LogLevelNotice
		}
	}

	root.AddCommand(checkCommand(), benchCommand(), hashCommand())

	if err := root.Execute(); err != nil {
		utils.Fatalf("%s", err)
	}
}

func checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the 256-round cross-implementation validity check",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := rainforest.SelfTest(); err != nil {
				return err
			}
			utils.Logf("check", "valid (%.3f sec)", time.Since(start).Seconds())
			return nil
		},
	}
}

type hashResult struct {
	Input  types.Bytes `json:"input"`
	Seed   uint32      `json:"seed"`
	Digest types.Hash  `json:"digest"`
}

func hashCommand() *cobra.Command {
	var seed uint32
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "hash [text]",
		Short: "Hash the UTF-8 bytes of a text message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := []byte(args[0])
			digest := rainforest.SumSeeded(data, seed)

			if asJSON {
				buf, err := utils.MarshalJSON(hashResult{
					Input:  data,
					Seed:   seed,
					Digest: digest,
				})
				if err != nil {
					return err
				}
				_, _ = os.Stdout.Write(append(buf, '\n'))
				return nil
			}

			utils.Logf("hash", "out: %s", digest)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&seed, "seed", 0, "rambox initialization seed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	return cmd
}

// benchMetrics Explicit throughput state shared between the workers and the
// reporter, instead of a process-wide counter plus a SIGALRM handler.
type benchMetrics struct {
	hashes atomic.Uint64
	stop   atomic.Bool
}

func benchCommand() *cobra.Command {
	var workers int
	var interval time.Duration
	var duration time.Duration
	var fullInit bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark hashing throughput until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			utils.Logf("bench", "%d workers, one 16 KiB rambox each", workers)

			var metrics benchMetrics
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					runBenchWorker(&metrics, fullInit)
				}()
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			var deadline <-chan time.Time
			if duration > 0 {
				deadline = time.After(duration)
			}

			last := time.Now()
			for {
				select {
				case now := <-ticker.C:
					work := metrics.hashes.Swap(0)
					elapsed := now.Sub(last).Seconds()
					last = now
					utils.Logf("bench", "%sH/s (%d hashes, %.3f sec)",
						utils.SiUnits(float64(work)/elapsed, 3), work, elapsed)
				case <-sigs:
					metrics.stop.Store(true)
					wg.Wait()
					return nil
				case <-deadline:
					metrics.stop.Store(true)
					wg.Wait()
					return nil
				}
			}
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: all CPUs)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "reporting interval")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().BoolVar(&fullInit, "full", false, "re-initialize the rambox on every hash instead of reusing it")
	return cmd
}

// runBenchWorker Scans nonces the way a miner does: the 80-byte test pattern
// mutated every iteration, hashed over one private rambox reused across the
// whole loop, the digest fed back into the message head.
func runBenchWorker(metrics *benchMetrics, fullInit bool) {
	box := rainforest.NewRamBox()

	msg := rainforest.SelfTestMessage

	var loops uint8
	for !metrics.stop.Load() {
		for i := range msg {
			msg[i] ^= loops
		}

		if fullInit {
			box.Init(0)
		}
		out := box.Sum(msg[:])

		copy(msg[:], out[:])
		loops++
		metrics.hashes.Add(1)
	}
}
