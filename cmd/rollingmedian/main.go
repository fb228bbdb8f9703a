// Command rollingmedian computes, for each accepted payment event, the
// median vertex degree of the undirected graph formed by the last 60
// seconds of events. Its root invocation accepts exactly two positional
// arguments, an input path and an output path, per the protocol's command
// surface; `serve` and `loadgen` are additive subcommands for running the
// engine as a long-lived service and for generating synthetic load.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/rollingmedian/decode"
	"github.com/TFMV/rollingmedian/eventsink"
	"github.com/TFMV/rollingmedian/internal/config"
	"github.com/TFMV/rollingmedian/internal/logging"
	"github.com/TFMV/rollingmedian/loadgen"
	"github.com/TFMV/rollingmedian/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rollingmedian <input-path> <output-path>",
		Short:         "Stream payment events and emit the rolling median vertex degree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				_ = cmd.Usage()
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], args[1])
		},
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newLoadgenCommand())
	return root
}

// runFile reads newline-JSON events from inputPath and writes one
// two-decimal median line per accepted event to outputPath.
func runFile(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("rollingmedian: opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("rollingmedian: creating output: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	sink := eventsink.New()
	dec := decode.NewDecoder(in)

	for {
		event, ok := dec.Next()
		if !ok {
			break
		}
		median := sink.Observe(event.Actor, event.Target, event.CreatedTime)
		if _, err := fmt.Fprintf(w, "%.2f\n", median); err != nil {
			return fmt.Errorf("rollingmedian: writing output: %w", err)
		}
	}

	if err := dec.Err(); err != nil {
		return fmt.Errorf("rollingmedian: reading input: %w", err)
	}
	return w.Flush()
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine as an HTTP service with /healthz, /metrics, and /debug/dot",
	}
	v := config.BindServeFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadServe(v)

		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		input := os.Stdin
		if cfg.Tail != "" {
			input, err = os.Open(cfg.Tail)
			if err != nil {
				return fmt.Errorf("serve: opening tail file: %w", err)
			}
			defer input.Close()
		}

		srv, reg := server.New(log)
		serverCfg := server.Config{Port: cfg.Port}
		if input != nil {
			serverCfg.Input = input
		}
		return srv.Start(ctx, serverCfg, reg)
	}
	return cmd
}

func newLoadgenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Generate a synthetic event stream in the engine's wire format",
	}
	v := config.BindLoadgenFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadLoadgen(v)

		log, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		log.Info("generating synthetic events",
			zap.Int("vertices", cfg.VertexPoolSize),
			zap.Int("events", cfg.EventCount),
			zap.Float64("burstiness", cfg.Burstiness),
		)

		gen := loadgen.New(loadgen.Config{
			VertexPoolSize: cfg.VertexPoolSize,
			EventCount:     cfg.EventCount,
			Burstiness:     cfg.Burstiness,
			NoiseSeed:      cfg.NoiseSeed,
		})

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		if err := gen.WriteTo(w); err != nil {
			return err
		}
		return w.Flush()
	}
	return cmd
}
