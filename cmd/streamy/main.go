// Command streamy runs an event pipeline over line-framed standard input.
//
// The pipeline is described by a YAML config naming a source codec, a chain
// of field transformers, and a sink codec:
//
//	source:
//	  type: syslog-rfc5424
//	  mode: strict
//	transforms:
//	  - type: json
//	    source: /message
//	    target: /
//	sink:
//	  type: json
//
// # Usage
//
//	streamy run -c pipeline.yaml < frames.log > events.ndjson
//	streamy version
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.streamy.dev/streamy/log"
	"go.streamy.dev/streamy/pipeline"
	"go.streamy.dev/streamy/profile"
	"go.streamy.dev/streamy/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logCfg := log.NewConfig()

	root := &cobra.Command{
		Use:          "streamy",
		Short:        "High-throughput event pipeline for logs and structured events",
		SilenceUsage: true,
	}

	logCfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(logCfg), newVersionCmd())

	return root
}

func newRunCmd(logCfg *log.Config) *cobra.Command {
	profCfg := profile.NewConfig()

	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a configured pipeline from stdin to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			logger := slog.New(handler)

			raw, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			cfg, err := pipeline.LoadConfig(raw)
			if err != nil {
				return err
			}

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}

			prof := profCfg.NewProfiler()
			if err := prof.Start(); err != nil {
				return err
			}

			defer func() {
				if err := prof.Stop(); err != nil {
					logger.Error("stopping profiler", "err", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return p.Run(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pipeline.yaml", "pipeline config file")
	profCfg.RegisterFlags(cmd.Flags())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
