package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/bulk/internal/adapters/log"
	"github.com/bft-labs/bulk/internal/cliconfig"
	"github.com/bft-labs/bulk/pkg/bulk"
	"github.com/bft-labs/bulk/plugins/sqlitesink"
)

const helpDescription = `
Group a stream of commands into bulk packets.

Commands are read one per line from stdin (or a followed file). Outside a
block, every N commands are printed and saved as one packet. Lines between
"{" and "}" form a single packet whatever their number; nested braces are
part of the outer block. "EOF" ends the stream: pending commands are flushed,
an unclosed block is dropped.
`

var exampleUsage = strings.TrimSpace(`
  bulk 3 < commands.txt
  bulk --threshold 5 --sinks file,console --output-dir /var/log/bulk
  bulk --follow /tmp/commands --sqlite-path packets.db
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "bulk [threshold]",
		Short:         "Group a stream of commands into bulk packets",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			// The positional threshold behaves like --threshold.
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("threshold %q: %w", args[0], err)
				}
				cfg.Threshold = n
				changed["threshold"] = true
			}

			// Load config file first (default $HOME/.bulk/config.toml), then apply env overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (BULK_*)
			// These override file config but are overridden by flags (checked via changed map)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			// Validate and set derived defaults
			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.LoggerWithLevel(cfg.LogLevel)
			log.Debug().Interface("config", cfg).Msg("configuration")

			return run(cfg, logAdapter.NewZerologAdapterWithLogger(log))
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bulk/config.toml)")
	root.Flags().IntVarP(&cfg.Threshold, "threshold", "n", cfg.Threshold, "commands per packet outside a block")
	root.Flags().DurationVar(&cfg.Delay, "delay", cfg.Delay, "pause between two input lines")
	root.Flags().StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "directory for bulk<unix-seconds>.log files")
	root.Flags().StringSliceVar(&cfg.Sinks, "sinks", cfg.Sinks, "sink chain in delivery order (console, file, sqlite)")
	root.Flags().StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "store packets in this SQLite database")
	root.Flags().StringVar(&cfg.Follow, "follow", cfg.Follow, "tail this file instead of reading stdin")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("bulk")
		os.Exit(1)
	}
}

// run builds the pipeline from cfg and processes input until it ends.
func run(cfg cliconfig.Config, logger bulk.Logger) error {
	opts := []bulk.Option{bulk.WithLogger(logger)}
	if cfg.HasSink(cliconfig.SinkSQLite) {
		opts = append(opts, sqlitesink.WithSQLiteSink(sqlitesink.Config{Path: cfg.SQLitePath}))
	}

	b, err := bulk.New(bulk.Config{
		Threshold: cfg.Threshold,
		Delay:     cfg.Delay,
		OutputDir: cfg.OutputDir,
		Sinks:     cfg.Sinks,
	}, opts...)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Follow != "" {
		err = b.Follow(ctx, cfg.Follow)
	} else {
		err = b.Run(ctx, os.Stdin)
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("received signal, stopped")
		err = nil
	}

	return errors.Join(err, b.Close(context.Background()))
}
