// Command rhino-rox-server runs the RESP server: an in-memory keyspace
// holding string, trie, heap and full-text-search values, reachable
// over TCP and a Unix domain socket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/epokhe/rhino-rox/core"
	"github.com/epokhe/rhino-rox/internal/config"
	"github.com/epokhe/rhino-rox/internal/logger"
	"github.com/epokhe/rhino-rox/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		tcpAddr    string
		unixSocket string
		logLevel   string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:           "rhino-rox-server",
		Short:         "In-memory RESP data server (string, trie, heap, full-text search)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(&cfg, cmd.Flags(), tcpAddr, unixSocket, logLevel, logFile)

			log, err := logger.New(logger.Options{Level: cfg.LogLevel, Filename: cfg.LogFile})
			if err != nil {
				return err
			}
			defer log.Sync()

			return run(cfg, log)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&tcpAddr, "tcp-addr", "", "TCP listen address (overrides config)")
	cmd.Flags().StringVar(&unixSocket, "unix-socket", "", "Unix socket path (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file path, empty for stdout (overrides config)")

	return cmd
}

// applyFlagOverrides layers explicitly-set flags over the loaded
// config; flags left at their zero value never clobber a config file
// or default setting.
func applyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet, tcpAddr, unixSocket, logLevel, logFile string) {
	if flags.Changed("tcp-addr") {
		cfg.TCPAddr = tcpAddr
	}
	if flags.Changed("unix-socket") {
		cfg.UnixSocket = unixSocket
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ks := core.NewKeyspace()
	srv := server.New(server.Config{TCPAddr: cfg.TCPAddr, UnixSocket: cfg.UnixSocket}, ks, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	stop()
	return <-errCh
}
