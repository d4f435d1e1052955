// Command echors starts the typed key/value server: a cobra root
// command wiring config load, logger construction, and the TCP server,
// in the shape of the teacher's cmd.go/Execute().
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/armandparker/echors/internal/config"
	"github.com/armandparker/echors/internal/echolog"
	"github.com/armandparker/echors/internal/server"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "echors",
	Short:   "echors is an in-memory, typed key/value server",
	Version: version,
	RunE:    runServer,
}

func init() {
	rootCmd.PersistentFlags().StringP("bind", "b", "127.0.0.1:6380", "address to listen on")
	rootCmd.PersistentFlags().Uint16P("max-connections", "m", 1024, "maximum concurrent client connections")
	rootCmd.PersistentFlags().String("log-config", "", "path to a zap JSON logging config")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.PersistentFlags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := echolog.New(cfg.LogConfigPath)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	srv := server.New(cfg.Bind, cfg.MaxConnections, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Infow("shutting down", "signal", sig.String())
		srv.Stop()
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
