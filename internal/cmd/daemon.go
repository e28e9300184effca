package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"winctl/internal/config"
	"winctl/internal/control"
	"winctl/internal/cycle"
	"winctl/internal/ipc"
	"winctl/internal/launch"
	"winctl/internal/platform"
	"winctl/internal/x11"
)

// NewDaemonCmd creates the daemon command
func NewDaemonCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the window control daemon",
		Long:  `Connect to the display server, track windows, and serve control requests over the IPC socket until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cfg, *log)
		},
	}
}

func runDaemon(cfg *config.Config, log zerolog.Logger) error {
	conn, err := x11.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer conn.Close()

	tracker := x11.NewTracker(conn)
	if err := tracker.Start(); err != nil {
		return fmt.Errorf("failed to start window tracker: %w", err)
	}
	session := platform.NewX11Session(conn, tracker)

	ops := control.New(session, log)
	engine := cycle.New(session, cfg.DenyClasses, log)
	launcher := launch.New(session, log)

	server, err := ipc.NewServer(cfg, ops, engine, launcher, log)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	log.Info().Int("deny_classes", len(cfg.DenyClasses)).Msg("daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		server.Stop()
		conn.Close()
		os.Exit(0)
	}()

	// Blocks until the X connection drops.
	conn.EventLoop()
	return nil
}
