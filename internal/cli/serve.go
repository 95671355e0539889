package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/luccosta/ign-gazebo/internal/app"
	"github.com/luccosta/ign-gazebo/internal/tui"
	"github.com/spf13/cobra"
)

func newServeCommand(load appLoader, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the socket.io spawn bridge and health check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runtimeError(a.Run(ctx, nil))
		},
	}
	cmd.Flags().IntVar(&flags.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 keeps the configured value.")
	return cmd
}

func newBrowseCommand(load appLoader, browse func(context.Context, *app.App) error) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse models in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs are held back while the UI owns the terminal.
			errW := cmd.ErrOrStderr()
			held := &lockedBuffer{}
			cmd.SetErr(held)
			defer func() {
				cmd.SetErr(errW)
				_, _ = io.WriteString(errW, held.String())
			}()

			a, err := load(cmd)
			if err != nil {
				return err
			}
			return runtimeError(browse(cmd.Context(), a))
		},
	}
}

func browseTUI(ctx context.Context, a *app.App) error {
	return tui.Run(ctx, a)
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "resource-spawner %s\n", version)
		},
	}
}

// lockedBuffer collects output written from several goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
