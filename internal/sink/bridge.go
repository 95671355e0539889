package sink

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/luccosta/ign-gazebo/internal/resourcepaths"
	"github.com/zishang520/socket.io/v2/socket"
)

// DefaultSpawnEvent is broadcast for every spawn request.
const DefaultSpawnEvent = "spawn_preview_model"

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	// SpawnEvent is broadcast with {"source","sdf"} for every payload.
	SpawnEvent string
	// PathsEvent is answered with Paths() through the acknowledgement.
	PathsEvent string
	// Paths supplies the resource paths served to querying clients.
	Paths func() []string
}

// Bridge is a socket.io endpoint standing in for the scene's event bus:
// spawn payloads are broadcast to connected scene clients and resource-path
// requests are answered with this process's search roots.
type Bridge struct {
	io     *socket.Server
	opts   BridgeOptions
	logger *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// NewBridge creates a bridge. Its handler is not served until Handler or
// ListenAndServe is used.
func NewBridge(ctx context.Context, opts BridgeOptions) *Bridge {
	if opts.SpawnEvent == "" {
		opts.SpawnEvent = DefaultSpawnEvent
	}
	if opts.PathsEvent == "" {
		opts.PathsEvent = resourcepaths.DefaultEvent
	}
	if opts.Paths == nil {
		opts.Paths = func() []string { return nil }
	}

	b := &Bridge{
		io:     socket.NewServer(nil, nil),
		opts:   opts,
		logger: ctxlog.FromContext(ctx).With("component", "bridge"),
	}
	b.io.On("connection", b.onConnection)
	return b
}

func (b *Bridge) onConnection(clients ...any) {
	client, ok := clients[0].(*socket.Socket)
	if !ok {
		return
	}
	logger := b.logger.With("sid", client.Id())
	logger.Info("Scene client connected.")

	client.On(b.opts.PathsEvent, func(args ...any) {
		if len(args) == 0 {
			return
		}
		ack, ok := args[len(args)-1].(socket.Ack)
		if !ok {
			logger.Debug("Resource path request without acknowledgement ignored.")
			return
		}
		paths := b.opts.Paths()
		logger.Debug("Answering resource path request.", "count", len(paths))
		ack([]any{paths}, nil)
	})

	client.On("disconnect", func(reason ...any) {
		var r any
		if len(reason) > 0 {
			r = reason[0]
		}
		logger.Info("Scene client disconnected.", "reason", r)
	})
}

// Handler returns the socket.io HTTP handler. Mount it at "/socket.io/".
func (b *Bridge) Handler() http.Handler {
	return b.io.ServeHandler(nil)
}

// Spawn implements spawn.Sink by broadcasting the payload.
func (b *Bridge) Spawn(_ context.Context, p model.SpawnPayload) error {
	if n := b.Clients(); n == 0 {
		b.logger.Warn("Spawn broadcast with no scene clients connected.", "source", p.Source)
	}
	b.io.Emit(b.opts.SpawnEvent, map[string]any{
		"source": p.Source,
		"sdf":    p.SDF,
	})
	return nil
}

// Clients returns the number of connected sockets on the default namespace.
func (b *Bridge) Clients() int {
	return b.io.Sockets().Sockets().Len()
}

// ListenAndServe serves the bridge on addr until ctx is done. ready, if not
// nil, receives the bound address once listening.
func (b *Bridge) ListenAndServe(ctx context.Context, addr string, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", b.Handler())

	srv := &http.Server{Handler: mux}
	b.mu.Lock()
	b.httpServer = srv
	b.mu.Unlock()

	b.logger.Info("🛰️ Bridge listening", "address", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return b.Close()
	}
}

// Close disconnects every client and stops the HTTP server, if any.
func (b *Bridge) Close() error {
	b.io.Close(nil)

	b.mu.Lock()
	srv := b.httpServer
	b.httpServer = nil
	b.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		b.logger.Error("Bridge shutdown failed", "error", err)
		return err
	}
	b.logger.Debug("Bridge shut down gracefully.")
	return nil
}
