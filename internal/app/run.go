package app

import (
	"context"
	"fmt"
	"net"
)

// Run serves the spawner until ctx is done: the health check, the socket.io
// bridge on the configured listen address, and both panels loading in the
// background. Payloads spawned meanwhile reach the writer and the bridge.
// ready, if not nil, receives the bridge address once it is listening.
func (a *App) Run(ctx context.Context, ready chan<- net.Addr) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	a.startHealthCheckServer(ctx)
	defer a.closeHealthCheckServer(ctx)

	a.serving.Store(true)
	defer a.serving.Store(false)

	resourceDone := a.resource.Activate(ctx)
	defer a.resource.Deactivate()
	insertDone := a.insert.Activate(ctx)
	defer a.insert.Deactivate()

	bridgeDone := make(chan error, 1)
	go func() {
		bridgeDone <- a.bridge.ListenAndServe(ctx, a.config.Bridge.Listen, ready)
	}()

	a.logger.Info("🚀 Resource spawner serving.", "bridge", a.config.Bridge.Listen)
	for {
		select {
		case err := <-resourceDone:
			resourceDone = nil
			if err != nil {
				a.logger.Warn("Resource spawner did not load.", "error", err)
				continue
			}
			a.logger.Info("Models available.", "count", len(a.resource.Models()), "paths", len(a.registry.All()))
		case err := <-insertDone:
			insertDone = nil
			if err != nil {
				a.logger.Warn("Insert model panel did not load.", "error", err)
			}
		case err := <-bridgeDone:
			if err != nil {
				return fmt.Errorf("bridge stopped: %w", err)
			}
			a.logger.Info("🏁 Resource spawner stopped.")
			return nil
		}
	}
}
