package resourcepaths

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the whole query, connection included.
const DefaultTimeout = 5000 * time.Millisecond

// SocketIOOptions configures a SocketIO querier.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO queries resource paths over a socket.io request/acknowledgement.
type SocketIO struct {
	opts SocketIOOptions
}

// NewSocketIO fills in defaults and returns a querier.
func NewSocketIO(opts SocketIOOptions) *SocketIO {
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &SocketIO{opts: opts}
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	paths []string
	err   error
}

// Query connects, emits the request and waits for the acknowledgement. It
// never waits longer than the configured timeout.
func (q *SocketIO) Query(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx).With("url", q.opts.URL, "event", q.opts.Event)
	logger.Debug("Resource path query started.")

	parsedURL, err := url.Parse(q.opts.URL)
	if err != nil || parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrUnavailable, q.opts.URL)
	}

	opCtx, cancel := context.WithTimeout(ctx, q.opts.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if q.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)
	opts.SetTimeout(q.opts.Timeout)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(q.opts.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting resource path client.")
		io.Disconnect()
	}()

	done := make(chan opResult, 2)
	send := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to simulation.", "sid", io.Id())
		io.Timeout(q.opts.Timeout).EmitWithAck(q.opts.Event)(func(args []any, err error) {
			if err != nil {
				send(opResult{err: fmt.Errorf("%w: %v", ErrUnavailable, err)})
				return
			}
			paths, err := decodePaths(args)
			send(opResult{paths: paths, err: err})
		})
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var cause any = "connect error"
		if len(errs) > 0 {
			cause = errs[0]
		}
		send(opResult{err: fmt.Errorf("%w: %v", ErrUnavailable, cause)})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: timed out after %s", ErrUnavailable, q.opts.Timeout)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Debug("Resource path query answered.", "count", len(res.paths))
		return res.paths, nil
	}
}

// decodePaths accepts the shapes a service may answer with: a list of
// strings, a single path-list string, or several string arguments.
func decodePaths(args []any) ([]string, error) {
	var out []string
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case string:
			out = append(out, SplitList(v)...)
		case []string:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: unexpected element %T in response", ErrUnavailable, item)
				}
				out = append(out, s)
			}
		case map[string]any:
			if data, ok := v["data"]; ok {
				return decodePaths([]any{data})
			}
			return nil, fmt.Errorf("%w: response object has no data field", ErrUnavailable)
		default:
			return nil, fmt.Errorf("%w: unexpected response type %T", ErrUnavailable, arg)
		}
	}
	out = clean(out)
	if len(out) == 0 {
		return nil, ErrEmptyResponse
	}
	return out, nil
}

// String describes the endpoint for log output.
func (q *SocketIO) String() string {
	return strings.TrimRight(q.opts.URL, "/") + " " + q.opts.Event
}
