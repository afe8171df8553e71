package browserauth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// DefaultCallbackPort is the default port for the local callback server.
const DefaultCallbackPort = 3000

const callbackPath = "/callback"

const successPage = `<!DOCTYPE html>
<html><head><title>Authorization complete</title></head>
<body><h1>Authorization complete</h1>
<p>You can close this window and return to the terminal.</p></body></html>`

const errorPage = `<!DOCTYPE html>
<html><head><title>Authorization failed</title></head>
<body><h1>Authorization failed</h1>
<p>%s</p><p>Return to the terminal for details.</p></body></html>`

// Result is the outcome of an authorization redirect.
type Result struct {
	// Code is the authorization code.
	Code string

	// State echoes the state parameter of the original request.
	State string

	// Error is the OAuth error code if the authorization failed.
	Error string

	// ErrorDescription is a human-readable error description.
	ErrorDescription string
}

// IsError reports whether the redirect carried an error.
func (r *Result) IsError() bool {
	return r.Error != ""
}

// CallbackServer is a temporary local HTTP server that receives a single
// authorization redirect and then shuts down.
type CallbackServer struct {
	port     int
	server   *http.Server
	listener net.Listener
	resultCh chan *Result
	errorCh  chan error
	done     chan struct{}
	once     sync.Once
	stopOnce sync.Once
}

// NewCallbackServer creates a callback server. Port 0 selects
// DefaultCallbackPort; a negative port asks the kernel for a free one.
func NewCallbackServer(port int) *CallbackServer {
	if port == 0 {
		port = DefaultCallbackPort
	}
	if port < 0 {
		port = 0
	}
	return &CallbackServer{
		port:     port,
		resultCh: make(chan *Result, 1),
		errorCh:  make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Start begins listening and returns the redirect URI to use in the
// authorization request. The server stops when the context is cancelled.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to start callback server on %s: %w", addr, err)
	}
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	// The watcher exits on Stop too, so it never outlives the server when
	// the context is never cancelled.
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	return fmt.Sprintf("http://localhost:%d%s", s.port, callbackPath), nil
}

// Wait blocks until the redirect arrives, the server fails, or the
// context is cancelled.
func (s *CallbackServer) Wait(ctx context.Context) (*Result, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts the server down. Safe to call more than once.
func (s *CallbackServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = s.server.Shutdown(ctx)
		}
	})
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result := &Result{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.IsError() {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, errorPage, result.Error)
	} else {
		fmt.Fprint(w, successPage)
	}

	// Only the first redirect counts; refreshes of the page are ignored.
	s.once.Do(func() {
		s.resultCh <- result
	})
}
