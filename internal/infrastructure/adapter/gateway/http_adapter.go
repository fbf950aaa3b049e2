// Package gateway provides the HTTP adapter exposing the tool catalog to
// network clients. It serves discovery, catalog listing, tool dispatch and
// the Server-Sent Events stream, with API-key authentication and CORS.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"viterbit-gateway/internal/application/dto"
	"viterbit-gateway/internal/infrastructure/adapter/stream"
)

// Version is the service version advertised on every discovery surface.
const Version = "2.0.0"

// maxCallBodySize is the maximum allowed size for tool-call request bodies (1MB).
const maxCallBodySize = 1 << 20

// apiKeyHeader carries the client credential.
const apiKeyHeader = "X-API-Key"

// ToolInvoker dispatches decoded call requests and answers catalog
// introspection. The tool invocation use case implements it.
type ToolInvoker interface {
	Call(ctx context.Context, req *dto.CallRequest) dto.CallResult
	CatalogSnapshot() json.RawMessage
	OperationCount() int
}

// StreamServer owns live event-stream sessions. The stream manager
// implements it.
type StreamServer interface {
	Serve(ctx context.Context, w http.ResponseWriter, credential string) error
	Count() int
	Shutdown()
}

// HTTPAdapterConfig configures the gateway HTTP server.
type HTTPAdapterConfig struct {
	// Addr is the address to listen on (e.g., ":8000", "0.0.0.0:8000").
	Addr string
	// APIKeys is the set of accepted client credentials. An empty set
	// disables authentication.
	APIKeys []string
	// AllowedOrigins lists origins accepted for cross-origin requests;
	// "*" accepts any origin.
	AllowedOrigins []string
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// ShutdownTimeout is the grace period for graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() HTTPAdapterConfig {
	return HTTPAdapterConfig{
		Addr:            ":8000",
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// HTTPAdapter serves the gateway endpoints and manages server lifecycle.
// It implements graceful shutdown and closes event streams before the
// HTTP server drains.
type HTTPAdapter struct {
	invoker ToolInvoker
	streams StreamServer
	config  HTTPAdapterConfig
	handler http.Handler
	server  *http.Server
	mu      sync.Mutex
	started bool
}

// NewHTTPAdapter creates a new gateway HTTP adapter.
func NewHTTPAdapter(invoker ToolInvoker, streams StreamServer, config HTTPAdapterConfig) *HTTPAdapter {
	adapter := &HTTPAdapter{
		invoker: invoker,
		streams: streams,
		config:  config,
	}
	adapter.config.APIKeys = nonEmptyKeys(config.APIKeys)
	adapter.handler = adapter.buildHandler()
	return adapter
}

// nonEmptyKeys drops blank entries, which appear when the configured key
// list comes from splitting an unset environment variable.
func nonEmptyKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			out = append(out, key)
		}
	}
	return out
}

// buildHandler sets up the HTTP routes using Go 1.22+ syntax. CORS wraps
// the whole mux so preflight requests are answered before the credential
// guard runs; discovery and health stay unguarded.
func (a *HTTPAdapter) buildHandler() http.Handler {
	guard := APIKeyAuth(a.config.APIKeys)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.Handle("GET /tools", guard(http.HandlerFunc(a.handleListTools)))
	mux.Handle("POST /tools/call", guard(http.HandlerFunc(a.handleCall)))
	mux.Handle("GET /sse", guard(http.HandlerFunc(a.handleStream)))

	return CORS(a.config.AllowedOrigins)(mux)
}

// handleRoot serves unauthenticated service discovery.
func (a *HTTPAdapter) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewServiceInfo(Version, len(a.config.APIKeys) > 0))
}

// handleHealth serves the liveness probe.
func (a *HTTPAdapter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewHealthStatus(Version, a.invoker.OperationCount()))
}

// handleListTools serves the catalog snapshot bytes as-is.
func (a *HTTPAdapter) handleListTools(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.invoker.CatalogSnapshot())
}

// handleCall decodes a tool-call body and dispatches it. Only transport
// problems map to HTTP errors; invocation failures ride inside the 200
// envelope.
func (a *HTTPAdapter) handleCall(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCallBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorDetail{Detail: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: "failed to read request body"})
		return
	}

	req, err := dto.DecodeCallRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorDetail{Detail: err.Error()})
		return
	}

	slog.Info("tool called", "tool", req.Operation, "shape", req.Shape.String())
	result := a.invoker.Call(r.Context(), req)
	if result.Success {
		slog.Info("tool executed", "tool", req.Operation)
	} else {
		slog.Error("tool execution failed", "tool", req.Operation, "error", result.Error)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleStream hands the connection over to the stream manager. Once the
// manager writes its first event the response is committed, so only
// pre-stream failures map to HTTP status codes.
func (a *HTTPAdapter) handleStream(w http.ResponseWriter, r *http.Request) {
	err := a.streams.Serve(r.Context(), w, r.Header.Get(apiKeyHeader))
	switch {
	case err == nil:
	case errors.Is(err, stream.ErrManagerClosed):
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorDetail{Detail: "server is shutting down"})
	case errors.Is(err, stream.ErrStreamingUnsupported):
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: "streaming unsupported"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorDetail{Detail: err.Error()})
	}
}

// Start begins listening for HTTP requests.
// This method blocks until the context is cancelled or an error occurs.
func (a *HTTPAdapter) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return nil
	}

	// WriteTimeout stays zero: event-stream responses are long-lived.
	a.server = &http.Server{
		Addr:        a.config.Addr,
		Handler:     a.handler,
		ReadTimeout: a.config.ReadTimeout,
	}
	a.started = true
	a.mu.Unlock()

	if len(a.config.APIKeys) == 0 {
		slog.Warn("no API keys configured, authentication disabled")
	}
	slog.Info("gateway listening", "addr", a.config.Addr, "tools", a.invoker.OperationCount())

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server. Event-stream sessions are
// closed first so their connections can drain within the grace period.
func (a *HTTPAdapter) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started || a.server == nil {
		return nil
	}

	a.streams.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.started = false
	return err
}

// Addr returns the configured address.
func (a *HTTPAdapter) Addr() string {
	return a.config.Addr
}

// Handler returns the fully wrapped HTTP handler for testing purposes.
func (a *HTTPAdapter) Handler() http.Handler {
	return a.handler
}

// writeJSON marshals payload and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
