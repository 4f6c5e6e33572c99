package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"docsync/internal/api"
	"docsync/internal/reconciler"
	"docsync/pkg/logging"
)

// DefaultShutdownTimeout bounds how long Start waits for in-flight requests
// once its context is cancelled.
const DefaultShutdownTimeout = 10 * time.Second

// LoopStatus is the part of the reconcile loop the server reads.
type LoopStatus interface {
	Health() reconciler.Health
	LastTick() *reconciler.TickResult
	Metrics() *reconciler.LoopMetrics
	SourceName() string
	Interval() time.Duration
	Trigger()
}

// Config is the listen address of the status server.
type Config struct {
	Host string
	Port int
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server serves the status API.
type Server struct {
	cfg       Config
	loop      LoopStatus
	snapshots api.SnapshotReader
	echo      *echo.Echo
}

// New creates a server. snapshots may be nil, in which case /status lists no
// documents.
func New(cfg Config, loop LoopStatus, snapshots api.SnapshotReader) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		cfg:       cfg,
		loop:      loop,
		snapshots: snapshots,
		echo:      e,
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/status", s.handleStatus)
	e.POST("/reconcile", s.handleReconcile)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and blocks until ctx is cancelled
// or the listener fails. On cancellation the server is shut down gracefully.
// The listener is bound before ctx is consulted; bind errors are returned
// directly.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("status server on %s: %w", s.cfg.Addr(), err)
	}
	s.echo.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server", "Status server listening on %s", ln.Addr())
		if err := s.echo.Start(ln.Addr().String()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("status server on %s: %w", s.cfg.Addr(), err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Server", "Shutting down status server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down status server: %w", err)
	}
	return nil
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Source    string                    `json:"source"`
	Interval  string                    `json:"interval"`
	Health    reconciler.Health         `json:"health"`
	LastTick  *reconciler.TickResult    `json:"lastTick,omitempty"`
	Metrics   reconciler.MetricsSummary `json:"metrics"`
	Documents []api.DocumentSummary     `json:"documents"`
}

func (s *Server) handleHealth(c echo.Context) error {
	h := s.loop.Health()
	status := http.StatusOK
	if !h.Healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, h)
}

func (s *Server) handleStatus(c echo.Context) error {
	resp := StatusResponse{
		Source:    s.loop.SourceName(),
		Interval:  s.loop.Interval().String(),
		Health:    s.loop.Health(),
		LastTick:  s.loop.LastTick(),
		Metrics:   s.loop.Metrics().GetSummary(),
		Documents: []api.DocumentSummary{},
	}

	if s.snapshots != nil {
		docs, err := s.snapshots.List(c.Request().Context())
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		for _, doc := range docs {
			resp.Documents = append(resp.Documents, doc.Summary())
		}
		sort.Slice(resp.Documents, func(i, j int) bool {
			return resp.Documents[i].ContextPath < resp.Documents[j].ContextPath
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReconcile(c echo.Context) error {
	s.loop.Trigger()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "triggered"})
}

// ErrorResponse is the body written for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := reconciler.SanitizeErrorMessage(err.Error())
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		logging.Error("Server", err, "Request %s %s failed", c.Request().Method, c.Request().URL.Path)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: message})
}
