// Package server is the development server: it serves the built site,
// rebuilds on changes and tells open browsers to reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type Options struct {
	Addr       string
	OutputDir  string
	WatchDirs  []string
	LiveReload bool
	Debounce   time.Duration
}

// RebuildFunc regenerates the output directory.
type RebuildFunc func(ctx context.Context) error

type Server struct {
	opts    Options
	rebuild RebuildFunc
	logger  *slog.Logger
	hub     *Hub
}

func New(opts Options, rebuild RebuildFunc, logger *slog.Logger) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Server{
		opts:    opts,
		rebuild: rebuild,
		logger:  logger,
		hub:     NewHub(logger),
	}
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.LiveReload {
		mux.Handle(ReloadPath, s.hub)
	}
	mux.Handle("/", FileHandler(s.opts.OutputDir))
	return mux
}

// Run watches the source directories and serves the output directory until
// ctx is done.
func (s *Server) Run(ctx context.Context) error {
	watcher, err := NewWatcher(s.opts.WatchDirs, []string{s.opts.OutputDir}, s.opts.Debounce, s.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- watcher.Run(ctx, func(paths []string) {
			s.Rebuild(ctx, paths)
		})
	}()

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		cancel()
		<-watchDone
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(ln)
	}()
	s.logger.Info("serving site", "dir", s.opts.OutputDir, "url", "http://"+displayAddr(ln.Addr()))

	select {
	case <-ctx.Done():
	case err := <-serveDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancel()
			<-watchDone
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("server shutdown", "error", err)
	}
	cancel()
	return <-watchDone
}

// Rebuild regenerates the site after paths changed and notifies browsers.
// A failed build is reported to them instead of a reload.
func (s *Server) Rebuild(ctx context.Context, paths []string) {
	s.logger.Info("rebuilding site", "changes", len(paths))
	if err := s.rebuild(ctx); err != nil {
		s.logger.Error("rebuild failed", "error", err)
		s.hub.Broadcast(Message{Type: "ERROR", Error: err.Error()})
		return
	}
	s.logger.Info("site rebuilt")
	s.hub.Reload()
}

func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || !tcp.IP.IsUnspecified() {
		return addr.String()
	}
	return fmt.Sprintf("localhost:%d", tcp.Port)
}
