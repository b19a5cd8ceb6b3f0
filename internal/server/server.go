package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/discovery"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/version"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host        string
	Port        int
	CatalogPath string // YAML catalog file; empty serves the built-in catalog
	ImageDir    string // Directory served under /images/ (empty = disabled)
	CertPath    string // TLS certificate (requires KeyPath)
	KeyPath     string // TLS private key (requires CertPath)
	LogLevel    string
	Advertise   bool   // Announce the library over mDNS
	Name        string // mDNS instance name
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if (c.CertPath == "") != (c.KeyPath == "") {
		return errors.New("--cert and --key must be provided together")
	}
	if c.ImageDir != "" {
		info, err := os.Stat(c.ImageDir)
		if err != nil {
			return fmt.Errorf("image directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("image directory %s is not a directory", c.ImageDir)
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TLSEnabled reports whether the server serves HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.CertPath != "" && c.KeyPath != ""
}

// Server is the script library HTTP server.
type Server struct {
	config    *Config
	source    *catalog.Source
	tlsConfig *tls.Config
	handler   http.Handler

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}

	feeds feedRegistry
}

// New creates a server, loading the configured catalog.
func New(config *Config) (*Server, error) {
	if config.LogLevel != "" {
		if err := logging.Initialize(config.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if config.CatalogPath != "" {
		loaded, err := catalog.LoadFile(config.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	var tlsConfig *tls.Config
	if config.TLSEnabled() {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		source:    catalog.NewSource(cat),
		tlsConfig: tlsConfig,
		ready:     make(chan struct{}),
	}
	s.feeds.init()
	s.handler = s.routes()
	return s, nil
}

// Source returns the live catalog source.
func (s *Server) Source() *catalog.Source {
	return s.source
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// ListenAddr returns the bound address, or nil before Ready.
func (s *Server) ListenAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves HTTP, watches the catalog file and advertises over mDNS until
// ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Addr()

	logging.Info("Starting script library server",
		zap.String("addr", addr),
		zap.Bool("tls", s.config.TLSEnabled()),
		zap.String("catalog", catalogLabel(s.config.CatalogPath)),
		zap.Int("scripts", s.source.Current().Len()),
		zap.String("log_level", s.config.LogLevel),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		logging.Info("TLS Configuration", zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	close(s.ready)

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logging.GetLogger()),
	}
	httpServer.RegisterOnShutdown(s.feeds.closeAll)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server listening for connections", zap.String("addr", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(httpServer)
	})

	var advertiser *discovery.Advertiser
	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		advertiser = discovery.NewAdvertiser(s.instanceName(), port, version.Version)
		advertiser.SetScriptCount(s.source.Current().Len())
		g.Go(func() error {
			if err := advertiser.Run(gctx); err != nil {
				// The library stays reachable by address without mDNS.
				logging.Warn("mDNS advertisement unavailable", zap.Error(err))
			}
			return nil
		})
	}

	if s.config.CatalogPath != "" {
		watcher, err := catalog.NewWatcher(s.config.CatalogPath, s.source)
		if err != nil {
			logging.Warn("Catalog hot reload disabled", zap.Error(err))
		} else {
			watcher.OnReload = func(c *catalog.Catalog, err error) {
				if err == nil && advertiser != nil {
					advertiser.SetScriptCount(c.Len())
				}
			}
			g.Go(func() error {
				return watcher.Run(gctx)
			})
		}
	}

	return g.Wait()
}

// shutdown stops accepting requests, closes feeds and waits for in-flight
// requests for up to ShutdownTimeout.
func (s *Server) shutdown(httpServer *http.Server) error {
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn("Shutdown timeout, forcing close", zap.Duration("timeout", ShutdownTimeout))
		_ = httpServer.Close()
		err = nil
	}

	if !s.feeds.wait(ctx) {
		logging.Warn("Feed connections still open after shutdown timeout")
	}

	logging.Info("Server stopped")
	logging.Sync()
	return err
}

// ActiveFeeds returns the number of connected feed clients.
func (s *Server) ActiveFeeds() int {
	return s.feeds.count()
}

func (s *Server) instanceName() string {
	if s.config.Name != "" {
		return s.config.Name
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "Premiere Library"
	}
	return "Premiere Library on " + host
}

func catalogLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
