package liveview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/camera"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/property"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// ErrServerRunning is returned by Start on a running server.
var ErrServerRunning = errors.New("liveview: server already running")

// Properties lists image properties. camera.ReleaseControl satisfies it.
type Properties interface {
	EnumImageProperties() ([]uint32, error)
	GetImageProperty(id uint32) (property.Value, error)
}

// Describer names properties and formats their values. *camera.Device
// satisfies it.
type Describer interface {
	PropertyName(id uint32) string
	DisplayText(id uint32, v variant.Variant) string
}

// Server serves one viewfinder over HTTP.
type Server struct {
	config Config
	logger *slog.Logger

	viewfinder camera.Viewfinder
	props      Properties
	names      Describer

	hub    *Hub
	router *gin.Engine

	mu       sync.Mutex
	http     *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer creates a live-view server. props and names may be nil, which
// disables the property listing.
func NewServer(config Config, vf camera.Viewfinder, props Properties, names Describer) *Server {
	config = config.withDefaults()

	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if config.Debug {
		r.Use(gin.Logger())
	}

	s := &Server{
		config:     config,
		logger:     config.Logger,
		viewfinder: vf,
		props:      props,
		names:      names,
		hub:        NewHub(config.ClientBuffer),
		router:     r,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthHandler)
	s.router.GET("/stream.mjpg", s.streamHandler)
	s.router.GET("/snapshot.jpg", s.snapshotHandler)
	s.router.GET("/histogram/:channel", s.histogramHandler)
	s.router.GET("/properties", s.propertiesHandler)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the frame hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start routes viewfinder frames into the hub and starts listening.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return ErrServerRunning
	}

	if s.viewfinder != nil {
		if err := s.viewfinder.SetAvailImageHandler(s.hub.Publish); err != nil {
			return fmt.Errorf("liveview: attach viewfinder: %w", err)
		}
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		if s.viewfinder != nil {
			_ = s.viewfinder.SetAvailImageHandler(nil)
		}
		return fmt.Errorf("liveview: listen: %w", err)
	}

	srv := &http.Server{Handler: s.router}
	done := make(chan struct{})
	s.http = srv
	s.listener = ln
	s.done = done

	s.info("live view listening", "address", ln.Addr().String())

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.warn("serve failed", err)
		}
	}()
	return nil
}

// Addr returns the listen address, or nil when not running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop detaches the viewfinder, ends all streams and shuts down the
// HTTP server.
func (s *Server) Stop() {
	s.mu.Lock()
	srv, done := s.http, s.done
	s.http, s.listener, s.done = nil, nil, nil
	s.mu.Unlock()

	if s.viewfinder != nil {
		_ = s.viewfinder.SetAvailImageHandler(nil)
	}
	s.hub.Close()

	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		_ = srv.Close()
	}
	<-done
	s.info("live view stopped")
}

func (s *Server) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}
