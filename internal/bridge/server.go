package bridge

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lowball-labs/go-lowball-agent/internal/store"
)

// Server is the read-only dashboard bridge. It exposes stored
// negotiations over HTTP and forwards submitted commands to the agent
// loop through a channel; it never mutates negotiation state itself.
type Server struct {
	echo  *echo.Echo
	store store.Store
	cmds  chan string
	log   *slog.Logger
}

func NewServer(st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:  e,
		store: st,
		cmds:  make(chan string, 16),
		log:   logger,
	}

	e.GET("/healthz", s.handleHealthz)
	e.GET("/negotiations", s.handleNegotiations)
	e.GET("/negotiations/:key", s.handleNegotiation)
	e.POST("/cmd", s.handleCommand)

	return s
}

// Handler exposes the routed handler for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Commands is the queue of user commands submitted over HTTP. The agent
// loop drains it alongside stdin.
func (s *Server) Commands() <-chan string {
	return s.cmds
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.log.Info("bridge listening", "addr", addr)
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Close() error {
	return s.echo.Close()
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNegotiations(c echo.Context) error {
	all, err := s.store.LoadAll()
	if err != nil {
		s.log.Error("load negotiations", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) handleNegotiation(c echo.Context) error {
	key := c.Param("key")
	if dec, err := url.PathUnescape(key); err == nil {
		key = dec
	}
	n, found, err := s.store.Load(key)
	if err != nil {
		s.log.Error("load negotiation", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown negotiation " + key})
	}
	return c.JSON(http.StatusOK, n)
}

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleCommand(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil || req.Command == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "command required"})
	}

	select {
	case s.cmds <- req.Command:
		return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	default:
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "command queue full"})
	}
}
