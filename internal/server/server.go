// Package server exposes the action layer over HTTP. Every response body is
// the types.ActionResult envelope; the HTTP status code mirrors the
// envelope's error code. Authentication is a bearer token checked by
// middleware before any handler runs.
package server

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venturelab/workbench/internal/actions"
	"github.com/venturelab/workbench/internal/relate"
	"github.com/venturelab/workbench/pkg/types"
)

// envToken is the environment variable holding the API bearer token. A .env
// file in the working directory is honored via godotenv.
const envToken = "WORKBENCH_API_TOKEN"

// Options configures the HTTP server.
type Options struct {
	// ListenAddr is the host:port to bind.
	ListenAddr string

	// Token is the bearer token required on every request. Empty means
	// read from the environment; still empty disables auth (local use).
	Token string

	// Logger receives server diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Server wires the gin router over an action layer.
type Server struct {
	engine  *gin.Engine
	actions *actions.Actions
	opts    Options
}

// New builds a server over store. The token, unless set explicitly, comes
// from WORKBENCH_API_TOKEN (a .env file is loaded first when present).
func New(store relate.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Token == "" {
		_ = godotenv.Load()
		opts.Token = os.Getenv(envToken)
	}

	s := &Server{opts: opts}
	s.actions = actions.New(store, bearerAuthenticator{}, actions.NopRevalidator{}, opts.Logger)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), metricsMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.OK("ok"))
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api", tokenMiddleware(opts.Token))
	s.routes(api)

	s.engine = engine
	return s
}

func (s *Server) routes(api *gin.RouterGroup) {
	api.POST("/entities", s.createEntity)
	api.GET("/entities/:type", s.listEntities)
	api.GET("/entities/:type/:id", s.getEntity)
	api.PUT("/entities/:type/:id", s.updateEntity)
	api.DELETE("/entities/:type/:id", s.deleteEntity)

	api.GET("/entities/:type/:id/relationships", s.relationships)
	api.PUT("/entities/:type/:id/links", s.updateLinks)
	api.POST("/entities/:type/:id/links", s.addLink)
	api.DELETE("/entities/:type/:id/links/:linkID", s.removeLink)
	api.PUT("/entities/:type/:id/links/order", s.reorderLinks)

	api.GET("/entities/:type/:id/evidence", s.listEvidence)
	api.POST("/entities/:type/:id/evidence", s.addEvidence)
	api.GET("/entities/:type/:id/feedback", s.listFeedback)
	api.POST("/entities/:type/:id/feedback", s.addFeedback)

	api.PUT("/journeys/:id/stages/order", s.reorderStages)
	api.POST("/journeys/:id/stages/:stageID/move", s.moveStage)
	api.PUT("/stages/:id/touchpoints/order", s.reorderTouchpoints)
	api.POST("/stages/:id/touchpoints/:touchpointID/move", s.moveTouchpoint)
}

// Handler returns the underlying http.Handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	addr := s.opts.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:8787"
	}
	s.opts.Logger.Printf("listening on %s", addr)
	return s.engine.Run(addr)
}

// statusFor maps an envelope error code to an HTTP status.
func statusFor(res types.ActionResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case types.CodeUnauthorized:
		return http.StatusUnauthorized
	case types.CodeAccessDenied:
		return http.StatusForbidden
	case types.CodeValidationError:
		return http.StatusBadRequest
	case types.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respond writes the envelope with its mapped status.
func respond(c *gin.Context, res types.ActionResult) {
	c.JSON(statusFor(res), res)
}
