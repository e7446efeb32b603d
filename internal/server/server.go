package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"github.com/pneumoai/pneumo-api/internal/config"
)

type Server struct {
	listenAddr string
	ginEngine  *gin.Engine
	inner      *http.Server
}

// New builds a Gin engine with the shared middleware stack: access
// logging, CORS open to all origins, and panic recovery.
func New(cfg *config.Config, port int) *Server {
	gin.SetMode(ginMode(cfg.Environment))
	r := gin.New()

	r.Use(logger.SetLogger(
		logger.WithUTC(true),
	))

	r.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		MaxAge:       300,
	}))

	r.Use(gin.Recovery())

	r.MaxMultipartMemory = cfg.MaxUploadSize

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	return &Server{
		listenAddr: addr,
		ginEngine:  r,
		inner: &http.Server{
			Handler: r,
			Addr:    addr,
		},
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.ginEngine
}

func (s *Server) Addr() string {
	return s.listenAddr
}

func (s *Server) Start() error {
	if err := s.inner.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return s.inner.Shutdown(ctx)
}

func ginMode(env string) string {
	switch env {
	case "development":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
