package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pneumoai/pneumo-api/internal/classify"
	"github.com/pneumoai/pneumo-api/internal/config"
	"github.com/pneumoai/pneumo-api/internal/demo"
	"github.com/pneumoai/pneumo-api/internal/handlers"
	"github.com/pneumoai/pneumo-api/internal/logger"
	"github.com/pneumoai/pneumo-api/internal/model"
	"github.com/pneumoai/pneumo-api/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the prediction API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(cfg *config.Config, pipeline *classify.Pipeline, log *zap.Logger) *server.Server {
			srv := server.New(cfg, cfg.Port)
			handlers.New(pipeline, log).Register(srv.Engine())
			return srv
		})
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Start the interactive browser demo",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(cfg *config.Config, pipeline *classify.Pipeline, log *zap.Logger) *server.Server {
			srv := server.New(cfg, cfg.DemoPort)
			demo.New(pipeline, log).Register(srv.Engine(), cfg.PublicDir)
			return srv
		})
	},
}

func init() {
	serveCmd.Flags().Int("port", 5001, "Port for the prediction API")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))

	demoCmd.Flags().Int("port", 7860, "Port for the demo UI")
	viper.BindPFlag("demo_port", demoCmd.Flags().Lookup("port"))
}

// run wires the pipeline into one of the two front ends and serves
// until interrupted. The model loads eagerly; if that fails the
// process exits without ever listening.
func run(mount func(*config.Config, *classify.Pipeline, *zap.Logger) *server.Server) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		return fmt.Errorf("error building logger: %w", err)
	}
	defer log.Sync()

	m, err := model.Load(cfg.ModelPath, cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	defer m.Close()

	log.Info("model loaded successfully",
		zap.String("path", cfg.ModelPath),
		zap.Int64s("input_shape", m.Metadata.InputShape))

	srv := mount(cfg, classify.NewPipeline(m), log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr()))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return srv.Stop(context.Background())
	}
}
