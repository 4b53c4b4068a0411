// launching the server, compositor, redis cache, kafka producer
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"net/http"

	"github.com/ds124wfegd/WB_L3/memestudio/config"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/database"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/database/redis"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/compositor"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/service"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/transport"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/worker"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	comp, err := newCompositor(cfg.Render.FontPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize compositor: %v", err)
	}

	var cache service.RenderCache
	if cfg.Redis.Enabled {
		client := redis.NewRedisClient(&cfg.Redis)
		defer client.Close()

		renderCache := redis.NewRenderCache(client, cfg.Redis.CacheTTL)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
		if err := renderCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Redis unavailable, render cache disabled")
		} else {
			cache = renderCache
			logrus.WithField("addr", cfg.Redis.Addr()).Info("Render cache connected")
		}
		cancel()
	}

	var producer kafka.Producer = kafka.NewMockProducer()
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer producer.Close()

	memeService := service.NewMemeService(
		database.NewSessionRepository(),
		service.NewPipeline(comp, cache),
		producer,
		service.Options{
			Target:          entity.Size{W: cfg.Render.MaxWidth, H: cfg.Render.MaxHeight},
			MaxUploadBytes:  cfg.App.MaxUploadBytes,
			MaxSourcePixels: cfg.Render.MaxSourcePixels,
			ShareCaption:    cfg.App.ShareCaption,
		},
	)
	sessionHandler := transport.NewSessionHandler(memeService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := worker.NewSessionCleanupWorker(memeService, cfg.Worker.CleanupInterval, cfg.Worker.SessionIdleTTL)
	go cleanupWorker.Start(ctx)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(sessionHandler, cfg.App.RequestTimeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

func newCompositor(fontPath string) (*compositor.Compositor, error) {
	if fontPath == "" {
		return compositor.New(nil)
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, err
	}
	return compositor.New(data)
}
