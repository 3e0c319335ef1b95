package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "socialfeed/docs"
	"socialfeed/internal/config"
	"socialfeed/internal/handlers"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/logger"
	"socialfeed/internal/repository"
	"socialfeed/internal/repository/db"
	"socialfeed/internal/server"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// @title                       socialfeed API
// @version                     1.0
// @description                 Users, posts, likes, comments and follows behind bearer-token auth.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs")
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Warnw("auth.jwt_secret is empty; tokens will not survive a restart")
	}

	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	images, err := openImageStore(cfg)
	if err != nil {
		log.Fatalw("failed to init image store", "backend", cfg.Images.Backend, "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, images, service.AuthOptions{
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Pprof:       cfg.Debug.Pprof,
	})

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

func openDB(cfg *config.Server, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening database", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

func openImageStore(cfg *config.Server) (imagestore.Store, error) {
	if cfg.Images.Backend == config.ImagesMinio {
		m := cfg.Minio
		store, err := imagestore.NewMinioStore(m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := imagestore.NewDiskStore(cfg.Images.Dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
