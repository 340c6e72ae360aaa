package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afisha-dev/afisha/config"
	repository "github.com/afisha-dev/afisha/internal/database/postgres"
	"github.com/afisha-dev/afisha/internal/service"
	"github.com/afisha-dev/afisha/internal/transport"
	"github.com/afisha-dev/afisha/pkg/postgres"
	"github.com/afisha-dev/afisha/pkg/statclient"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.ServerConfig, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Timeout,
		IdleTimeout:       cfg.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewServer поднимает основной сервис афиши
func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	compilationRepo := repository.NewCompilationRepository(db)

	// Initialize stats client
	statsClient := statclient.NewClient(cfg.StatsClient.BaseURL, cfg.StatsClient.Timeout)

	// Initialize services
	statService := service.NewStatService(statsClient, requestRepo, cfg.App.Name)
	eventService := service.NewEventService(eventRepo, categoryRepo, userRepo, statService)
	requestService := service.NewRequestService(requestRepo, eventRepo, userRepo)
	categoryService := service.NewCategoryService(categoryRepo, eventRepo)
	userService := service.NewUserService(userRepo)
	commentService := service.NewCommentService(commentRepo, eventRepo, userRepo)
	compilationService := service.NewCompilationService(compilationRepo, eventRepo, requestRepo)

	// Initialize handlers
	eventHandler := transport.NewEventHandler(eventService, statService)
	requestHandler := transport.NewRequestHandler(requestService)
	categoryHandler := transport.NewCategoryHandler(categoryService)
	userHandler := transport.NewUserHandler(userService)
	commentHandler := transport.NewCommentHandler(commentService)
	compilationHandler := transport.NewCompilationHandler(compilationService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		routes := transport.InitRoutes(
			eventHandler, requestHandler, categoryHandler,
			userHandler, commentHandler, compilationHandler,
		)
		if err := srv.Run(&cfg.Server, routes); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

// NewStatsServer поднимает сервис статистики
func NewStatsServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.StatsDatabase)
	if err != nil {
		log.Fatalf("Failed to initialize stats database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunStatsMigrations(db); err != nil {
		logrus.Fatalf("Failed to run stats migrations: %v", err)
	}

	hitRepo := repository.NewHitRepository(db)
	hitService := service.NewHitService(hitRepo)
	statsHandler := transport.NewStatsHandler(hitService)

	if cfg.StatsServer.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(&cfg.StatsServer, transport.InitStatsRoutes(statsHandler)); err != nil {
			logrus.Fatalf("error occured while running stats server: %s", err.Error())
		}
	}()

	logrus.Print("Stats Service Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("Stats Service Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
