package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duckwheel/internal/config"
	"duckwheel/internal/handler"
	"duckwheel/internal/infrastructure/cache"
	"duckwheel/internal/infrastructure/database"
	"duckwheel/internal/infrastructure/lock"
	"duckwheel/internal/infrastructure/mq"
	"duckwheel/internal/infrastructure/notify"
	"duckwheel/internal/job"
	"duckwheel/internal/repository"
	"duckwheel/internal/seed"
	"duckwheel/internal/service"
	"duckwheel/pkg/idgen"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	setupLogging(cfg)

	if err := idgen.Init(cfg.Business.WorkerID); err != nil {
		logrus.WithError(err).Fatal("init id generator")
	}

	store, outbox, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open store")
	}

	deps := service.Deps{
		Store:    store,
		Locker:   lock.NewLocalUserLocker(),
		Cache:    cache.NopCache{},
		Notifier: notify.NopNotifier{},
		Config:   cfg,
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.InitRedis(&cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("init redis")
		}
		defer rdb.Close()
		deps.Locker = lock.NewRedisUserLocker(rdb,
			time.Duration(cfg.Business.LockTTLSeconds)*time.Second, cfg.Business.LockMaxRetries)
		deps.Cache = cache.NewRedisCache(rdb)
	}

	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramNotifier(&cfg.Telegram)
		if err != nil {
			logrus.WithError(err).Warn("telegram disabled")
		} else {
			defer tg.StopListening()
			deps.Notifier = tg
		}
	}

	var publisher mq.Publisher = mq.LogPublisher{}
	if cfg.Kafka.Enabled {
		kp, err := mq.InitKafka(&cfg.Kafka)
		if err != nil {
			logrus.WithError(err).Fatal("init kafka")
		}
		publisher = kp
	}
	defer publisher.Close()

	if cfg.App.AuthSecret == "" {
		logrus.Warn("app.auth_secret is empty, admin routes are open")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(outbox, publisher, &cfg.Business)
	go outboxSender.Start(ctx)

	router := handler.SetupRouter(handler.NewHandler(deps), cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"storage": cfg.Storage.Driver,
			"redis":   cfg.Redis.Enabled,
			"kafka":   cfg.Kafka.Enabled,
		}).Info("duckwheel listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("http shutdown")
	}
	logrus.Info("server stopped")
}

func setupLogging(cfg *config.Config) {
	if cfg.Server.Mode == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.App.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// gin's own writers would duplicate the access log.
	gin.DefaultWriter = io.Discard
}

func openStore(cfg *config.Config) (repository.Store, repository.OutboxStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMySQL:
		db, err := database.InitMySQL(&cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewGormStore(db)
		return store, store.Outbox(), nil
	default:
		store := repository.NewMemoryStore()
		if cfg.Storage.SeedFile != "" {
			data, err := seed.Load(cfg.Storage.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			sum, err := seed.Apply(context.Background(), store, data, time.Now().UTC())
			if err != nil {
				return nil, nil, err
			}
			logrus.WithFields(logrus.Fields{
				"users":    sum.Users,
				"prizes":   sum.Prizes,
				"settings": sum.Settings,
			}).Info("memory store seeded")
		}
		return store, store, nil
	}
}
