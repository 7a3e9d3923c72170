package main

import (
	"context"
	"flag"
	"time"

	"duckwheel/internal/config"
	"duckwheel/internal/infrastructure/database"
	"duckwheel/internal/repository"
	"duckwheel/internal/seed"

	"github.com/sirupsen/logrus"
)

// seed populates an empty MySQL database with demo users, prizes and wheel
// settings. Collections that already hold rows are left untouched.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	seedPath := flag.String("file", "", "seed file (defaults to storage.seed_file)")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if cfg.Storage.Driver != config.StorageMySQL {
		logrus.WithField("driver", cfg.Storage.Driver).Fatal("seeding needs the mysql driver; the memory store seeds itself at startup")
	}

	path := *seedPath
	if path == "" {
		path = cfg.Storage.SeedFile
	}
	data, err := seed.Load(path)
	if err != nil {
		logrus.WithError(err).Fatal("load seed file")
	}

	db, err := database.InitMySQL(&cfg.MySQL)
	if err != nil {
		logrus.WithError(err).Fatal("open mysql")
	}

	sum, err := seed.Apply(context.Background(), repository.NewGormStore(db), data, time.Now().UTC())
	if err != nil {
		logrus.WithError(err).Fatal("seed")
	}
	logrus.WithFields(logrus.Fields{
		"users":    sum.Users,
		"prizes":   sum.Prizes,
		"settings": sum.Settings,
	}).Info("seed complete")
}
