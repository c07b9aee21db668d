package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
)

func main() {
	configPath := flag.String("config", "/run/config.json", "config file path (json or yaml)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel())
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.Postgres == nil {
		log.Error("nothing to migrate: no postgres section or DATABASE_URL")
		os.Exit(1)
	}

	version, dirty, err := database.Migrate(cfg.Postgres.DbURL(), database.Migrations, log)
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
