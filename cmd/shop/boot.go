package main

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/config"
	"github.com/shashiranjanraj/shopql/pkg/database"
	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// env is what every command starts from.
type env struct {
	cfg   *config.Config
	db    *gorm.DB
	flush func()
}

func (e *env) close() {
	if e.db != nil {
		if err := database.Close(e.db); err != nil {
			logger.Warn("close database", "error", err)
		}
	}
	e.flush()
}

// boot loads configuration, sets up logging and opens the database.
func boot() (*env, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flush, err := logger.Setup(logger.Options{
		Production:      cfg.IsProduction(),
		MongoURI:        cfg.LogMongoURI,
		MongoDB:         cfg.LogMongoDB,
		MongoCollection: cfg.LogMongoCollection,
	})
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.DatabaseDriver(), cfg.DatabaseDSN())
	if err != nil {
		flush()
		return nil, err
	}

	logger.Info("database connected", "driver", cfg.DatabaseDriver())
	return &env{cfg: cfg, db: db, flush: flush}, nil
}
