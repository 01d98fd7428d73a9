// Command ensure_indexes provisions the composite indexes the hinted
// query paths depend on. Until it has run, those paths fail with
// ErrIndexNotReady and the application takes its fallbacks.
package main

import (
	"context"
	"log"

	"quizdeck/internal/config"
	"quizdeck/internal/logger"
	"quizdeck/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx := context.Background()
	mongoStore, err := store.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
	if err != nil {
		l.Fatal("Failed to connect to the document store", zap.Error(err))
	}
	defer mongoStore.Close(ctx)

	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		l.Fatal("Failed to provision indexes", zap.Error(err))
	}
	l.Info("All composite indexes provisioned", zap.Int("count", len(store.AllIndexes)))
}
