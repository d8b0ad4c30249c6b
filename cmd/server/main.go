package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/kartiklala/prodevans-support/handler"
	"github.com/kartiklala/prodevans-support/pkg/auth"
	"github.com/kartiklala/prodevans-support/pkg/config"
	"github.com/kartiklala/prodevans-support/pkg/credstore"
	"github.com/kartiklala/prodevans-support/pkg/httpserver"
	"github.com/kartiklala/prodevans-support/pkg/logger"
	"github.com/kartiklala/prodevans-support/pkg/mongo"
	"github.com/kartiklala/prodevans-support/pkg/zoho"
)

const serviceName = "zoho-sso-backend"

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithAttr(slog.String("service", serviceName)))
	slog.SetDefault(log)

	var mongoCfg mongo.Config
	var zohoCfg zoho.Config
	var httpCfg httpserver.Config
	var appCfg handler.Config
	config.MustLoad(&mongoCfg)
	config.MustLoad(&zohoCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&appCfg)

	client, err := mongo.Connect(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	store := credstore.New(client.Database(mongoCfg.Database))
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	svc := auth.NewService(store, zoho.NewClient(zohoCfg),
		auth.WithLogger(log),
		auth.WithFallbackEmail(appCfg.DefaultEmail),
	)

	router := handler.New(svc, appCfg, mongo.Healthcheck(client), log)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
