package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/infrastructure/database/postgres"
	"github.com/vfg2006/ticket-sales-api/infrastructure/migration"
	"github.com/vfg2006/ticket-sales-api/infrastructure/objectstore"
	"github.com/vfg2006/ticket-sales-api/infrastructure/objectstore/storageclient"
	"github.com/vfg2006/ticket-sales-api/infrastructure/repository"
	"github.com/vfg2006/ticket-sales-api/internal/api"
	"github.com/vfg2006/ticket-sales-api/internal/config"
	"github.com/vfg2006/ticket-sales-api/internal/scheduler"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling"
	"github.com/vfg2006/ticket-sales-api/pkg/log"
	"github.com/vfg2006/ticket-sales-api/pkg/metrics"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)

	logrus.WithFields(logrus.Fields{
		"credential_tier": cfg.Supabase.KeyTier,
		"key_role":        cfg.Supabase.KeyRole,
		"bucket":          cfg.Supabase.ReceiptsBucket,
	}).Info("Credencial do storage selecionada")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.CreateSchema(ctx, pgConn); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
		logrus.Info("Schema do banco verificado")
	}

	saleRepo := repository.NewSaleRepository(pgConn)

	appMetrics, err := metrics.New()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao registrar métricas")
	}

	storageClient := storageclient.NewClient(cfg)
	receiptStore := objectstore.NewReceiptStore(storageClient, cfg.Supabase.ReceiptsBucket, appMetrics)

	salesService := selling.NewService(saleRepo, receiptStore, cfg, appMetrics)

	receiptSweepService := scheduler.NewReceiptSweepService(saleRepo, receiptStore, cfg)
	if err := receiptSweepService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar a varredura de comprovantes órfãos")
	}

	server, err := api.New(cfg, salesService, receiptSweepService, appMetrics)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
