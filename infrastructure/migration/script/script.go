package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/infrastructure/database/postgres"
	"github.com/vfg2006/ticket-sales-api/infrastructure/migration"
	"github.com/vfg2006/ticket-sales-api/internal/config"
	"github.com/vfg2006/ticket-sales-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)
	logrus.Info("Iniciando script de migração...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	startTime := time.Now()
	if err := migration.CreateSchema(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar schema")
	}

	logrus.Infof("Migração concluída em %s", time.Since(startTime))
}
