// Package migration cria o schema usado pela API de vendas
package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vfg2006/ticket-sales-api/infrastructure/database/postgres"
)

// statements são idempotentes; podem rodar a cada inicialização
var statements = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		team_leader TEXT NOT NULL,
		rrpp_name TEXT NOT NULL,
		ticket_quantity INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// city e receipt_filename chegaram depois; registros antigos ficam com 'General'
	`ALTER TABLE sales ADD COLUMN IF NOT EXISTS city TEXT NOT NULL DEFAULT 'General'`,
	`ALTER TABLE sales ADD COLUMN IF NOT EXISTS receipt_filename TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at DESC)`,
}

// CreateSchema aplica todas as instruções numa única transação
func CreateSchema(ctx context.Context, conn postgres.Conn) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("erro ao aplicar migração %d: %w", i+1, err)
			}
		}
		return nil
	})
}
