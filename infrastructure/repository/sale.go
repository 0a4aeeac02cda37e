// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ticket-sales-api/infrastructure/database/postgres"
	"github.com/vfg2006/ticket-sales-api/internal/domain"
	"github.com/vfg2006/ticket-sales-api/pkg/utils"
)

const (
	salesTable = "sales"
)

var saleColumns = []string{
	"id",
	"team_leader",
	"rrpp_name",
	"ticket_quantity",
	"city",
	"receipt_filename",
	"created_at",
}

type SaleRepository interface {
	Insert(ctx context.Context, sale *domain.NewSale) (*domain.Sale, error)
	ListAll(ctx context.Context) ([]*domain.Sale, error)
	SelectTicketQuantities(ctx context.Context) ([]int, error)
	ListReceiptFilenames(ctx context.Context) ([]string, error)
}

type saleRepository struct {
	conn postgres.Queryer
}

func NewSaleRepository(conn postgres.Queryer) SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *saleRepository) Insert(ctx context.Context, sale *domain.NewSale) (*domain.Sale, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar ID da venda: %w", err)
	}

	query, args, err := insertSaleQuery(id, sale)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir query de inserção: %w", err)
	}

	created, err := scanSale(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("erro ao inserir venda: %w", err)
	}

	return created, nil
}

func (r *saleRepository) ListAll(ctx context.Context) ([]*domain.Sale, error) {
	query, args, err := listSalesQuery()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear venda: %w", err)
		}
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return sales, nil
}

func (r *saleRepository) SelectTicketQuantities(ctx context.Context) ([]int, error) {
	query, args, err := ticketQuantitiesQuery()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	quantities := make([]int, 0)
	for rows.Next() {
		var quantity int
		if err := rows.Scan(&quantity); err != nil {
			return nil, fmt.Errorf("erro ao escanear quantidade: %w", err)
		}
		quantities = append(quantities, quantity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return quantities, nil
}

func (r *saleRepository) ListReceiptFilenames(ctx context.Context) ([]string, error) {
	query, args, err := receiptFilenamesQuery()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	filenames := make([]string, 0)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("erro ao escanear comprovante: %w", err)
		}
		filenames = append(filenames, filename)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return filenames, nil
}

// insertSaleQuery devolve a venda criada na mesma ordem de saleColumns, que é a ordem lida por scanSale
func insertSaleQuery(id string, sale *domain.NewSale) (string, []any, error) {
	return squirrel.
		Insert(salesTable).
		Columns("id", "team_leader", "rrpp_name", "ticket_quantity", "city", "receipt_filename").
		Values(id, sale.TeamLeader, sale.RRPPName, sale.TicketQuantity, sale.City, sale.ReceiptFilename).
		Suffix("RETURNING " + strings.Join(saleColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func listSalesQuery() (string, []any, error) {
	return squirrel.
		Select(saleColumns...).
		From(salesTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func ticketQuantitiesQuery() (string, []any, error) {
	return squirrel.
		Select("ticket_quantity").
		From(salesTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func receiptFilenamesQuery() (string, []any, error) {
	return squirrel.
		Select("receipt_filename").
		From(salesTable).
		Where(squirrel.NotEq{"receipt_filename": nil}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func scanSale(row rowScanner) (*domain.Sale, error) {
	sale := &domain.Sale{}

	err := row.Scan(
		&sale.ID,
		&sale.TeamLeader,
		&sale.RRPPName,
		&sale.TicketQuantity,
		&sale.City,
		&sale.ReceiptFilename,
		&sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return sale, nil
}
