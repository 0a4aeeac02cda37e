package selling

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/infrastructure/objectstore"
	"github.com/vfg2006/ticket-sales-api/infrastructure/repository"
	"github.com/vfg2006/ticket-sales-api/internal/config"
	"github.com/vfg2006/ticket-sales-api/internal/domain"
	"github.com/vfg2006/ticket-sales-api/pkg/apiErrors"
	"github.com/vfg2006/ticket-sales-api/pkg/log"
	"github.com/vfg2006/ticket-sales-api/pkg/utils"
)

const (
	defaultReceiptName        = "comprovante"
	defaultReceiptContentType = "application/octet-stream"
)

type SalesService interface {
	SubmitSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.SaleView, error)
	GetStats(ctx context.Context) (*domain.SaleStats, error)
}

// Observer recebe os eventos de negócio das vendas
type Observer interface {
	RecordSaleCreated(withReceipt bool)
}

type Service struct {
	saleRepository  repository.SaleRepository
	receipts        objectstore.ReceiptStore
	maxReceiptBytes int64
	observer        Observer
	now             func() time.Time
}

func NewService(
	saleRepository repository.SaleRepository,
	receipts objectstore.ReceiptStore,
	cfg *config.Config,
	observer Observer,
) SalesService {
	maxReceiptBytes := int64(config.DefaultMaxReceiptBytes)
	if cfg != nil && cfg.Upload.MaxReceiptBytes > 0 {
		maxReceiptBytes = cfg.Upload.MaxReceiptBytes
	}

	if observer == nil {
		observer = noopObserver{}
	}

	return &Service{
		saleRepository:  saleRepository,
		receipts:        receipts,
		maxReceiptBytes: maxReceiptBytes,
		observer:        observer,
		now:             time.Now,
	}
}

// ValidateSaleInput converte o formulário bruto em uma venda pronta para inserção.
// O comprovante acima do limite é verificado antes dos campos.
func ValidateSaleInput(input domain.SaleInput, maxReceiptBytes int64) (*domain.NewSale, error) {
	if input.Receipt.Size() > maxReceiptBytes {
		return nil, NewSaleError(ErrPayloadTooLarge, apiErrors.ErrPayloadTooLarge,
			fmt.Sprintf("limite de %d bytes", maxReceiptBytes))
	}

	teamLeader := strings.TrimSpace(input.TeamLeader)
	rrppName := strings.TrimSpace(input.RRPPName)
	rawQuantity := strings.TrimSpace(input.TicketQuantity)

	if teamLeader == "" || rrppName == "" || rawQuantity == "" {
		return nil, NewSaleError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "")
	}

	// a coluna ticket_quantity é INTEGER (32 bits)
	parsed, err := strconv.ParseInt(rawQuantity, 10, 32)
	if err != nil {
		return nil, NewSaleError(ErrInvalidQuantity, apiErrors.ErrInvalidFormat, "ticket_quantity deve ser um número inteiro de até 32 bits")
	}
	quantity := int(parsed)
	if quantity <= 0 {
		return nil, NewSaleError(ErrInvalidQuantity, apiErrors.ErrInvalidFormat, "ticket_quantity deve ser maior que zero")
	}

	return &domain.NewSale{
		TeamLeader:     teamLeader,
		RRPPName:       rrppName,
		TicketQuantity: quantity,
		City:           resolveCity(input.City),
	}, nil
}

func resolveCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.DefaultCity
	}
	return city
}

// ReceiptKey monta a chave do comprovante no storage: <epoch em ms>-<nome sanitizado>
func ReceiptKey(uploadedAt time.Time, originalName string) string {
	name := originalName
	if strings.TrimSpace(name) == "" {
		name = defaultReceiptName
	}
	return fmt.Sprintf("%d-%s", uploadedAt.UnixMilli(), utils.SanitizeFilename(name))
}

func (s *Service) SubmitSale(ctx context.Context, input domain.SaleInput) (*domain.Sale, error) {
	logger := log.ForContext(ctx)

	newSale, err := ValidateSaleInput(input, s.maxReceiptBytes)
	if err != nil {
		return nil, err
	}

	var receiptKey string
	if input.Receipt != nil {
		receiptKey = ReceiptKey(s.now(), input.Receipt.Filename)

		contentType := input.Receipt.ContentType
		if contentType == "" {
			contentType = defaultReceiptContentType
		}

		if err := s.receipts.Upload(ctx, receiptKey, input.Receipt.Data, contentType); err != nil {
			logger.WithError(err).WithField("receipt_key", receiptKey).Error("Erro ao enviar comprovante")
			return nil, NewSaleError(ErrUpload, apiErrors.ErrUploadFailed, err.Error())
		}

		newSale.ReceiptFilename = &receiptKey
	}

	sale, err := s.saleRepository.Insert(ctx, newSale)
	if err != nil {
		logger.WithError(err).Error("Erro ao inserir venda")

		if receiptKey != "" {
			s.discardReceipt(ctx, receiptKey)
		}

		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao registrar a venda")
	}

	s.observer.RecordSaleCreated(receiptKey != "")

	logrus.WithFields(logrus.Fields{
		"sale_id":         sale.ID,
		"ticket_quantity": sale.TicketQuantity,
		"city":            sale.City,
	}).Info("Venda registrada")

	return sale, nil
}

// discardReceipt remove o comprovante de uma venda que não foi gravada.
// A falha só é registrada; a varredura de órfãos cobre o que sobrar.
func (s *Service) discardReceipt(ctx context.Context, key string) {
	if err := s.receipts.Delete(ctx, key); err != nil {
		log.ForContext(ctx).WithError(err).WithField("receipt_key", key).Warn("Não foi possível remover comprovante órfão")
	}
}

func (s *Service) ListSales(ctx context.Context) ([]*domain.SaleView, error) {
	sales, err := s.saleRepository.ListAll(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar vendas")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar vendas")
	}

	views := make([]*domain.SaleView, 0, len(sales))
	for _, sale := range sales {
		view := &domain.SaleView{Sale: sale}
		if sale.ReceiptFilename != nil {
			view.ReceiptURL = s.receipts.ResolvePublicURL(*sale.ReceiptFilename)
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *Service) GetStats(ctx context.Context) (*domain.SaleStats, error) {
	quantities, err := s.saleRepository.SelectTicketQuantities(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao calcular estatísticas")
		return nil, NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao calcular estatísticas")
	}

	stats := &domain.SaleStats{TotalSales: len(quantities)}
	for _, quantity := range quantities {
		stats.TotalTickets += quantity
	}

	return stats, nil
}

type noopObserver struct{}

func (noopObserver) RecordSaleCreated(bool) {}
