package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ticket-sales-api/internal/domain"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling"
	"github.com/vfg2006/ticket-sales-api/pkg/apiErrors"
	"github.com/vfg2006/ticket-sales-api/pkg/log"
)

const (
	receiptField = "receipt"

	// folga para os campos de texto e cabeçalhos do multipart além do comprovante
	formOverheadBytes = 1 << 20
)

var errReceiptTooLarge = errors.New("comprovante acima do limite")

type createSaleResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// saleRequest é o corpo JSON aceito na criação; ticket_quantity pode vir como número ou texto
type saleRequest struct {
	TeamLeader     string       `json:"team_leader"`
	RRPPName       string       `json:"rrpp_name"`
	TicketQuantity flexibleText `json:"ticket_quantity"`
	City           string       `json:"city"`
}

type flexibleText string

func (f *flexibleText) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleText(s)
		return nil
	}

	*f = flexibleText(raw)
	return nil
}

func ListSales(service selling.SalesService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sales, err := service.ListSales(r.Context())
		if err != nil {
			writeSaleError(w, r, err, "Erro ao buscar vendas")
			return
		}

		writeJSON(w, http.StatusOK, sales)
	})
}

func GetSalesStats(service selling.SalesService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.GetStats(r.Context())
		if err != nil {
			writeSaleError(w, r, err, "Erro ao buscar estatísticas")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	})
}

// CreateSale aceita multipart (com comprovante opcional), JSON ou formulário simples
func CreateSale(service selling.SalesService, maxReceiptBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes+formOverheadBytes)

		input, err := parseSaleInput(r, maxReceiptBytes)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) || errors.Is(err, errReceiptTooLarge) {
				apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge,
					fmt.Sprintf("Arquivo muito grande. Tamanho máximo: %dMB", maxReceiptBytes>>20), nil)
				return
			}

			log.ForContext(r.Context()).WithError(err).Warn("Erro ao ler formulário da venda")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro de carga: "+err.Error(), nil)
			return
		}

		sale, err := service.SubmitSale(r.Context(), input)
		if err != nil {
			writeSaleError(w, r, err, "Erro interno no servidor")
			return
		}

		writeJSON(w, http.StatusCreated, createSaleResponse{
			Success: true,
			ID:      sale.ID,
			Message: "Venda registrada com sucesso",
		})
	})
}

func parseSaleInput(r *http.Request, maxReceiptBytes int64) (domain.SaleInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "multipart/form-data":
		return parseMultipartSale(r, maxReceiptBytes)

	case "application/json":
		var req saleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return domain.SaleInput{}, err
		}
		return domain.SaleInput{
			TeamLeader:     req.TeamLeader,
			RRPPName:       req.RRPPName,
			TicketQuantity: string(req.TicketQuantity),
			City:           req.City,
		}, nil

	default:
		if err := r.ParseForm(); err != nil {
			return domain.SaleInput{}, err
		}
		return formSaleInput(r), nil
	}
}

func parseMultipartSale(r *http.Request, maxReceiptBytes int64) (domain.SaleInput, error) {
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		return domain.SaleInput{}, err
	}
	defer r.MultipartForm.RemoveAll()

	input := formSaleInput(r)

	file, header, err := r.FormFile(receiptField)
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return domain.SaleInput{}, err
	}
	defer file.Close()

	if header.Size > maxReceiptBytes {
		return domain.SaleInput{}, errReceiptTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes+1))
	if err != nil {
		return domain.SaleInput{}, err
	}
	if int64(len(data)) > maxReceiptBytes {
		return domain.SaleInput{}, errReceiptTooLarge
	}

	input.Receipt = &domain.ReceiptUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	return input, nil
}

func formSaleInput(r *http.Request) domain.SaleInput {
	return domain.SaleInput{
		TeamLeader:     r.PostFormValue("team_leader"),
		RRPPName:       r.PostFormValue("rrpp_name"),
		TicketQuantity: r.PostFormValue("ticket_quantity"),
		City:           r.PostFormValue("city"),
	}
}

func writeSaleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var saleErr *selling.SaleError
	if errors.As(err, &saleErr) {
		apiErrors.WriteError(w, saleErr.Code, saleErr.Error(), nil)
		return
	}

	logrus.WithError(err).WithField("path", r.URL.Path).Error("Erro inesperado no fluxo de vendas")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}
