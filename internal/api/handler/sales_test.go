package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ticket-sales-api/internal/domain"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling"
	"github.com/vfg2006/ticket-sales-api/internal/usecases/selling/mocks"
	"github.com/vfg2006/ticket-sales-api/pkg/apiErrors"
	"github.com/vfg2006/ticket-sales-api/pkg/log"
	"go.uber.org/mock/gomock"
)

const testMaxReceipt = 64

type receiptPart struct {
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, receipt *receiptPart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if receipt != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="receipt"; filename="`+receipt.filename+`"`)
		if receipt.contentType != "" {
			header.Set("Content-Type", receipt.contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(receipt.data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sales", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateSale(t *testing.T) {
	log.SetupTestLogger()

	validFields := map[string]string{
		"team_leader":     "Ana",
		"rrpp_name":       "Luis",
		"ticket_quantity": "3",
		"city":            "Madrid",
	}

	t.Run("multipart com comprovante", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		service.EXPECT().
			SubmitSale(gomock.Any(), domain.SaleInput{
				TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: "3", City: "Madrid",
				Receipt: &domain.ReceiptUpload{Filename: "foto.png", ContentType: "image/png", Data: []byte("png")},
			}).
			Return(&domain.Sale{ID: "V1StGXR8_Z5j"}, nil)

		rec := httptest.NewRecorder()
		CreateSale(service, testMaxReceipt).ServeHTTP(rec, multipartRequest(t, validFields,
			&receiptPart{filename: "foto.png", contentType: "image/png", data: []byte("png")}))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"success":true,"id":"V1StGXR8_Z5j","message":"Venda registrada com sucesso"}`, rec.Body.String())
	})

	t.Run("multipart sem comprovante", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		service.EXPECT().
			SubmitSale(gomock.Any(), domain.SaleInput{TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: "3", City: "Madrid"}).
			Return(&domain.Sale{ID: "abc"}, nil)

		rec := httptest.NewRecorder()
		CreateSale(service, testMaxReceipt).ServeHTTP(rec, multipartRequest(t, validFields, nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("comprovante acima do limite responde 413 sem chamar o serviço", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		rec := httptest.NewRecorder()
		CreateSale(service, testMaxReceipt).ServeHTTP(rec, multipartRequest(t, map[string]string{},
			&receiptPart{filename: "grande.pdf", data: bytes.Repeat([]byte("x"), testMaxReceipt+1)}))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, apiErrors.ErrPayloadTooLarge, body["code"])
		assert.NotEmpty(t, body["error"])
	})

	t.Run("corpo acima do limite total responde 413", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		huge := bytes.Repeat([]byte("x"), testMaxReceipt+formOverheadBytes+1)
		rec := httptest.NewRecorder()
		CreateSale(service, testMaxReceipt).ServeHTTP(rec, multipartRequest(t, validFields,
			&receiptPart{filename: "enorme.pdf", data: huge}))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("multipart malformado responde 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader("isso não é multipart"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		rec := httptest.NewRecorder()

		CreateSale(service, testMaxReceipt).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeBody(t, rec)["code"])
	})

	t.Run("JSON com quantidade numérica", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		service.EXPECT().
			SubmitSale(gomock.Any(), domain.SaleInput{TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: "2"}).
			Return(&domain.Sale{ID: "abc"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/sales",
			strings.NewReader(`{"team_leader":"Ana","rrpp_name":"Luis","ticket_quantity":2}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()

		CreateSale(service, testMaxReceipt).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("JSON com quantidade em texto", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		service.EXPECT().
			SubmitSale(gomock.Any(), domain.SaleInput{TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: "5", City: "Lima"}).
			Return(&domain.Sale{ID: "abc"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/sales",
			strings.NewReader(`{"team_leader":"Ana","rrpp_name":"Luis","ticket_quantity":"5","city":"Lima"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		CreateSale(service, testMaxReceipt).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("JSON inválido responde 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(`{"team_leader":["Ana"],"rrpp_name":"Luis","ticket_quantity":1}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		CreateSale(service, testMaxReceipt).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("formulário urlencoded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		service.EXPECT().
			SubmitSale(gomock.Any(), domain.SaleInput{TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: "1"}).
			Return(&domain.Sale{ID: "abc"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/sales?team_leader=ignorado",
			strings.NewReader("team_leader=Ana&rrpp_name=Luis&ticket_quantity=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		CreateSale(service, testMaxReceipt).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	errorCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "campos obrigatórios",
			err:            selling.NewSaleError(selling.ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, ""),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrMissingRequiredData,
		},
		{
			name:           "quantidade inválida",
			err:            selling.NewSaleError(selling.ErrInvalidQuantity, apiErrors.ErrInvalidFormat, "x"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:           "falha no upload",
			err:            selling.NewSaleError(selling.ErrUpload, apiErrors.ErrUploadFailed, "bucket"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrUploadFailed,
		},
		{
			name:           "falha no banco",
			err:            selling.NewSaleError(selling.ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, ""),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrDatabaseOperation,
		},
		{
			name:           "erro desconhecido",
			err:            errors.New("inesperado"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range errorCases {
		t.Run("erro do serviço: "+tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockSalesService(ctrl)
			service.EXPECT().SubmitSale(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			CreateSale(service, testMaxReceipt).ServeHTTP(rec, multipartRequest(t, validFields, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.expectedCode, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestListSales(t *testing.T) {
	log.SetupTestLogger()
	url := "https://cdn.example.com/receipts/1-a.png"
	receipt := "1-a.png"

	t.Run("lista com URL do comprovante", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)

		created := time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)
		service.EXPECT().ListSales(gomock.Any()).Return([]*domain.SaleView{
			{
				Sale: &domain.Sale{
					ID: "2", TeamLeader: "Ana", RRPPName: "Luis", TicketQuantity: 3,
					City: "General", ReceiptFilename: &receipt, CreatedAt: created,
				},
				ReceiptURL: &url,
			},
			{
				Sale: &domain.Sale{ID: "1", TeamLeader: "Ana", RRPPName: "Eva", TicketQuantity: 1, City: "Lima", CreatedAt: created.Add(-time.Hour)},
			},
		}, nil)

		rec := httptest.NewRecorder()
		ListSales(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[
			{"id":"2","team_leader":"Ana","rrpp_name":"Luis","ticket_quantity":3,"city":"General",
			 "receipt_filename":"1-a.png","created_at":"2025-03-10T22:15:00Z","receipt_url":"https://cdn.example.com/receipts/1-a.png"},
			{"id":"1","team_leader":"Ana","rrpp_name":"Eva","ticket_quantity":1,"city":"Lima",
			 "receipt_filename":null,"created_at":"2025-03-10T21:15:00Z","receipt_url":null}
		]`, rec.Body.String())
	})

	t.Run("lista vazia é um array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)
		service.EXPECT().ListSales(gomock.Any()).Return([]*domain.SaleView{}, nil)

		rec := httptest.NewRecorder()
		ListSales(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("falha no banco", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockSalesService(ctrl)
		service.EXPECT().ListSales(gomock.Any()).
			Return(nil, selling.NewSaleError(selling.ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar vendas"))

		rec := httptest.NewRecorder()
		ListSales(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decodeBody(t, rec), "error")
	})
}

func TestGetSalesStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockSalesService(ctrl)

	service.EXPECT().GetStats(gomock.Any()).Return(&domain.SaleStats{TotalSales: 3, TotalTickets: 10}, nil)

	rec := httptest.NewRecorder()
	GetSalesStats(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalSales":3,"totalTickets":10}`, rec.Body.String())

	service.EXPECT().GetStats(gomock.Any()).Return(nil, context.DeadlineExceeded)

	rec = httptest.NewRecorder()
	GetSalesStats(service).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthcheckHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OK", body["status"])

	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}
