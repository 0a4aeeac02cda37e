package domain

import "time"

// DefaultCity é usada quando a venda chega sem cidade (registros anteriores ao campo)
const DefaultCity = "General"

// Sale representa uma venda de ingressos registrada
type Sale struct {
	ID              string    `json:"id"`
	TeamLeader      string    `json:"team_leader"`
	RRPPName        string    `json:"rrpp_name"`
	TicketQuantity  int       `json:"ticket_quantity"`
	City            string    `json:"city"`
	ReceiptFilename *string   `json:"receipt_filename"`
	CreatedAt       time.Time `json:"created_at"`
}

// SaleView é a venda devolvida na listagem, com a URL pública do comprovante
type SaleView struct {
	*Sale
	ReceiptURL *string `json:"receipt_url"`
}

// NewSale contém os campos já validados para inserção
type NewSale struct {
	TeamLeader      string
	RRPPName        string
	TicketQuantity  int
	City            string
	ReceiptFilename *string
}

// SaleInput é o formulário bruto recebido na criação de uma venda
type SaleInput struct {
	TeamLeader     string
	RRPPName       string
	TicketQuantity string
	City           string
	Receipt        *ReceiptUpload
}

// ReceiptUpload é o comprovante anexado à venda
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size retorna o tamanho do comprovante em bytes
func (r *ReceiptUpload) Size() int64 {
	if r == nil {
		return 0
	}
	return int64(len(r.Data))
}

type SaleStats struct {
	TotalSales   int `json:"totalSales"`
	TotalTickets int `json:"totalTickets"`
}
