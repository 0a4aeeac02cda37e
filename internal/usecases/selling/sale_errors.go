package selling

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de vendas
var (
	// Erros de validação
	ErrMissingRequiredData = errors.New("todos os campos são obrigatórios")
	ErrInvalidQuantity     = errors.New("quantidade de ingressos inválida")
	ErrPayloadTooLarge     = errors.New("comprovante acima do tamanho máximo")

	// Erros de serviços externos
	ErrUpload = errors.New("erro ao enviar comprovante")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("erro no banco de dados")
)

// SaleError é um erro com contexto adicional para vendas
type SaleError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

func (e *SaleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

// NewSaleError cria um novo SaleError
func NewSaleError(err error, code string, details string) *SaleError {
	return &SaleError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
