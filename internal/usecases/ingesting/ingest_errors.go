package ingesting

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput   = errors.New("upload inválido")
	ErrUnknownDataset   = errors.New("dataset não encontrado")
	ErrHistoryDisabled  = errors.New("histórico de uploads desabilitado")
	ErrStorageOperation = errors.New("erro ao persistir dados acumulados")
	ErrHistoryOperation = errors.New("erro ao consultar histórico de uploads")
)

// IngestError é um erro de ingestão com o código de API e o contexto do upload
type IngestError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Dataset string // Dataset de destino
	Details string // Detalhes adicionais
}

func (e *IngestError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

func NewIngestError(err error, code string, dataset string, details string) *IngestError {
	return &IngestError{
		Err:     err,
		Code:    code,
		Dataset: dataset,
		Details: details,
	}
}

// IsMalformedInput informa se o erro foi causado pelo conteúdo enviado
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
