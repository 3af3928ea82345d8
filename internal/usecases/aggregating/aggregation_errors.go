package aggregating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

var (
	ErrUnknownDataset = errors.New("dataset não encontrado")
	ErrUnknownPanel   = errors.New("painel não encontrado")
	ErrInvalidQuery   = errors.New("consulta inválida")
)

// QueryError é um erro de consulta com o código de API correspondente
type QueryError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Dataset string
	Details string
}

func (e *QueryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newUnknownDataset(dataset string) *QueryError {
	return &QueryError{Err: ErrUnknownDataset, Code: apiErrors.ErrUnknownDataset, Dataset: dataset, Details: dataset}
}

func newUnknownPanel(dataset, panel string) *QueryError {
	return &QueryError{Err: ErrUnknownPanel, Code: apiErrors.ErrUnknownDataset, Dataset: dataset, Details: panel}
}

func invalidQuery(format string, args ...any) *QueryError {
	return &QueryError{Err: ErrInvalidQuery, Code: apiErrors.ErrInvalidQuery, Details: fmt.Sprintf(format, args...)}
}
