package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeServiceError traduz os erros dos casos de uso para o código de API correspondente
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		queryErr  *aggregating.QueryError
		ingestErr *ingesting.IngestError
	)

	switch {
	case errors.As(err, &queryErr):
		apiErrors.WriteError(w, queryErr.Code, queryErr.Err.Error(), queryErr.Details)
	case errors.As(err, &ingestErr):
		if apiErrors.StatusFor(ingestErr.Code) >= http.StatusInternalServerError {
			log.ForContext(r.Context()).WithError(err).WithField("dataset", ingestErr.Dataset).Error("Erro ao processar upload")
		}
		apiErrors.WriteError(w, ingestErr.Code, ingestErr.Err.Error(), ingestErr.Details)
	default:
		log.ForContext(r.Context()).WithError(err).Error("Erro não mapeado")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
	}
}
