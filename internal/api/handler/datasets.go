package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/ingesting"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

const uploadFormField = "file"

func ListDatasets(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.Datasets())
	}
}

// UploadDataset recebe um CSV como JSON {filename, contents} (formato do componente de upload)
// ou como multipart no campo "file", e acumula as linhas no dataset
func UploadDataset(service ingesting.Ingester, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")
		logger := log.ForContext(r.Context()).WithField("dataset", dataset)

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		var (
			result *domain.IngestResult
			err    error
		)

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			result, err = ingestMultipart(r, service, dataset)
		default:
			body, readErr := io.ReadAll(r.Body)
			if readErr != nil {
				if isTooLarge(readErr) {
					writeTooLarge(w, maxBytes)
					return
				}
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao ler a requisição", nil)
				return
			}

			var upload domain.Upload
			if err = json.Unmarshal(body, &upload); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
				return
			}
			result, err = service.Ingest(r.Context(), dataset, upload)
		}

		if err != nil {
			if isTooLarge(err) {
				writeTooLarge(w, maxBytes)
				return
			}
			if ingesting.IsMalformedInput(err) {
				logger.WithError(err).Warn("Upload rejeitado")
			}
			writeServiceError(w, r, err)
			return
		}

		status := http.StatusCreated
		if result.UploadID == "" {
			status = http.StatusOK
		}
		writeJSON(w, status, result)
	}
}

func ingestMultipart(r *http.Request, service ingesting.Ingester, dataset string) (*domain.IngestResult, error) {
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		if isTooLarge(err) {
			return nil, err
		}
		return nil, ingesting.NewIngestError(ingesting.ErrMalformedInput, apiErrors.ErrMalformedInput, dataset, "campo 'file' ausente no formulário")
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return service.IngestCSV(r.Context(), dataset, header.Filename, payload)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func writeTooLarge(w http.ResponseWriter, maxBytes int64) {
	apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Upload acima do limite permitido", map[string]any{
		"max_bytes": maxBytes,
	})
}

func UploadHistory(service ingesting.Ingester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")

		limit, err := parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		entries, err := service.History(r.Context(), dataset, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func Aggregate(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")

		query, err := parseAggregationQuery(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidQuery, err.Error(), nil)
			return
		}

		result, err := service.Aggregate(r.Context(), dataset, query)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func Series(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")

		query, err := parseSeriesQuery(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidQuery, err.Error(), nil)
			return
		}

		result, err := service.Series(r.Context(), dataset, query)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func ValueCounts(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")

		query, err := parseCountQuery(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidQuery, err.Error(), nil)
			return
		}

		result, err := service.ValueCounts(r.Context(), dataset, query)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func Panel(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())

		result, err := service.Panel(r.Context(), params.ByName("dataset"), params.ByName("panel"), panelParams(r.URL.Query()))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func Overview(service aggregating.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := httprouter.ParamsFromContext(r.Context()).ByName("dataset")

		result, err := service.Overview(r.Context(), dataset)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
