package ingesting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type Ingester interface {
	Ingest(ctx context.Context, dataset string, upload domain.Upload) (*domain.IngestResult, error)
	IngestCSV(ctx context.Context, dataset, filename string, payload []byte) (*domain.IngestResult, error)
	History(ctx context.Context, dataset string, limit int) ([]*domain.UploadEntry, error)
}

type Service struct {
	stores     *csvstore.Registry
	uploadRepo repository.UploadRepository
	now        func() time.Time
}

// NewService cria o serviço de ingestão. uploadRepo pode ser nil quando o histórico está desabilitado.
func NewService(stores *csvstore.Registry, uploadRepo repository.UploadRepository) *Service {
	return &Service{
		stores:     stores,
		uploadRepo: uploadRepo,
		now:        time.Now,
	}
}

func (s *Service) Ingest(ctx context.Context, dataset string, upload domain.Upload) (*domain.IngestResult, error) {
	payload, err := DecodeContents(upload.Contents)
	if err != nil {
		return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset,
			fmt.Sprintf("falha ao decodificar o conteúdo: %v", err))
	}

	return s.IngestCSV(ctx, dataset, upload.Filename, payload)
}

func (s *Service) IngestCSV(ctx context.Context, dataset, filename string, payload []byte) (*domain.IngestResult, error) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"dataset":  dataset,
		"filename": filename,
	})

	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, NewIngestError(ErrUnknownDataset, apiErrors.ErrUnknownDataset, dataset, dataset)
	}

	if !utf8.Valid(payload) {
		return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset, "o arquivo não está em UTF-8")
	}

	batch, err := csvstore.ParseCSV(bytes.NewReader(payload))
	if err != nil {
		return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset, err.Error())
	}

	if missing := missingColumns(batch, store.Dataset().RequiredColumns); len(missing) > 0 {
		return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset,
			"colunas obrigatórias ausentes: "+strings.Join(missing, ", "))
	}

	if err := store.CheckSchema(batch); err != nil {
		return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset, err.Error())
	}

	if batch.Len() == 0 {
		logger.Info("Upload sem linhas, nada a acumular")
		return &domain.IngestResult{
			Dataset:   dataset,
			Filename:  filename,
			Rows:      0,
			TotalRows: store.Len(),
			Columns:   batch.Columns,
		}, nil
	}

	merged, err := store.Append(batch)
	if err != nil {
		if errors.Is(err, csvstore.ErrSchemaMismatch) {
			return nil, NewIngestError(ErrMalformedInput, apiErrors.ErrMalformedInput, dataset, err.Error())
		}
		logger.WithError(err).Error("Erro ao acumular upload")
		return nil, NewIngestError(ErrStorageOperation, apiErrors.ErrInternalServer, dataset, "falha ao gravar o arquivo acumulado")
	}

	uploadID, err := utils.GenerateUploadID()
	if err != nil {
		logger.WithError(err).Warn("Erro ao gerar identificador do upload")
	}

	result := &domain.IngestResult{
		UploadID:  uploadID,
		Dataset:   dataset,
		Filename:  filename,
		Rows:      batch.Len(),
		TotalRows: merged.Len(),
		Columns:   merged.Columns,
	}

	s.recordHistory(ctx, logger, result, batch.Columns)

	logger.WithFields(log.Fields{
		"upload_id":  result.UploadID,
		"rows":       result.Rows,
		"total_rows": result.TotalRows,
	}).Info("Upload acumulado")

	return result, nil
}

// recordHistory registra o upload no histórico. Falhas não invalidam a ingestão, os dados já estão gravados.
func (s *Service) recordHistory(ctx context.Context, logger log.Logger, result *domain.IngestResult, columns []string) {
	if s.uploadRepo == nil || result.UploadID == "" {
		return
	}

	entry := &domain.UploadEntry{
		ID:        result.UploadID,
		Dataset:   result.Dataset,
		Filename:  result.Filename,
		RowCount:  result.Rows,
		TotalRows: result.TotalRows,
		Columns:   columns,
		CreatedAt: s.now().UTC(),
	}

	if err := s.uploadRepo.Save(ctx, entry); err != nil {
		logger.WithError(err).Warn("Erro ao registrar upload no histórico")
	}
}

func (s *Service) History(ctx context.Context, dataset string, limit int) ([]*domain.UploadEntry, error) {
	if _, ok := s.stores.Get(dataset); !ok {
		return nil, NewIngestError(ErrUnknownDataset, apiErrors.ErrUnknownDataset, dataset, dataset)
	}

	if s.uploadRepo == nil {
		return nil, NewIngestError(ErrHistoryDisabled, apiErrors.ErrServiceDisabled, dataset, "configure DATABASE_ENABLED")
	}

	entries, err := s.uploadRepo.ListByDataset(ctx, dataset, limit)
	if err != nil {
		logrus.WithError(err).WithField("dataset", dataset).Error("Erro ao listar histórico de uploads")
		return nil, NewIngestError(ErrHistoryOperation, apiErrors.ErrDatabaseOperation, dataset, "falha ao consultar o histórico")
	}

	return entries, nil
}

func missingColumns(table *domain.Table, required []string) []string {
	missing := make([]string, 0)
	for _, c := range required {
		if !table.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
