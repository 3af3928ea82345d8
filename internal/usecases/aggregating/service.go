package aggregating

import (
	"context"

	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"golang.org/x/sync/errgroup"
)

type Aggregator interface {
	Datasets() []domain.DatasetSummary
	Aggregate(ctx context.Context, dataset string, query domain.AggregationQuery) (*domain.AggregationResult, error)
	Series(ctx context.Context, dataset string, query domain.SeriesQuery) (*domain.SeriesResult, error)
	ValueCounts(ctx context.Context, dataset string, query domain.CountQuery) (*domain.AggregationResult, error)
	Panel(ctx context.Context, dataset, panel string, params map[string]string) (*domain.PanelResult, error)
	Overview(ctx context.Context, dataset string) (*domain.Overview, error)
}

type Service struct {
	stores *csvstore.Registry
}

func NewService(stores *csvstore.Registry) *Service {
	return &Service{stores: stores}
}

func (s *Service) Datasets() []domain.DatasetSummary {
	summaries := make([]domain.DatasetSummary, 0)
	for _, store := range s.stores.All() {
		ds := store.Dataset()
		table := store.Snapshot()
		summaries = append(summaries, domain.DatasetSummary{
			Name:            ds.Name,
			Columns:         table.Columns,
			RequiredColumns: ds.RequiredColumns,
			Rows:            table.Len(),
			Panels:          ds.Panels,
		})
	}
	return summaries
}

func (s *Service) Aggregate(ctx context.Context, dataset string, query domain.AggregationQuery) (*domain.AggregationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, newUnknownDataset(dataset)
	}
	ds := store.Dataset()

	if len(query.GroupBy) == 0 {
		return nil, invalidQuery("group_by é obrigatório")
	}
	if query.Metric == "" {
		return nil, invalidQuery("metric é obrigatório")
	}
	if query.Order == "" {
		query.Order = domain.OrderValueDesc
	}
	if !query.Order.Valid() {
		return nil, invalidQuery("ordenação desconhecida: %s", query.Order)
	}

	filter, err := compileFilter(ds, query.Filter)
	if err != nil {
		return nil, err
	}

	result := &domain.AggregationResult{
		Dataset:    dataset,
		Dimensions: query.GroupBy,
		Metric:     query.Metric,
		Rows:       []domain.AggregationRow{},
	}

	table := store.Snapshot()
	rows, status := selectRows(table, filter, append(append([]string{}, query.GroupBy...), query.Metric))
	if status != domain.StatusOK {
		result.Status = status
		return result, nil
	}

	result.Rows = SumBy(ds, table, rows, query.GroupBy, query.Metric, query.Order)
	result.Status = statusOf(len(result.Rows))

	log.ForContext(ctx).WithFields(log.Fields{
		"dataset": dataset,
		"rows":    len(result.Rows),
	}).Debug("Agregação calculada")

	return result, nil
}

func (s *Service) Series(ctx context.Context, dataset string, query domain.SeriesQuery) (*domain.SeriesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, newUnknownDataset(dataset)
	}
	ds := store.Dataset()

	if query.Key == "" || query.SeriesBy == "" || query.Metric == "" {
		return nil, invalidQuery("key, series e metric são obrigatórios")
	}

	filter, err := compileFilter(ds, query.Filter)
	if err != nil {
		return nil, err
	}

	result := &domain.SeriesResult{
		Dataset:  dataset,
		Key:      query.Key,
		SeriesBy: query.SeriesBy,
		Metric:   query.Metric,
		Series:   []domain.Series{},
	}

	table := store.Snapshot()
	rows, status := selectRows(table, filter, []string{query.Key, query.SeriesBy, query.Metric})
	if status != domain.StatusOK {
		result.Status = status
		return result, nil
	}

	result.Series = SumBySeries(ds, table, rows, query.Key, query.SeriesBy, query.Metric, query.SeriesOrder)
	result.Status = statusOf(len(result.Series))

	return result, nil
}

func (s *Service) ValueCounts(ctx context.Context, dataset string, query domain.CountQuery) (*domain.AggregationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, newUnknownDataset(dataset)
	}
	ds := store.Dataset()

	if query.Column == "" {
		return nil, invalidQuery("column é obrigatório")
	}

	filter, err := compileFilter(ds, query.Filter)
	if err != nil {
		return nil, err
	}

	metric := "count"
	if query.Percent {
		metric = "percent"
	}

	result := &domain.AggregationResult{
		Dataset:    dataset,
		Dimensions: []string{query.Column},
		Metric:     metric,
		Rows:       []domain.AggregationRow{},
	}

	table := store.Snapshot()
	rows, status := selectRows(table, filter, []string{query.Column})
	if status != domain.StatusOK {
		result.Status = status
		return result, nil
	}

	result.Rows = ValueCounts(ds, table, rows, query.Column, query.Percent)
	result.Status = statusOf(len(result.Rows))

	return result, nil
}

// Overview calcula todos os painéis do dataset com os parâmetros padrão
func (s *Service) Overview(ctx context.Context, dataset string) (*domain.Overview, error) {
	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, newUnknownDataset(dataset)
	}
	ds := store.Dataset()

	panels := make([]*domain.PanelResult, len(ds.Panels))

	g, gctx := errgroup.WithContext(ctx)
	for i, panel := range ds.Panels {
		g.Go(func() error {
			result, err := s.Panel(gctx, dataset, panel.Name, nil)
			if err != nil {
				return err
			}
			panels[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.ForContext(ctx).WithError(err).WithField("dataset", dataset).Error("Erro ao calcular visão geral")
		return nil, err
	}

	return &domain.Overview{
		Dataset: dataset,
		Rows:    store.Len(),
		Panels:  panels,
	}, nil
}

// selectRows aplica o filtro e decide o status quando não há o que agregar
func selectRows(table *domain.Table, filter *rowFilter, columns []string) ([][]string, domain.ResultStatus) {
	if table.Len() == 0 {
		return nil, domain.StatusEmptyStore
	}

	for _, c := range columns {
		if !table.HasColumn(c) {
			return nil, domain.StatusEmptyResult
		}
	}

	rows := filter.apply(table)
	if len(rows) == 0 {
		return nil, domain.StatusEmptyResult
	}

	return rows, domain.StatusOK
}

func statusOf(n int) domain.ResultStatus {
	if n == 0 {
		return domain.StatusEmptyResult
	}
	return domain.StatusOK
}
