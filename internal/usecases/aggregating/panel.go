package aggregating

import (
	"context"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Panel calcula um painel pré-configurado. Parâmetros omitidos usam o valor padrão do painel.
func (s *Service) Panel(ctx context.Context, dataset, panelName string, params map[string]string) (*domain.PanelResult, error) {
	store, ok := s.stores.Get(dataset)
	if !ok {
		return nil, newUnknownDataset(dataset)
	}

	panel, ok := store.Dataset().Panel(panelName)
	if !ok {
		return nil, newUnknownPanel(dataset, panelName)
	}

	resolved, err := resolvePanel(panel, params)
	if err != nil {
		return nil, err
	}

	result := &domain.PanelResult{
		Panel:  panel.Name,
		Title:  panel.Title,
		Kind:   panel.Kind,
		Params: resolved.values,
	}

	switch panel.Kind {
	case domain.PanelSeries:
		result.Series, err = s.Series(ctx, dataset, domain.SeriesQuery{
			Filter:      resolved.filter,
			Key:         panel.GroupBy[0],
			SeriesBy:    panel.SeriesBy,
			Metric:      resolved.metric,
			SeriesOrder: resolved.filter.In[panel.SeriesBy],
		})
	case domain.PanelCount:
		result.Aggregation, err = s.ValueCounts(ctx, dataset, domain.CountQuery{
			Filter:  resolved.filter,
			Column:  panel.GroupBy[0],
			Percent: panel.Percent,
		})
	default:
		result.Aggregation, err = s.Aggregate(ctx, dataset, domain.AggregationQuery{
			Filter:  resolved.filter,
			GroupBy: panel.GroupBy,
			Metric:  resolved.metric,
			Order:   panel.Order,
		})
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

type resolvedPanel struct {
	filter domain.FilterSpec
	metric string
	values map[string]string
}

// resolvePanel converte os parâmetros do painel em FilterSpec e métrica
func resolvePanel(panel domain.Panel, params map[string]string) (*resolvedPanel, error) {
	known := make(map[string]bool, len(panel.Params))
	for _, p := range panel.Params {
		known[p.Name] = true
	}
	for name := range params {
		if !known[name] {
			return nil, invalidQuery("parâmetro desconhecido para %s: %s", panel.Name, name)
		}
	}

	r := &resolvedPanel{
		filter: domain.FilterSpec{
			Equals: map[string]string{},
			In:     map[string][]string{},
		},
		metric: panel.Metric,
		values: make(map[string]string, len(panel.Params)),
	}
	ranges := make(map[string]*domain.RangeFilter)
	rangeOrder := make([]string, 0)

	for _, p := range panel.Params {
		value := strings.TrimSpace(params[p.Name])
		if value == "" {
			value = p.Default
		}
		r.values[p.Name] = value
		if value == "" {
			continue
		}

		switch p.Kind {
		case domain.ParamEquals:
			r.filter.Equals[p.Column] = value
		case domain.ParamIn:
			r.filter.In[p.Column] = splitList(value)
		case domain.ParamRangeMin, domain.ParamRangeMax:
			rf, ok := ranges[p.Column]
			if !ok {
				rf = &domain.RangeFilter{Column: p.Column}
				ranges[p.Column] = rf
				rangeOrder = append(rangeOrder, p.Column)
			}
			if p.Kind == domain.ParamRangeMin {
				rf.Min = value
			} else {
				rf.Max = value
			}
		case domain.ParamMetric:
			if !contains(p.Allowed, value) {
				return nil, invalidQuery("métrica não permitida para %s: %s", panel.Name, value)
			}
			r.metric = value
		}
	}

	for _, column := range rangeOrder {
		r.filter.Ranges = append(r.filter.Ranges, *ranges[column])
	}

	return r, nil
}

func splitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '|' })
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
