package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// parseFilter lê eq=Coluna:valor, in=Coluna:a|b|c e range=Coluna:min..max
func parseFilter(q url.Values) (domain.FilterSpec, error) {
	spec := domain.FilterSpec{}

	for _, raw := range q["eq"] {
		column, value, ok := strings.Cut(raw, ":")
		if !ok || strings.TrimSpace(column) == "" {
			return spec, fmt.Errorf("eq deve ter o formato Coluna:valor, recebido %q", raw)
		}
		if spec.Equals == nil {
			spec.Equals = map[string]string{}
		}
		spec.Equals[strings.TrimSpace(column)] = value
	}

	for _, raw := range q["in"] {
		column, values, ok := strings.Cut(raw, ":")
		if !ok || strings.TrimSpace(column) == "" {
			return spec, fmt.Errorf("in deve ter o formato Coluna:a|b, recebido %q", raw)
		}
		if spec.In == nil {
			spec.In = map[string][]string{}
		}
		column = strings.TrimSpace(column)
		for _, v := range strings.Split(values, "|") {
			if v = strings.TrimSpace(v); v != "" {
				spec.In[column] = append(spec.In[column], v)
			}
		}
		if len(spec.In[column]) == 0 {
			spec.In[column] = []string{}
		}
	}

	for _, raw := range q["range"] {
		r, err := parseRange(raw)
		if err != nil {
			return spec, err
		}
		spec.Ranges = append(spec.Ranges, r)
	}

	return spec, nil
}

// rangeSeparator separa os limites sem conflitar com os ":" de horários
const rangeSeparator = ".."

// parseRange aceita Coluna:min..max. A forma Coluna:min:max continua aceita quando os
// limites não têm ":".
func parseRange(raw string) (domain.RangeFilter, error) {
	column, bounds, ok := strings.Cut(raw, ":")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return domain.RangeFilter{}, fmt.Errorf("range deve ter o formato Coluna:min..max, recebido %q", raw)
	}

	var lo, hi string
	if strings.Contains(bounds, rangeSeparator) {
		lo, hi, _ = strings.Cut(bounds, rangeSeparator)
	} else {
		parts := strings.Split(bounds, ":")
		if len(parts) != 2 {
			return domain.RangeFilter{}, fmt.Errorf("range deve ter o formato Coluna:min..max, recebido %q", raw)
		}
		lo, hi = parts[0], parts[1]
	}

	return domain.RangeFilter{
		Column: column,
		Min:    strings.TrimSpace(lo),
		Max:    strings.TrimSpace(hi),
	}, nil
}

func splitColumns(raw string) []string {
	columns := make([]string, 0)
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			columns = append(columns, c)
		}
	}
	return columns
}

func parseAggregationQuery(q url.Values) (domain.AggregationQuery, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return domain.AggregationQuery{}, err
	}

	return domain.AggregationQuery{
		Filter:  filter,
		GroupBy: splitColumns(q.Get("group_by")),
		Metric:  strings.TrimSpace(q.Get("metric")),
		Order:   domain.Order(strings.TrimSpace(q.Get("order"))),
	}, nil
}

func parseSeriesQuery(q url.Values) (domain.SeriesQuery, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return domain.SeriesQuery{}, err
	}

	query := domain.SeriesQuery{
		Filter:   filter,
		Key:      strings.TrimSpace(q.Get("key")),
		SeriesBy: strings.TrimSpace(q.Get("series")),
		Metric:   strings.TrimSpace(q.Get("metric")),
	}
	query.SeriesOrder = filter.In[query.SeriesBy]

	return query, nil
}

func parseCountQuery(q url.Values) (domain.CountQuery, error) {
	filter, err := parseFilter(q)
	if err != nil {
		return domain.CountQuery{}, err
	}

	percent := false
	if raw := q.Get("percent"); raw != "" {
		percent, err = strconv.ParseBool(raw)
		if err != nil {
			return domain.CountQuery{}, fmt.Errorf("percent deve ser booleano, recebido %q", raw)
		}
	}

	return domain.CountQuery{
		Filter:  filter,
		Column:  strings.TrimSpace(q.Get("column")),
		Percent: percent,
	}, nil
}

// panelParams repassa a query string ao painel, que rejeita nomes desconhecidos.
// Valores repetidos usam o último.
func panelParams(q url.Values) map[string]string {
	params := make(map[string]string, len(q))
	for name, values := range q {
		if len(values) == 0 {
			continue
		}
		params[name] = values[len(values)-1]
	}
	return params
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit deve ser um inteiro não negativo, recebido %q", raw)
	}
	return limit, nil
}
