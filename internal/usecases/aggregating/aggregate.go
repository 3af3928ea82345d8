package aggregating

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

type group struct {
	keys  []string
	sum   decimal.Decimal
	count int64
}

// groupRows agrupa as linhas pelas colunas informadas, na ordem da primeira aparição.
// Linhas com alguma chave ausente são descartadas.
func groupRows(ds domain.Dataset, table *domain.Table, rows [][]string, columns []string, metric string) []*group {
	indexes := make([]int, len(columns))
	for i, c := range columns {
		indexes[i] = table.ColumnIndex(c)
	}
	metricIdx := -1
	if metric != "" {
		metricIdx = table.ColumnIndex(metric)
	}

	groups := make([]*group, 0)
	byKey := make(map[string]*group)

	for _, row := range rows {
		keys := make([]string, len(columns))
		complete := true
		for i, idx := range indexes {
			keys[i] = canonicalValue(ds, columns[i], table.Value(row, idx))
			if keys[i] == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		id := joinKeys(keys)
		g, ok := byKey[id]
		if !ok {
			g = &group{keys: keys}
			byKey[id] = g
			groups = append(groups, g)
		}

		g.count++
		if metricIdx >= 0 {
			g.sum = g.sum.Add(metricValue(table.Value(row, metricIdx)))
		}
	}

	return groups
}

// SumBy soma a métrica por uma ou mais colunas de agrupamento. Valores ausentes da métrica
// contam como zero e os totais são arredondados para duas casas.
func SumBy(ds domain.Dataset, table *domain.Table, rows [][]string, groupBy []string, metric string, order domain.Order) []domain.AggregationRow {
	groups := groupRows(ds, table, rows, groupBy, metric)

	switch order {
	case domain.OrderKeyAsc:
		sort.SliceStable(groups, func(i, j int) bool {
			return compareKeys(ds, groupBy, groups[i].keys, groups[j].keys) < 0
		})
	default:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].sum.GreaterThan(groups[j].sum)
		})
	}

	result := make([]domain.AggregationRow, 0, len(groups))
	for _, g := range groups {
		row := domain.AggregationRow{
			Key:   joinKeys(g.keys),
			Value: g.sum.Round(2).InexactFloat64(),
		}
		if len(groupBy) > 1 {
			row.Keys = g.keys
		}
		result = append(result, row)
	}

	return result
}

// SumBySeries agrupa por duas chaves e gera uma série por categoria de seriesBy, com os pontos
// ordenados pela chave. As séries seguem seriesOrder e depois a ordem natural das categorias.
func SumBySeries(ds domain.Dataset, table *domain.Table, rows [][]string, key, seriesBy, metric string, seriesOrder []string) []domain.Series {
	groups := groupRows(ds, table, rows, []string{seriesBy, key}, metric)

	points := make(map[string][]*group)
	names := make([]string, 0)
	for _, g := range groups {
		name := g.keys[0]
		if _, ok := points[name]; !ok {
			names = append(names, name)
		}
		points[name] = append(points[name], g)
	}

	rank := make(map[string]int, len(seriesOrder))
	for i, name := range seriesOrder {
		c := canonicalValue(ds, seriesBy, name)
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}

	isDate := ds.IsDateColumn(seriesBy)
	sort.SliceStable(names, func(i, j int) bool {
		ri, okI := rank[names[i]]
		rj, okJ := rank[names[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI != okJ:
			return okI
		}
		return compareValues(isDate, names[i], names[j]) < 0
	})

	keyIsDate := ds.IsDateColumn(key)
	series := make([]domain.Series, 0, len(names))
	for _, name := range names {
		gs := points[name]
		sort.SliceStable(gs, func(i, j int) bool {
			return compareValues(keyIsDate, gs[i].keys[1], gs[j].keys[1]) < 0
		})

		s := domain.Series{Name: name, Points: make([]domain.SeriesPoint, 0, len(gs))}
		for _, g := range gs {
			s.Points = append(s.Points, domain.SeriesPoint{
				Key:   g.keys[1],
				Value: g.sum.Round(2).InexactFloat64(),
			})
		}
		series = append(series, s)
	}

	return series
}

// ValueCounts conta as ocorrências de cada categoria, da mais frequente para a menos frequente.
// Com percent, cada contagem vira percentual do total, com duas casas.
func ValueCounts(ds domain.Dataset, table *domain.Table, rows [][]string, column string, percent bool) []domain.AggregationRow {
	groups := groupRows(ds, table, rows, []string{column}, "")

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	var total int64
	for _, g := range groups {
		total += g.count
	}

	result := make([]domain.AggregationRow, 0, len(groups))
	for _, g := range groups {
		value := decimal.NewFromInt(g.count)
		if percent && total > 0 {
			value = value.Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
		}
		result = append(result, domain.AggregationRow{
			Key:   g.keys[0],
			Value: value.InexactFloat64(),
		})
	}

	return result
}
