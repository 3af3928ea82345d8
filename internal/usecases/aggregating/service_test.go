package aggregating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/storage/csvstore"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// newService cria um serviço com os dois datasets do catálogo e acumula os documentos informados
func newService(t *testing.T, docs map[string]string) *Service {
	t.Helper()

	catalog := domain.Catalog()
	registry, err := csvstore.OpenRegistry(t.TempDir(), []domain.Dataset{
		catalog[domain.DatasetSupermarket],
		catalog[domain.DatasetVideogames],
	}, domain.SchemaPolicyUnion)
	require.NoError(t, err)

	for dataset, doc := range docs {
		store, ok := registry.Get(dataset)
		require.True(t, ok)

		batch, err := csvstore.ParseCSV(strings.NewReader(doc))
		require.NoError(t, err)
		_, err = store.Append(batch)
		require.NoError(t, err)
	}

	return NewService(registry)
}

const videogamesCSV = `Year,Platform,Genre,Global_Sales,NA_Sales
2005,PS2,Sports,4.5,2.0
2005,PS2,Action,1.25,0.5
2005,X360,Shooter,6.0,3.0
2005,Wii,Action,2.25,1.0
2007,X360,Shooter,3.0,1.5
2006.0,PS3,Shooter,1.0,0.25
NaN,PS3,Racing,9.0,9.0
`

func TestAggregate_YearScenario(t *testing.T) {
	service := newService(t, map[string]string{
		domain.DatasetVideogames: "Year,Global_Sales\n2001,5.0\n2001,3.0\n2002,2.0\n",
	})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
		Order:   domain.OrderKeyAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOK, result.Status)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "2001", Value: 8.0},
		{Key: "2002", Value: 2.0},
	}, result.Rows)
}

func TestAggregate_EmptyStore(t *testing.T) {
	service := newService(t, nil)

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusEmptyStore, result.Status)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestAggregate_MissingMetricCountsAsZero(t *testing.T) {
	service := newService(t, map[string]string{
		domain.DatasetVideogames: "Year,Global_Sales\n2001,NaN\n2001,1.5\n2002,\n2003,null\n",
	})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
		Order:   domain.OrderKeyAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.AggregationRow{
		{Key: "2001", Value: 1.5},
		{Key: "2002", Value: 0},
		{Key: "2003", Value: 0},
	}, result.Rows)
}

func TestAggregate_ValueDescAndCanonicalKeys(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
		Order:   domain.OrderValueDesc,
	})
	require.NoError(t, err)

	// A linha com Year NaN é descartada e 2006.0 vira 2006
	assert.Equal(t, []domain.AggregationRow{
		{Key: "2005", Value: 14.0},
		{Key: "2007", Value: 3.0},
		{Key: "2006", Value: 1.0},
	}, result.Rows)
}

func TestAggregate_LongIntegerKeysStayDistinct(t *testing.T) {
	service := newService(t, map[string]string{
		domain.DatasetVideogames: "Year,Genre,Global_Sales\n" +
			"2001,12345678901234567890,1\n" +
			"2001,12345678901234567891,2\n" +
			"2001,12345678901234567890.0,0.5\n",
	})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Genre"},
		Metric:  "Global_Sales",
		Order:   domain.OrderValueDesc,
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.AggregationRow{
		{Key: "12345678901234567891", Value: 2},
		{Key: "12345678901234567890", Value: 1.5},
	}, result.Rows)
}

func TestAggregate_MultipleDimensions(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		Filter:  domain.FilterSpec{Equals: map[string]string{"Year": "2005"}},
		GroupBy: []string{"Platform", "Genre"},
		Metric:  "Global_Sales",
		Order:   domain.OrderKeyAsc,
	})
	require.NoError(t, err)

	require.Len(t, result.Rows, 4)
	assert.Equal(t, "PS2 | Action", result.Rows[0].Key)
	assert.Equal(t, []string{"PS2", "Action"}, result.Rows[0].Keys)
	assert.Equal(t, "X360 | Shooter", result.Rows[3].Key)
}

func TestAggregate_MatchesDirectSum(t *testing.T) {
	var doc strings.Builder
	doc.WriteString("Year,Global_Sales\n")

	expected := map[string]float64{}
	for i := 0; i < 200; i++ {
		year := 2000 + i%7
		value := float64(i%13) * 0.37
		fmt.Fprintf(&doc, "%d,%.2f\n", year, value)
		expected[fmt.Sprint(year)] += math.Round(value*100) / 100
	}

	service := newService(t, map[string]string{domain.DatasetVideogames: doc.String()})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
		Order:   domain.OrderKeyAsc,
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 7)

	for _, row := range result.Rows {
		assert.InDelta(t, expected[row.Key], row.Value, 0.005, row.Key)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	query := domain.AggregationQuery{
		GroupBy: []string{"Genre"},
		Metric:  "Global_Sales",
		Order:   domain.OrderValueDesc,
	}

	first, err := service.Aggregate(context.Background(), domain.DatasetVideogames, query)
	require.NoError(t, err)
	second, err := service.Aggregate(context.Background(), domain.DatasetVideogames, query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_TiesKeepFirstAppearance(t *testing.T) {
	service := newService(t, map[string]string{
		domain.DatasetVideogames: "Year,Genre,Global_Sales\n2005,Racing,1\n2005,Action,1\n2005,Puzzle,2\n",
	})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Genre"},
		Metric:  "Global_Sales",
	})
	require.NoError(t, err)

	keys := make([]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"Puzzle", "Racing", "Action"}, keys)
}

func TestAggregate_Errors(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	tests := []struct {
		name    string
		dataset string
		query   domain.AggregationQuery
		target  error
	}{
		{
			name:    "dataset desconhecido",
			dataset: "weather",
			query:   domain.AggregationQuery{GroupBy: []string{"Year"}, Metric: "Global_Sales"},
			target:  ErrUnknownDataset,
		},
		{
			name:    "sem agrupamento",
			dataset: domain.DatasetVideogames,
			query:   domain.AggregationQuery{Metric: "Global_Sales"},
			target:  ErrInvalidQuery,
		},
		{
			name:    "ordenação inválida",
			dataset: domain.DatasetVideogames,
			query:   domain.AggregationQuery{GroupBy: []string{"Year"}, Metric: "Global_Sales", Order: "random"},
			target:  ErrInvalidQuery,
		},
		{
			name:    "limite não numérico",
			dataset: domain.DatasetVideogames,
			query: domain.AggregationQuery{
				GroupBy: []string{"Year"},
				Metric:  "Global_Sales",
				Filter:  domain.FilterSpec{Ranges: []domain.RangeFilter{{Column: "Year", Min: "dois mil"}}},
			},
			target: ErrInvalidQuery,
		},
		{
			name:    "intervalo invertido",
			dataset: domain.DatasetVideogames,
			query: domain.AggregationQuery{
				GroupBy: []string{"Year"},
				Metric:  "Global_Sales",
				Filter:  domain.FilterSpec{Ranges: []domain.RangeFilter{{Column: "Year", Min: "2010", Max: "2000"}}},
			},
			target: ErrInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Aggregate(context.Background(), tt.dataset, tt.query)
			assert.True(t, errors.Is(err, tt.target), "erro: %v", err)
		})
	}
}

func TestAggregate_MissingColumnIsEmptyResult(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		GroupBy: []string{"Publisher"},
		Metric:  "Global_Sales",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmptyResult, result.Status)

	result, err = service.Aggregate(context.Background(), domain.DatasetVideogames, domain.AggregationQuery{
		Filter:  domain.FilterSpec{Equals: map[string]string{"Publisher": "Nintendo"}},
		GroupBy: []string{"Year"},
		Metric:  "Global_Sales",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmptyResult, result.Status)
}

func TestPanel_GenreSales(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Panel(context.Background(), domain.DatasetVideogames, "genre-sales", map[string]string{"year": "2005"})
	require.NoError(t, err)

	require.NotNil(t, result.Aggregation)
	assert.Equal(t, domain.StatusOK, result.Aggregation.Status)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "Shooter", Value: 6.0},
		{Key: "Sports", Value: 4.5},
		{Key: "Action", Value: 3.5},
	}, result.Aggregation.Rows)
	assert.Equal(t, "Global_Sales", result.Params["sales"])

	result, err = service.Panel(context.Background(), domain.DatasetVideogames, "genre-sales", map[string]string{"year": "2008"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmptyResult, result.Aggregation.Status)
	assert.Empty(t, result.Aggregation.Rows)
}

func TestPanel_GenreSalesMetricParam(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Panel(context.Background(), domain.DatasetVideogames, "genre-sales", map[string]string{
		"year":  "2005",
		"sales": "NA_Sales",
	})
	require.NoError(t, err)
	assert.Equal(t, "NA_Sales", result.Aggregation.Metric)
	assert.Equal(t, domain.AggregationRow{Key: "Shooter", Value: 3.0}, result.Aggregation.Rows[0])

	_, err = service.Panel(context.Background(), domain.DatasetVideogames, "genre-sales", map[string]string{"sales": "Year"})
	assert.True(t, errors.Is(err, ErrInvalidQuery))

	_, err = service.Panel(context.Background(), domain.DatasetVideogames, "genre-sales", map[string]string{"platform": "PS2"})
	assert.True(t, errors.Is(err, ErrInvalidQuery))

	_, err = service.Panel(context.Background(), domain.DatasetVideogames, "sales-map", nil)
	assert.True(t, errors.Is(err, ErrUnknownPanel))
}

func TestPanel_GenreTrendsSeries(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.Panel(context.Background(), domain.DatasetVideogames, "genre-trends", map[string]string{
		"genres":    "Shooter,Action",
		"year_from": "2005",
		"year_to":   "2007",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Series)

	assert.Equal(t, domain.StatusOK, result.Series.Status)
	assert.Equal(t, []domain.Series{
		{Name: "Shooter", Points: []domain.SeriesPoint{
			{Key: "2005", Value: 6.0},
			{Key: "2006", Value: 1.0},
			{Key: "2007", Value: 3.0},
		}},
		{Name: "Action", Points: []domain.SeriesPoint{
			{Key: "2005", Value: 3.5},
		}},
	}, result.Series.Series)
}

func TestPanel_SupermarketDatesAndPercentages(t *testing.T) {
	supermarket := `Date,Product line,City,gross income,Gender,Payment
1/5/2019,Health and beauty,Yangon,10.5,Female,Cash
3/8/2019,Health and beauty,Yangon,4.25,Male,Ewallet
1/27/2019,Health and beauty,Mandalay,5,Female,Cash
1/5/2019,Sports and travel,Yangon,7,Male,Cash
`
	service := newService(t, map[string]string{domain.DatasetSupermarket: supermarket})
	ctx := context.Background()

	timeline, err := service.Panel(ctx, domain.DatasetSupermarket, "product-line-timeline", nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "2019-01-05", Value: 10.5},
		{Key: "2019-01-27", Value: 5.0},
		{Key: "2019-03-08", Value: 4.25},
	}, timeline.Aggregation.Rows)

	gender, err := service.Panel(ctx, domain.DatasetSupermarket, "gender-distribution", nil)
	require.NoError(t, err)
	var total float64
	for _, row := range gender.Aggregation.Rows {
		total += row.Value
	}
	assert.InDelta(t, 100.0, total, 0.02)
	assert.Equal(t, domain.AggregationRow{Key: "Female", Value: 66.67}, gender.Aggregation.Rows[0])

	payments, err := service.Panel(ctx, domain.DatasetSupermarket, "payment-count", nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "Cash", Value: 2},
		{Key: "Ewallet", Value: 1},
	}, payments.Aggregation.Rows)

	byLine, err := service.Panel(ctx, domain.DatasetSupermarket, "income-by-product-line", nil)
	require.NoError(t, err)
	assert.Equal(t, "Health and beauty", byLine.Aggregation.Rows[0].Key)
	assert.Equal(t, 14.75, byLine.Aggregation.Rows[0].Value)
}

func TestFilter_DateRange(t *testing.T) {
	ds := domain.Catalog()[domain.DatasetSupermarket]
	table, err := csvstore.ParseCSV(strings.NewReader("Date,gross income\n1/5/2019,1\n2019-02-10,2\n,3\n3/1/2019,4\n"))
	require.NoError(t, err)

	rows, err := Filter(ds, table, domain.FilterSpec{
		Ranges: []domain.RangeFilter{{Column: "Date", Min: "2019-01-01", Max: "2019-02-28"}},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = Filter(ds, table, domain.FilterSpec{
		Ranges: []domain.RangeFilter{{Column: "Date", Min: "ontem"}},
	})
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestValueCounts_Direct(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	result, err := service.ValueCounts(context.Background(), domain.DatasetVideogames, domain.CountQuery{
		Filter: domain.FilterSpec{In: map[string][]string{"Platform": {"PS2", "PS3"}}},
		Column: "Genre",
	})
	require.NoError(t, err)

	assert.Equal(t, "count", result.Metric)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "Sports", Value: 1},
		{Key: "Action", Value: 1},
		{Key: "Shooter", Value: 1},
		{Key: "Racing", Value: 1},
	}, result.Rows)
}

func TestOverview(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	overview, err := service.Overview(context.Background(), domain.DatasetVideogames)
	require.NoError(t, err)

	assert.Equal(t, 7, overview.Rows)
	require.Len(t, overview.Panels, 3)
	assert.Equal(t, "global-sales-timeline", overview.Panels[0].Panel)
	assert.Equal(t, "genre-sales", overview.Panels[1].Panel)
	// O ano padrão do painel é 1980, sem dados no acumulado
	assert.Equal(t, domain.StatusEmptyResult, overview.Panels[1].Aggregation.Status)
	assert.Equal(t, domain.PanelSeries, overview.Panels[2].Kind)

	_, err = service.Overview(context.Background(), "weather")
	assert.True(t, errors.Is(err, ErrUnknownDataset))
}

func TestDatasets(t *testing.T) {
	service := newService(t, map[string]string{domain.DatasetVideogames: videogamesCSV})

	summaries := service.Datasets()
	require.Len(t, summaries, 2)
	assert.Equal(t, domain.DatasetSupermarket, summaries[0].Name)
	assert.Equal(t, 0, summaries[0].Rows)
	assert.Equal(t, 7, summaries[1].Rows)
	assert.Contains(t, summaries[1].Columns, "Genre")
}
