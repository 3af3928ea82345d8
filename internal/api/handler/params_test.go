package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

func TestParseFilter_Range(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.RangeFilter
		wantErr bool
	}{
		{
			name: "limites numéricos com separador ..",
			raw:  "Year:2005..2010",
			want: domain.RangeFilter{Column: "Year", Min: "2005", Max: "2010"},
		},
		{
			name: "limites RFC3339",
			raw:  "Date:2019-01-05T10:00:00Z..2019-02-01T00:00:00Z",
			want: domain.RangeFilter{Column: "Date", Min: "2019-01-05T10:00:00Z", Max: "2019-02-01T00:00:00Z"},
		},
		{
			name: "limites com data e hora",
			raw:  "Date:2019-01-05 10:00:00..2019-01-05 18:30:00",
			want: domain.RangeFilter{Column: "Date", Min: "2019-01-05 10:00:00", Max: "2019-01-05 18:30:00"},
		},
		{
			name: "apenas limite superior",
			raw:  "Year:..2005",
			want: domain.RangeFilter{Column: "Year", Max: "2005"},
		},
		{
			name: "apenas limite inferior",
			raw:  "Date:2019-03-01T00:00:00Z..",
			want: domain.RangeFilter{Column: "Date", Min: "2019-03-01T00:00:00Z"},
		},
		{
			name: "forma antiga com dois pontos",
			raw:  "Year:2010:",
			want: domain.RangeFilter{Column: "Year", Min: "2010"},
		},
		{
			name:    "sem limites",
			raw:     "Year:2005",
			wantErr: true,
		},
		{
			name:    "horário na forma antiga é ambíguo",
			raw:     "Date:2019-01-05T10:00:00Z:2019-02-01T00:00:00Z",
			wantErr: true,
		},
		{
			name:    "sem coluna",
			raw:     ":2005..2010",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parseFilter(url.Values{"range": {tt.raw}})
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, []domain.RangeFilter{tt.want}, spec.Ranges)
		})
	}
}

func TestQueries_RangeWithTimestamps(t *testing.T) {
	api := newTestAPI(t, 1<<20)
	api.auth.EXPECT().Enabled().Return(false).AnyTimes()

	rec := api.uploadJSON(t, domain.DatasetSupermarket, "vendas.csv", `Date,Product line,City,gross income
2019-01-05T08:00:00Z,Health and beauty,Yangon,1
2019-01-05T12:00:00Z,Health and beauty,Yangon,2
2019-01-20T09:00:00Z,Health and beauty,Mandalay,4
2019-02-01T00:00:00Z,Health and beauty,Mandalay,8
`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet,
		"/v1/datasets/supermarket/aggregate?group_by=City&metric=gross%20income&range=Date:2019-01-05T10:00:00Z..2019-01-31T23:59:59Z",
		nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[domain.AggregationResult](t, rec)
	assert.Equal(t, []domain.AggregationRow{
		{Key: "Mandalay", Value: 4},
		{Key: "Yangon", Value: 2},
	}, result.Rows)
}
