package domain

// ResultStatus distingue "sem dados" de um resultado normal
type ResultStatus string

const (
	StatusOK          ResultStatus = "ok"
	StatusEmptyStore  ResultStatus = "empty_store"
	StatusEmptyResult ResultStatus = "empty_result"
)

// AggregationQuery é uma soma agrupada por uma ou mais colunas
type AggregationQuery struct {
	Filter  FilterSpec
	GroupBy []string
	Metric  string
	Order   Order
}

// SeriesQuery é uma soma agrupada por duas chaves, uma série por categoria
type SeriesQuery struct {
	Filter      FilterSpec
	Key         string
	SeriesBy    string
	Metric      string
	SeriesOrder []string
}

// CountQuery é a contagem de valores de uma coluna categórica
type CountQuery struct {
	Filter  FilterSpec
	Column  string
	Percent bool
}

type AggregationRow struct {
	Key   string   `json:"key"`
	Keys  []string `json:"keys,omitempty"` // Preenchido quando há mais de uma dimensão
	Value float64  `json:"value"`
}

// AggregationResult é a tabela pequena entregue ao cliente de gráficos
type AggregationResult struct {
	Dataset    string           `json:"dataset"`
	Dimensions []string         `json:"dimensions"`
	Metric     string           `json:"metric"`
	Status     ResultStatus     `json:"status"`
	Rows       []AggregationRow `json:"rows"`
}

type SeriesPoint struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type Series struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}

type SeriesResult struct {
	Dataset  string       `json:"dataset"`
	Key      string       `json:"key"`
	SeriesBy string       `json:"series_by"`
	Metric   string       `json:"metric"`
	Status   ResultStatus `json:"status"`
	Series   []Series     `json:"series"`
}

// PanelResult é o resultado de um painel; apenas um dos campos de resultado é preenchido
type PanelResult struct {
	Panel       string             `json:"panel"`
	Title       string             `json:"title"`
	Kind        PanelKind          `json:"kind"`
	Params      map[string]string  `json:"params,omitempty"`
	Aggregation *AggregationResult `json:"aggregation,omitempty"`
	Series      *SeriesResult      `json:"series,omitempty"`
}

// Overview reúne todos os painéis de um dataset com os parâmetros padrão
type Overview struct {
	Dataset string         `json:"dataset"`
	Rows    int            `json:"rows"`
	Panels  []*PanelResult `json:"panels"`
}
