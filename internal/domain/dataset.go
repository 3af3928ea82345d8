// Package domain contém as estruturas de dados do domínio da aplicação
package domain

// Order define a ordenação das linhas de um resultado agregado
type Order string

const (
	// OrderValueDesc ordena pelo total agregado, do maior para o menor (gráficos de barra)
	OrderValueDesc Order = "value_desc"
	// OrderKeyAsc ordena pela chave de agrupamento (séries temporais)
	OrderKeyAsc Order = "key_asc"
)

// Valid informa se a ordenação é conhecida
func (o Order) Valid() bool {
	return o == OrderValueDesc || o == OrderKeyAsc
}

// SchemaPolicy define o que acontece quando um upload traz colunas diferentes das já acumuladas
type SchemaPolicy string

const (
	SchemaPolicyUnion  SchemaPolicy = "union"
	SchemaPolicyStrict SchemaPolicy = "strict"
)

type PanelKind string

const (
	PanelSum    PanelKind = "sum"
	PanelSeries PanelKind = "series"
	PanelCount  PanelKind = "count"
)

type ParamKind string

const (
	ParamEquals   ParamKind = "equals"
	ParamIn       ParamKind = "in"
	ParamRangeMin ParamKind = "range_min"
	ParamRangeMax ParamKind = "range_max"
	ParamMetric   ParamKind = "metric"
)

// PanelParam descreve um parâmetro de consulta aceito por um painel
type PanelParam struct {
	Name    string    `json:"name"`
	Column  string    `json:"column,omitempty"`
	Kind    ParamKind `json:"kind"`
	Default string    `json:"default,omitempty"`
	Allowed []string  `json:"allowed,omitempty"` // Apenas para ParamMetric
}

// Panel é uma agregação pré-configurada de um dataset, equivalente a um gráfico do dashboard
type Panel struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Kind     PanelKind    `json:"kind"`
	GroupBy  []string     `json:"group_by"`
	SeriesBy string       `json:"series_by,omitempty"`
	Metric   string       `json:"metric,omitempty"`
	Percent  bool         `json:"percent,omitempty"`
	Order    Order        `json:"order,omitempty"`
	Params   []PanelParam `json:"params,omitempty"`
}

// Dataset é a configuração de uma variante de dashboard: esquema, arquivo e painéis
type Dataset struct {
	Name            string   `json:"name"`
	FileName        string   `json:"file_name"`
	RequiredColumns []string `json:"required_columns"`
	DateColumns     []string `json:"date_columns,omitempty"`
	Panels          []Panel  `json:"panels"`
}

// IsDateColumn informa se a coluna deve ser interpretada como data
func (d Dataset) IsDateColumn(column string) bool {
	for _, c := range d.DateColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Panel busca um painel pelo nome
func (d Dataset) Panel(name string) (Panel, bool) {
	for _, p := range d.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return Panel{}, false
}

// DatasetSummary é a visão do catálogo exposta pela API
type DatasetSummary struct {
	Name            string   `json:"name"`
	Columns         []string `json:"columns"`
	RequiredColumns []string `json:"required_columns"`
	Rows            int      `json:"rows"`
	Panels          []Panel  `json:"panels"`
}
