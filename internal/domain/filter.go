package domain

// RangeFilter é um filtro de intervalo inclusivo. Limites vazios não restringem.
type RangeFilter struct {
	Column string `json:"column"`
	Min    string `json:"min,omitempty"`
	Max    string `json:"max,omitempty"`
}

// FilterSpec reúne os parâmetros selecionados para uma consulta
type FilterSpec struct {
	Equals map[string]string   `json:"equals,omitempty"`
	In     map[string][]string `json:"in,omitempty"`
	Ranges []RangeFilter       `json:"ranges,omitempty"`
}

// Columns lista as colunas referenciadas pelo filtro
func (f FilterSpec) Columns() []string {
	columns := make([]string, 0, len(f.Equals)+len(f.In)+len(f.Ranges))
	for c := range f.Equals {
		columns = append(columns, c)
	}
	for c := range f.In {
		columns = append(columns, c)
	}
	for _, r := range f.Ranges {
		columns = append(columns, r.Column)
	}
	return columns
}

func (f FilterSpec) IsEmpty() bool {
	return len(f.Equals) == 0 && len(f.In) == 0 && len(f.Ranges) == 0
}
