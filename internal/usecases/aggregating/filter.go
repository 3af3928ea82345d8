package aggregating

import (
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type predicate func(table *domain.Table, row []string) bool

// rowFilter é um FilterSpec validado e pronto para ser aplicado a qualquer snapshot
type rowFilter struct {
	columns    []string
	predicates []predicate
}

// compileFilter valida o FilterSpec. Limites de intervalo precisam ser números,
// ou datas quando a coluna é de data.
func compileFilter(ds domain.Dataset, spec domain.FilterSpec) (*rowFilter, error) {
	f := &rowFilter{columns: spec.Columns()}
	sort.Strings(f.columns)

	for column, value := range spec.Equals {
		want := canonicalValue(ds, column, value)
		if want == "" {
			return nil, invalidQuery("valor vazio para %s", column)
		}
		f.predicates = append(f.predicates, equalsPredicate(ds, column, want))
	}

	for column, values := range spec.In {
		set := make(map[string]bool, len(values))
		for _, v := range values {
			if c := canonicalValue(ds, column, v); c != "" {
				set[c] = true
			}
		}
		if len(set) == 0 {
			return nil, invalidQuery("lista vazia para %s", column)
		}
		f.predicates = append(f.predicates, inPredicate(ds, column, set))
	}

	for _, r := range spec.Ranges {
		p, err := rangePredicate(ds, r)
		if err != nil {
			return nil, err
		}
		f.predicates = append(f.predicates, p)
	}

	return f, nil
}

// missingColumn retorna a primeira coluna referenciada que não existe na tabela
func (f *rowFilter) missingColumn(table *domain.Table) (string, bool) {
	for _, c := range f.columns {
		if !table.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

func (f *rowFilter) apply(table *domain.Table) [][]string {
	if _, missing := f.missingColumn(table); missing {
		return [][]string{}
	}

	rows := make([][]string, 0, table.Len())
	for _, row := range table.Rows {
		if f.match(table, row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (f *rowFilter) match(table *domain.Table, row []string) bool {
	for _, p := range f.predicates {
		if !p(table, row) {
			return false
		}
	}
	return true
}

// Filter aplica o FilterSpec à tabela e retorna as linhas selecionadas, na ordem original
func Filter(ds domain.Dataset, table *domain.Table, spec domain.FilterSpec) ([][]string, error) {
	f, err := compileFilter(ds, spec)
	if err != nil {
		return nil, err
	}
	return f.apply(table), nil
}

func equalsPredicate(ds domain.Dataset, column, want string) predicate {
	return func(table *domain.Table, row []string) bool {
		return canonicalValue(ds, column, table.Value(row, table.ColumnIndex(column))) == want
	}
}

func inPredicate(ds domain.Dataset, column string, set map[string]bool) predicate {
	return func(table *domain.Table, row []string) bool {
		return set[canonicalValue(ds, column, table.Value(row, table.ColumnIndex(column)))]
	}
}

func rangePredicate(ds domain.Dataset, r domain.RangeFilter) (predicate, error) {
	if strings.TrimSpace(r.Column) == "" {
		return nil, invalidQuery("intervalo sem coluna")
	}

	if ds.IsDateColumn(r.Column) {
		return dateRangePredicate(r)
	}
	return numberRangePredicate(r)
}

func numberRangePredicate(r domain.RangeFilter) (predicate, error) {
	lo, hasMin, err := numberBound(r.Column, r.Min)
	if err != nil {
		return nil, err
	}
	hi, hasMax, err := numberBound(r.Column, r.Max)
	if err != nil {
		return nil, err
	}
	if hasMin && hasMax && lo > hi {
		return nil, invalidQuery("intervalo invertido em %s: %s > %s", r.Column, r.Min, r.Max)
	}

	return func(table *domain.Table, row []string) bool {
		v, ok := utils.ParseNumber(table.Value(row, table.ColumnIndex(r.Column)))
		if !ok {
			return false
		}
		return (!hasMin || v >= lo) && (!hasMax || v <= hi)
	}, nil
}

func numberBound(column, bound string) (float64, bool, error) {
	if strings.TrimSpace(bound) == "" {
		return 0, false, nil
	}
	v, ok := utils.ParseNumber(bound)
	if !ok {
		return 0, false, invalidQuery("limite não numérico para %s: %s", column, bound)
	}
	return v, true, nil
}

func dateRangePredicate(r domain.RangeFilter) (predicate, error) {
	lo, hasMin, err := dateBound(r.Column, r.Min)
	if err != nil {
		return nil, err
	}
	hi, hasMax, err := dateBound(r.Column, r.Max)
	if err != nil {
		return nil, err
	}
	if hasMin && hasMax && lo.After(hi) {
		return nil, invalidQuery("intervalo invertido em %s: %s > %s", r.Column, r.Min, r.Max)
	}

	return func(table *domain.Table, row []string) bool {
		v, ok := utils.ParseFlexibleDate(table.Value(row, table.ColumnIndex(r.Column)))
		if !ok {
			return false
		}
		return (!hasMin || !v.Before(lo)) && (!hasMax || !v.After(hi))
	}, nil
}

func dateBound(column, bound string) (time.Time, bool, error) {
	if strings.TrimSpace(bound) == "" {
		return time.Time{}, false, nil
	}
	v, ok := utils.ParseFlexibleDate(bound)
	if !ok {
		return time.Time{}, false, invalidQuery("limite de data inválido para %s: %s", column, bound)
	}
	return v, true, nil
}
