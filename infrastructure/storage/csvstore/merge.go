package csvstore

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// CheckSchema rejeita, na política estrita, um lote cujo conjunto de colunas difere do acumulado.
// Vale também para lotes sem linhas.
func CheckSchema(current, batch *domain.Table, policy domain.SchemaPolicy) error {
	if policy != domain.SchemaPolicyStrict || current == nil || current.Len() == 0 {
		return nil
	}
	if !sameColumnSet(current.Columns, batch.Columns) {
		return errors.Wrapf(ErrSchemaMismatch, "acumulado %v, recebido %v", current.Columns, batch.Columns)
	}
	return nil
}

// Merge concatena o lote à tabela atual sem alterar nenhuma das duas.
// Com SchemaPolicyUnion as colunas novas são acrescentadas ao cabeçalho e as linhas
// antigas recebem valores ausentes. Com SchemaPolicyStrict um lote com conjunto de
// colunas diferente de uma tabela não vazia é rejeitado.
func Merge(current, batch *domain.Table, policy domain.SchemaPolicy) (*domain.Table, error) {
	if current == nil {
		current = domain.NewTable(nil)
	}

	if err := CheckSchema(current, batch, policy); err != nil {
		return nil, err
	}

	columns := append([]string(nil), current.Columns...)
	for _, c := range batch.Columns {
		if !contains(columns, c) {
			columns = append(columns, c)
		}
	}
	width := len(columns)

	merged := &domain.Table{
		Columns: columns,
		Rows:    make([][]string, 0, current.Len()+batch.Len()),
	}

	for _, row := range current.Rows {
		if len(row) == width {
			merged.Rows = append(merged.Rows, row)
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		merged.Rows = append(merged.Rows, padded)
	}

	positions := make([]int, len(batch.Columns))
	for i, c := range batch.Columns {
		positions[i] = indexOf(columns, c)
	}

	for _, row := range batch.Rows {
		aligned := make([]string, width)
		for i, v := range row {
			if i < len(positions) {
				aligned[positions[i]] = v
			}
		}
		merged.Rows = append(merged.Rows, aligned)
	}

	return merged, nil
}

// sameTable compara cabeçalho (na ordem) e conteúdo das linhas
func sameTable(a, b *domain.Table) bool {
	if !slices.Equal(a.Columns, b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Rows {
		if !slices.Equal(a.Rows[i], b.Rows[i]) {
			return false
		}
	}
	return true
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, c := range b {
		if !contains(a, c) {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	return indexOf(list, v) >= 0
}

func indexOf(list []string, v string) int {
	for i, c := range list {
		if c == v {
			return i
		}
	}
	return -1
}
