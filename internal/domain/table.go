package domain

import "strings"

// Table é o conteúdo tabular de um dataset. Cada linha está alinhada com Columns.
// Uma Table publicada por um store nunca é alterada; alterações geram uma nova Table.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable cria uma tabela vazia com o cabeçalho informado
func NewTable(columns []string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    [][]string{},
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex retorna a posição da coluna ou -1 quando ela não existe
func (t *Table) ColumnIndex(column string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(column string) bool {
	return t.ColumnIndex(column) >= 0
}

// Value retorna o valor da coluna na linha, ou "" quando a linha é mais curta
func (t *Table) Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// IsMissing informa se o valor representa ausência de dado
func IsMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "none", "n/a", "na":
		return true
	}
	return false
}
