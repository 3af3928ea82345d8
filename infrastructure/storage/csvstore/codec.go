package csvstore

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

var (
	ErrInvalidCSV     = errors.New("csv inválido")
	ErrSchemaMismatch = errors.New("colunas do upload diferem das colunas acumuladas")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV lê um documento CSV com linha de cabeçalho.
// Linhas curtas são completadas com valores ausentes; linhas com campos a mais são rejeitadas.
func ParseCSV(r io.Reader) (*domain.Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrInvalidCSV, "documento vazio, cabeçalho ausente")
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCSV, "cabeçalho ilegível: %v", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Wrapf(ErrInvalidCSV, "coluna %d sem nome", i+1)
		}
		if seen[name] {
			return nil, errors.Wrapf(ErrInvalidCSV, "coluna duplicada: %s", name)
		}
		seen[name] = true
		columns[i] = name
	}

	table := domain.NewTable(columns)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidCSV, "linha ilegível: %v", err)
		}

		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)
			return nil, errors.Wrapf(ErrInvalidCSV, "linha %d tem %d campos, cabeçalho tem %d", line, len(record), len(columns))
		}
		if isBlankRecord(record) {
			continue
		}

		row := make([]string, len(columns))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteCSV escreve o cabeçalho e as linhas da tabela
func WriteCSV(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return errors.Wrap(err, "erro ao escrever cabeçalho")
	}

	width := len(table.Columns)
	for i, row := range table.Rows {
		if len(row) != width {
			return fmt.Errorf("linha %d tem %d campos, esperado %d", i+1, len(row), width)
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "erro ao escrever linha %d", i+1)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "erro ao finalizar csv")
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
