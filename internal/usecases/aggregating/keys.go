package aggregating

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// canonicalValue normaliza um valor para agrupamento e comparação.
// Retorna "" para valores ausentes. Números perdem zeros à direita e datas viram 2006-01-02.
func canonicalValue(ds domain.Dataset, column, v string) string {
	v = strings.TrimSpace(v)
	if domain.IsMissing(v) {
		return ""
	}

	if ds.IsDateColumn(column) {
		if t, ok := utils.ParseFlexibleDate(v); ok {
			return t.Format(time.DateOnly)
		}
	}

	// decimal preserva inteiros longos que float64 arredondaria para a mesma chave
	if d, err := decimal.NewFromString(v); err == nil {
		return d.String()
	}

	if n, ok := utils.ParseNumber(v); ok {
		return utils.FormatNumber(n)
	}

	return v
}

// metricValue interpreta o valor da métrica. Ausentes e não numéricos valem zero.
func metricValue(v string) decimal.Decimal {
	v = strings.TrimSpace(v)
	if domain.IsMissing(v) {
		return decimal.Zero
	}

	if d, err := decimal.NewFromString(v); err == nil {
		return d
	}

	if f, ok := utils.ParseNumber(v); ok {
		return decimal.NewFromFloat(f)
	}

	return decimal.Zero
}

// compareValues ordena números numericamente, datas cronologicamente e o resto lexicograficamente.
// Números vêm antes de textos.
func compareValues(dateColumn bool, a, b string) int {
	if dateColumn {
		ta, okA := utils.ParseFlexibleDate(a)
		tb, okB := utils.ParseFlexibleDate(b)
		if okA && okB {
			return ta.Compare(tb)
		}
	}

	na, okA := utils.ParseNumber(a)
	nb, okB := utils.ParseNumber(b)
	switch {
	case okA && okB:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}

	return strings.Compare(a, b)
}

func compareKeys(ds domain.Dataset, columns []string, a, b []string) int {
	for i, column := range columns {
		if c := compareValues(ds.IsDateColumn(column), a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func joinKeys(keys []string) string {
	return strings.Join(keys, " | ")
}
