package output

import (
	"bytes"
	"encoding/csv"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// CSVDetailedExporter writes one row per slab plus a total row.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(r *domain.TaxResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"IncomeYear", "Slab", "TaxableAmount", "RatePercent", "TaxOnSlab"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, line := range r.TaxSlabBreakdown {
		row := []string{
			r.IncomeYear,
			line.Description,
			line.TaxableAmountInSlab.StringFixed(2),
			line.RatePercent().StringFixed(2),
			line.TaxOnSlab.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{r.IncomeYear, "Total Gross Tax", r.TaxableIncome.StringFixed(2), "", r.GrossTax.StringFixed(2)}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
