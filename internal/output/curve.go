package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// FormatCurve renders an effective-rate curve as console, csv or json.
func FormatCurve(points []domain.RateCurvePoint, format string) ([]byte, error) {
	switch NormalizeFormatName(format) {
	case "console", "verbose":
		return curveTable(points), nil
	case "csv":
		return curveCSV(points)
	case "json":
		return json.MarshalIndent(points, "", "  ")
	default:
		return nil, fmt.Errorf("%w for curve: %q. Try one of: console, csv, json", ErrUnsupportedFormat, format)
	}
}

func curveCSV(points []domain.RateCurvePoint) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"AnnualIncome", "Investment", "FinalTaxDue", "EffectiveRate", "IsUser"}); err != nil {
		return nil, err
	}
	for _, p := range points {
		row := []string{
			p.AnnualIncome.StringFixed(2),
			p.Investment.StringFixed(2),
			p.FinalTaxDue.StringFixed(2),
			p.EffectiveRate.StringFixed(2),
			boolToString(p.IsUser),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func curveTable(points []domain.RateCurvePoint) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%18s %16s %16s %10s\n", "Annual Income", "Investment", "Tax Due", "Rate")
	for _, p := range points {
		marker := ""
		if p.IsUser {
			marker = "  <- you"
		}
		fmt.Fprintf(&buf, "%18s %16s %16s %10s%s\n",
			FormatCurrency(p.AnnualIncome),
			FormatCurrency(p.Investment),
			FormatCurrency(p.FinalTaxDue),
			FormatPercentage(p.EffectiveRate),
			marker,
		)
	}
	return buf.Bytes()
}
