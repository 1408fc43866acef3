package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.TaxResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.TaxResult
		CategoryLabel  string
		ShowInvestment bool
		ShowBreakdown  bool
		Assumptions    []string
	}{result, result.Category.Label(), showInvestment(result), showBreakdown(result), Assumptions(result)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
