package output

import (
	"fmt"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// GenerateReport writes the result to a timestamped file in dir and returns
// the file names written. The "all" format writes the verbose text report
// and the slab CSV.
func GenerateReport(result *domain.TaxResult, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			name, err := WriteFormatted(f, result, dir, FileExtension(f.Name()))
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}

	f, err := LookupFormatter(format)
	if err != nil {
		return nil, err
	}
	name, err := WriteFormatted(f, result, dir, FileExtension(f.Name()))
	if err != nil {
		return nil, fmt.Errorf("write %s report: %w", f.Name(), err)
	}
	return []string{name}, nil
}
