package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bdtax/income-tax-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned when a format name matches no formatter.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter renders one tax result. Format must not write anywhere; callers
// decide whether the bytes go to stdout, a file or an HTTP response.
type Formatter interface {
	Format(result *domain.TaxResult) ([]byte, error)
	// Name is the canonical format name used on the command line.
	Name() string
}

// nowFunc stamps report file names.
var nowFunc = time.Now

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, result *domain.TaxResult, dir, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_report_%s_%s.%s", result.IncomeYear, nowFunc().Format("20060102_150405"), ext)
	if dir != "" {
		filename = filepath.Join(dir, filename)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters is the registry searched by name.
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter, or nil.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// LookupFormatter is GetFormatterByName with an error listing the choices.
func LookupFormatter(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap maps accepted synonyms to canonical names.
var aliasMap = map[string]string{
	"":                "console",
	"text":            "console",
	"summary":         "console",
	"console-verbose": "verbose",
	"detailed":        "verbose",
	"csv-summary":     "csv",
	"csv-detailed":    "detailed-csv",
	"slabs-csv":       "detailed-csv",
	"html-report":     "html",
	"json-pretty":     "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileExtension picks the extension used when a format is written to disk.
func FileExtension(format string) string {
	switch n := NormalizeFormatName(format); n {
	case "console", "verbose":
		return "txt"
	case "detailed-csv":
		return "csv"
	default:
		return n
	}
}
