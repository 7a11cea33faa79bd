package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/lifeplan/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for format names with no registered formatter
	ErrUnsupportedFormat = errors.New("unsupported report format")
	// ErrEmptyReport is returned by formatters that need a simulation result when none is attached
	ErrEmptyReport = errors.New("report has no simulation result")
)

// Report is everything a formatter may render: one simulation run and, optionally,
// the comparison of scenarios derived from the same profile.
type Report struct {
	Name        string                     `json:"name"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Assumptions []string                   `json:"assumptions,omitempty"`
	Result      *domain.SimulationResult   `json:"result,omitempty"`
	Comparison  *domain.ScenarioComparison `json:"comparison,omitempty"`
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// Extension returns the file extension for a formatter's output
func Extension(f Formatter) string {
	name := f.Name()
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case name == "console":
		return "txt"
	default:
		return name
	}
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *Report, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("lifeplan_%s_%s.%s", f.Name(), time.Now().Format("20060102_150405"), Extension(f)))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// Render runs a formatter and writes its output to w.
func Render(w io.Writer, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	LedgerCSV{},
	SnapshotCSV{},
	ScenarioCSV{},
	ConsoleFormatter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// Lookup is GetFormatterByName with an error listing the available names and aliases.
func Lookup(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"ledger":       "csv",
	"ledger-csv":   "csv",
	"csv-ledger":   "csv",
	"snapshots":    "snapshot-csv",
	"csv-snapshot": "snapshot-csv",
	"scenarios":    "scenario-csv",
	"summary":      "console",
	"text":         "console",
	"html-report":  "html",
	"json-pretty":  "json",
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
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
