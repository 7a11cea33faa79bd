package output

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/lifeplan/internal/domain"
)

// GenerateReport renders report in the named format to w
func GenerateReport(w io.Writer, report *Report, format string) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	return Render(w, f, report)
}

// SaveConfiguration writes a configuration as YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return os.WriteFile(filename, b, 0644)
}
