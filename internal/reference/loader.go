package reference

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// ErrNoTables is returned when a reference document carries no tax years
var ErrNoTables = errors.New("reference data contains no tax years")

// Decode reads a standalone reference document without merging defaults
func Decode(r io.Reader) (*Tables, error) {
	var t Tables
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode reference data: %w", err)
	}
	if len(t.Years) == 0 {
		return nil, ErrNoTables
	}
	for y, yt := range t.Years {
		if yt == nil {
			return nil, fmt.Errorf("year %d: %w", y, ErrNoTables)
		}
		yt.Year = y
	}
	t.index()
	return &t, nil
}

// Load reads a reference document and merges it over the built-in defaults.
// A year present in the document replaces the default year; filing statuses the
// document omits for that year are inherited from the nearest default year.
func Load(r io.Reader) (*Tables, error) {
	overlay, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Merge(Default(), overlay), nil
}

// LoadFile loads and merges a reference document from disk
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference file %s: %w", path, err)
	}
	return t, nil
}

// Merge applies overlay on top of base and returns base
func Merge(base, overlay *Tables) *Tables {
	for y, yt := range overlay.Years {
		if prev := base.Year(y); prev != nil {
			for status, ft := range prev.Filing {
				if _, ok := yt.Filing[status]; !ok {
					if yt.Filing == nil {
						yt.Filing = make(map[FilingStatus]*FilingTable)
					}
					yt.Filing[status] = ft
				}
			}
		}
		base.Years[y] = yt
	}
	for age, div := range overlay.UniformLifetime {
		base.UniformLifetime[age] = div
	}
	for g, col := range overlay.LifeExpectancyTable {
		base.LifeExpectancyTable[g] = col
	}
	if !overlay.RothBasisFraction.IsZero() {
		base.RothBasisFraction = overlay.RothBasisFraction
	}
	if !overlay.EarlyWithdrawalRate.IsZero() {
		base.EarlyWithdrawalRate = overlay.EarlyWithdrawalRate
	}
	if !overlay.HSAPenaltyRate.IsZero() {
		base.HSAPenaltyRate = overlay.HSAPenaltyRate
	}
	if !overlay.MedicareInflationRate.IsZero() {
		base.MedicareInflationRate = overlay.MedicareInflationRate
	}
	base.index()
	return base
}

// Save writes the tables as indented JSON
func (t *Tables) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode reference data: %w", err)
	}
	return nil
}
