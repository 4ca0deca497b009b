// Package dataset reads batches of profiles from CSV files, one profile per
// row.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spboyer/modelpick/internal/profile"
)

// NameColumn optionally labels a row. Every other column must be a profile
// attribute.
const NameColumn = "name"

// Row maps column name to raw cell value.
type Row map[string]string

// Entry is one labelled profile from a batch file.
type Entry struct {
	Name    string
	Profile profile.Profile
}

// ReadCSV reads rows from r. The first record is the header.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: no header row")
	}

	headers := records[0]
	for i, h := range headers {
		if slices.Contains(headers[:i], h) {
			return nil, fmt.Errorf("csv: duplicate column %q", h)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads all rows of the CSV file at path.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Profile converts the row's attribute cells into a validated profile.
// Boolean cells must read exactly "true" or "false".
func (r Row) Profile() (profile.Profile, error) {
	raw := make(map[string]any, len(r))
	for col, cell := range r {
		if col == NameColumn {
			continue
		}
		attr := profile.Attribute(col)
		if attr.Kind() != profile.KindBool {
			raw[col] = cell
			continue
		}
		switch cell {
		case "true", "false":
			b, _ := strconv.ParseBool(cell)
			raw[col] = b
		default:
			return profile.Profile{}, fmt.Errorf("%w: %s must be true or false, got %q", profile.ErrInvalidProfile, col, cell)
		}
	}
	return profile.Decode(raw)
}

// LoadProfiles reads every row of path as a profile. Rows without a name are
// labelled by their line number. The first invalid row aborts the load.
func LoadProfiles(path string) ([]Entry, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		p, err := row.Profile()
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		name := row[NameColumn]
		if name == "" {
			name = fmt.Sprintf("%s:%d", path, line)
		}
		entries = append(entries, Entry{Name: name, Profile: p})
	}
	return entries, nil
}
