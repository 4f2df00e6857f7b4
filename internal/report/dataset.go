package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

const utf8BOM = "\ufeff"

// Dataset is a parsed report: a header index plus numbered data rows.
type Dataset struct {
	Report fattail.SavedReport
	Path   string
	Waited time.Duration

	header  []string
	columns map[string]int
	rows    []Row
}

// Row is one data row. Numbers start at 1 for the first row after the header.
type Row struct {
	Number  int
	values  []string
	columns map[string]int
}

// Get returns the value of column. Asking for a column the header does not
// have is a programming error and panics; required columns are checked at
// parse time.
func (r Row) Get(column string) string {
	idx, ok := r.columns[column]
	if !ok {
		panic(fmt.Sprintf("report: unknown column %q", column))
	}
	if idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

// Lookup returns the value of column and whether the header has it.
func (r Row) Lookup(column string) (string, bool) {
	if _, ok := r.columns[column]; !ok {
		return "", false
	}
	return r.Get(column), true
}

// Rows returns the data rows in file order.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Columns returns the header names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.header))
	copy(out, d.header)
	return out
}

// Parse reads CSV from r. The first record is the header; every name in
// required must appear in it.
func Parse(r io.Reader, required []string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", "", "report is empty", err)
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewConfigError("report",
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	ds := &Dataset{header: header, columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			perr := &errors.ParseError{Format: "csv", Message: err.Error(), Err: err}
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				perr.Line = csvErr.Line
			}
			return nil, perr
		}
		ds.rows = append(ds.rows, Row{Number: len(ds.rows) + 1, values: record, columns: columns})
	}
	return ds, nil
}

// ParseFile parses the CSV file at path.
func ParseFile(path string, required []string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(f, required)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	ds.Path = path
	return ds, nil
}
