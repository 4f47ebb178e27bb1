package output

import (
	"fmt"
	"io"
	"reflect"
	"text/tabwriter"
)

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Tabular is implemented by results that choose their own table columns.
type Tabular interface {
	Table() Table
}

func (p *Printer) printTable(data interface{}) error {
	switch t := data.(type) {
	case Table:
		return writeTable(p.w, t)
	case Tabular:
		return writeTable(p.w, t.Table())
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("table format requires a list of items")
	}
	if v.Len() == 0 {
		return nil
	}
	return writeTable(p.w, buildTable(v))
}

func writeTable(out io.Writer, t Table) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	writeRow(w, t.Headers)
	for _, row := range t.Rows {
		writeRow(w, row)
	}
	return w.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

// buildTable derives columns from struct fields, or a single "value" column
// for anything else.
func buildTable(v reflect.Value) Table {
	first := indirect(v.Index(0))
	if first.Kind() != reflect.Struct {
		t := Table{Headers: []string{"value"}}
		for i := 0; i < v.Len(); i++ {
			t.Rows = append(t.Rows, []string{fmt.Sprint(v.Index(i).Interface())})
		}
		return t
	}

	var t Table
	var idx []int
	for i := 0; i < first.NumField(); i++ {
		if label, ok := fieldLabel(first.Type().Field(i)); ok {
			t.Headers = append(t.Headers, label)
			idx = append(idx, i)
		}
	}

	for i := 0; i < v.Len(); i++ {
		item := indirect(v.Index(i))
		if item.Kind() != reflect.Struct {
			t.Rows = append(t.Rows, []string{fmt.Sprint(v.Index(i).Interface())})
			continue
		}
		row := make([]string, 0, len(idx))
		for _, fi := range idx {
			row = append(row, fmt.Sprint(item.Field(fi).Interface()))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
