// Package datatable implements the chart library's DataTable: typed columns,
// rows of cells with optional formatted values and properties, and the JSON
// literal form the browser side understands.
package datatable

import (
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/codec"
)

// ColumnType is the declared type of a column.
type ColumnType string

const (
	Boolean   ColumnType = "boolean"
	Number    ColumnType = "number"
	String    ColumnType = "string"
	Date      ColumnType = "date"
	DateTime  ColumnType = "datetime"
	TimeOfDay ColumnType = "timeofday"
)

var columnTypes = []ColumnType{Boolean, Number, String, Date, DateTime, TimeOfDay}

// FindColumnTypeByName returns the column type with the given wire name.
func FindColumnTypeByName(name string) (ColumnType, bool) {
	for _, t := range columnTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

var (
	ErrUnknownType  = errors.New("datatable: unknown column type")
	ErrArity        = errors.New("datatable: row arity does not match columns")
	ErrTypeMismatch = errors.New("datatable: value does not match column type")
	ErrIndex        = errors.New("datatable: index out of range")
)

// Column describes one column.
type Column struct {
	Type    ColumnType
	Label   string
	ID      string
	Pattern string
	// Role is the column role, e.g. "annotation" or "tooltip".
	Role       string
	Properties *gviz.Bag
}

// Cell is a value with an optional formatted form and properties. A Cell
// passed to AddRow or SetCell is stored as is, after the type check.
type Cell struct {
	Value      gviz.Value
	Formatted  string
	Properties *gviz.Bag
}

func (c Cell) empty() bool {
	return c.Value.IsNull() && c.Formatted == "" && c.Properties.Len() == 0
}

type row struct {
	cells []Cell
	props *gviz.Bag
}

// DataTable is a two-dimensional table of typed columns. It is not safe for
// concurrent mutation.
type DataTable struct {
	cols  []Column
	rows  []row
	props *gviz.Bag
}

// New returns an empty table.
func New() *DataTable { return &DataTable{} }

// AddColumn appends a column and returns its index.
func (dt *DataTable) AddColumn(t ColumnType, label, id string) (int, error) {
	return dt.AddColumnSpec(Column{Type: t, Label: label, ID: id})
}

// AddColumnSpec appends a fully described column. Existing rows get a null
// cell.
func (dt *DataTable) AddColumnSpec(c Column) (int, error) {
	if _, ok := FindColumnTypeByName(string(c.Type)); !ok {
		return -1, errors.Wrapf(ErrUnknownType, "%q", c.Type)
	}
	dt.cols = append(dt.cols, c)
	for i := range dt.rows {
		dt.rows[i].cells = append(dt.rows[i].cells, Cell{})
	}
	return len(dt.cols) - 1, nil
}

// RemoveColumn deletes column i from the table and every row.
func (dt *DataTable) RemoveColumn(i int) error {
	if i < 0 || i >= len(dt.cols) {
		return errors.Wrapf(ErrIndex, "column %d", i)
	}
	dt.cols = append(dt.cols[:i], dt.cols[i+1:]...)
	for r := range dt.rows {
		dt.rows[r].cells = append(dt.rows[r].cells[:i], dt.rows[r].cells[i+1:]...)
	}
	return nil
}

// AddRow appends a row. There must be exactly one value per column; each value
// is converted with gviz.FromAny (or taken from a Cell) and checked against
// the column type. nil is always accepted.
func (dt *DataTable) AddRow(values ...any) (int, error) {
	if len(values) != len(dt.cols) {
		return -1, errors.Wrapf(ErrArity, "got %d values for %d columns", len(values), len(dt.cols))
	}
	cells := make([]Cell, len(values))
	for i, v := range values {
		c, err := dt.toCell(i, v)
		if err != nil {
			return -1, err
		}
		cells[i] = c
	}
	dt.rows = append(dt.rows, row{cells: cells})
	return len(dt.rows) - 1, nil
}

// AddRows appends n empty rows and returns the index of the last one.
func (dt *DataTable) AddRows(n int) int {
	for i := 0; i < n; i++ {
		dt.rows = append(dt.rows, row{cells: make([]Cell, len(dt.cols))})
	}
	return len(dt.rows) - 1
}

// RemoveRow deletes row i.
func (dt *DataTable) RemoveRow(i int) error { return dt.RemoveRows(i, 1) }

// RemoveRows deletes n rows starting at i.
func (dt *DataTable) RemoveRows(i, n int) error {
	if i < 0 || n < 0 || i+n > len(dt.rows) {
		return errors.Wrapf(ErrIndex, "rows %d..%d of %d", i, i+n, len(dt.rows))
	}
	dt.rows = append(dt.rows[:i], dt.rows[i+n:]...)
	return nil
}

func (dt *DataTable) NumberOfColumns() int { return len(dt.cols) }
func (dt *DataTable) NumberOfRows() int    { return len(dt.rows) }

// Column returns a copy of the description of column i.
func (dt *DataTable) Column(i int) (Column, bool) {
	if i < 0 || i >= len(dt.cols) {
		return Column{}, false
	}
	return dt.cols[i], true
}

// ColumnType returns the type of column i, or "" when i is out of range.
func (dt *DataTable) ColumnType(i int) ColumnType {
	c, _ := dt.Column(i)
	return c.Type
}

func (dt *DataTable) ColumnLabel(i int) string {
	c, _ := dt.Column(i)
	return c.Label
}

func (dt *DataTable) ColumnID(i int) string {
	c, _ := dt.Column(i)
	return c.ID
}

// ColumnIndex returns the index of the column with the given id, or -1.
func (dt *DataTable) ColumnIndex(id string) int {
	for i, c := range dt.cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// SetColumnLabel renames column i.
func (dt *DataTable) SetColumnLabel(i int, label string) error {
	if i < 0 || i >= len(dt.cols) {
		return errors.Wrapf(ErrIndex, "column %d", i)
	}
	dt.cols[i].Label = label
	return nil
}

// Value returns the value at (r, c); null when out of range.
func (dt *DataTable) Value(r, c int) gviz.Value {
	cell, _ := dt.Cell(r, c)
	return cell.Value
}

// Cell returns the cell at (r, c).
func (dt *DataTable) Cell(r, c int) (Cell, bool) {
	if !dt.inRange(r, c) {
		return Cell{}, false
	}
	return dt.rows[r].cells[c], true
}

// SetValue replaces the value at (r, c) and clears its formatted value.
func (dt *DataTable) SetValue(r, c int, v any) error {
	if !dt.inRange(r, c) {
		return errors.Wrapf(ErrIndex, "cell (%d,%d)", r, c)
	}
	cell, err := dt.toCell(c, v)
	if err != nil {
		return err
	}
	cell.Properties = dt.rows[r].cells[c].Properties
	dt.rows[r].cells[c] = cell
	return nil
}

// SetCell replaces value, formatted value and properties at (r, c).
func (dt *DataTable) SetCell(r, c int, v any, formatted string, props *gviz.Bag) error {
	if !dt.inRange(r, c) {
		return errors.Wrapf(ErrIndex, "cell (%d,%d)", r, c)
	}
	cell, err := dt.toCell(c, v)
	if err != nil {
		return err
	}
	cell.Formatted = formatted
	cell.Properties = props
	dt.rows[r].cells[c] = cell
	return nil
}

// SetFormattedValue sets the display form of (r, c).
func (dt *DataTable) SetFormattedValue(r, c int, f string) error {
	if !dt.inRange(r, c) {
		return errors.Wrapf(ErrIndex, "cell (%d,%d)", r, c)
	}
	dt.rows[r].cells[c].Formatted = f
	return nil
}

// FormattedValue returns the display form of (r, c): the explicit formatted
// value when set, otherwise a default rendering for the column type.
func (dt *DataTable) FormattedValue(r, c int) string {
	cell, ok := dt.Cell(r, c)
	if !ok {
		return ""
	}
	if cell.Formatted != "" {
		return cell.Formatted
	}
	return formatDefault(dt.cols[c].Type, cell.Value)
}

// Properties returns the table properties, creating the bag on first use.
func (dt *DataTable) Properties() *gviz.Bag {
	if dt.props == nil {
		dt.props = gviz.NewBag()
	}
	return dt.props
}

// ColumnProperties returns the properties of column i; nil when out of range.
func (dt *DataTable) ColumnProperties(i int) *gviz.Bag {
	if i < 0 || i >= len(dt.cols) {
		return nil
	}
	if dt.cols[i].Properties == nil {
		dt.cols[i].Properties = gviz.NewBag()
	}
	return dt.cols[i].Properties
}

// RowProperties returns the properties of row i; nil when out of range.
func (dt *DataTable) RowProperties(i int) *gviz.Bag {
	if i < 0 || i >= len(dt.rows) {
		return nil
	}
	if dt.rows[i].props == nil {
		dt.rows[i].props = gviz.NewBag()
	}
	return dt.rows[i].props
}

// CellProperties returns the properties of (r, c); nil when out of range.
func (dt *DataTable) CellProperties(r, c int) *gviz.Bag {
	if !dt.inRange(r, c) {
		return nil
	}
	cell := &dt.rows[r].cells[c]
	if cell.Properties == nil {
		cell.Properties = gviz.NewBag()
	}
	return cell.Properties
}

// FilterRows returns the indexes of the rows for which keep reports true.
func (dt *DataTable) FilterRows(keep func(dt *DataTable, row int) bool) []int {
	out := []int{}
	for i := range dt.rows {
		if keep(dt, i) {
			out = append(out, i)
		}
	}
	return out
}

// ColumnRange returns the smallest and largest non-null values of a number,
// date or datetime column. ok is false when the column holds no such value.
func (dt *DataTable) ColumnRange(c int) (lo, hi gviz.Value, ok bool) {
	for r := range dt.rows {
		v := dt.Value(r, c)
		if v.IsNull() {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if less(v, lo) {
			lo = v
		}
		if less(hi, v) {
			hi = v
		}
	}
	return lo, hi, ok
}

func less(a, b gviz.Value) bool {
	if x, ok := a.AsNumber(); ok {
		y, _ := b.AsNumber()
		return x < y
	}
	if x, ok := a.AsDate(); ok {
		y, _ := b.AsDate()
		return x.Before(y)
	}
	x, _ := a.AsString()
	y, _ := b.AsString()
	return x < y
}

// Clone returns an independent deep copy.
func (dt *DataTable) Clone() *DataTable {
	out := &DataTable{
		cols:  make([]Column, len(dt.cols)),
		rows:  make([]row, len(dt.rows)),
		props: dt.props.Clone(),
	}
	for i, c := range dt.cols {
		c.Properties = c.Properties.Clone()
		out.cols[i] = c
	}
	for i, r := range dt.rows {
		cells := make([]Cell, len(r.cells))
		for j, c := range r.cells {
			cells[j] = Cell{Value: c.Value.Clone(), Formatted: c.Formatted, Properties: c.Properties.Clone()}
		}
		out.rows[i] = row{cells: cells, props: r.props.Clone()}
	}
	return out
}

func (dt *DataTable) inRange(r, c int) bool {
	return r >= 0 && r < len(dt.rows) && c >= 0 && c < len(dt.cols)
}

func (dt *DataTable) toCell(col int, x any) (Cell, error) {
	cell, ok := x.(Cell)
	if !ok {
		if p, isPtr := x.(*Cell); isPtr && p != nil {
			cell = *p
		} else {
			cell = Cell{Value: gviz.FromAny(x)}
		}
	}
	v, err := coerce(dt.cols[col].Type, cell.Value)
	if err != nil {
		return Cell{}, errors.Wrapf(err, "column %d", col)
	}
	cell.Value = v
	return cell, nil
}

// coerce checks v against t. Date columns accept date strings and timeofday
// columns accept a time.Time, both converted to the canonical form.
func coerce(t ColumnType, v gviz.Value) (gviz.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch t {
	case Boolean, Number, String:
		want := map[ColumnType]gviz.Kind{Boolean: gviz.KindBool, Number: gviz.KindNumber, String: gviz.KindString}[t]
		if v.Kind() == want {
			return v, nil
		}
	case Date, DateTime:
		if v.Kind() == gviz.KindDate {
			return v, nil
		}
		if s, ok := v.AsString(); ok {
			if d, ok := codec.ParseDateCell(s); ok {
				return gviz.Date(d), nil
			}
		}
	case TimeOfDay:
		if v.Kind() == gviz.KindDate {
			d, _ := v.AsDate()
			d = d.UTC()
			return gviz.Numbers(float64(d.Hour()), float64(d.Minute()), float64(d.Second()), float64(d.Nanosecond()/int(time.Millisecond))), nil
		}
		if isTimeOfDay(v) {
			return v, nil
		}
	}
	return gviz.Value{}, errors.Wrapf(ErrTypeMismatch, "%s value for %s column", v.Kind(), t)
}

func isTimeOfDay(v gviz.Value) bool {
	parts, ok := v.AsList()
	if !ok || len(parts) < 3 || len(parts) > 4 {
		return false
	}
	for _, p := range parts {
		if _, ok := p.AsNumber(); !ok {
			return false
		}
	}
	return true
}

func formatDefault(t ColumnType, v gviz.Value) string {
	if v.IsNull() {
		return ""
	}
	switch t {
	case Number:
		n, _ := v.AsNumber()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case Date:
		d, _ := v.AsDate()
		return d.UTC().Format("Jan 2, 2006")
	case DateTime:
		d, _ := v.AsDate()
		return d.UTC().Format("Jan 2, 2006, 3:04:05 PM")
	case TimeOfDay:
		parts, _ := v.AsList()
		out := ""
		for i, p := range parts[:3] {
			n, _ := p.AsNumber()
			if i > 0 {
				out += ":"
			}
			out += twoDigits(int(n))
		}
		return out
	}
	return v.String()
}

func twoDigits(n int) string {
	if n >= 0 && n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
