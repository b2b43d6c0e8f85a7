package datatable

import (
	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
)

var (
	ErrInvalidView     = errors.New("datatable: invalid view")
	ErrNotSerializable = errors.New("datatable: view has function columns")
)

// Named calculations understood by the browser library.
const (
	CalcIdentity    = "identity"
	CalcStringify   = "stringify"
	CalcEmptyString = "emptyString"
)

// ColumnFunction computes the value of a calculated column for one row.
type ColumnFunction func(dt *DataTable, row int) any

// ViewColumn selects or computes one column of a view. Exactly one of the
// forms applies: a source column (Calc and Func empty), a named calculation
// over SourceColumn, or a Func.
type ViewColumn struct {
	SourceColumn int
	Calc         string
	Func         ColumnFunction
	// Type, Label and ID describe calculated columns. Type is required for
	// Func columns.
	Type  ColumnType
	Label string
	ID    string
}

// Col selects source column i.
func Col(i int) ViewColumn { return ViewColumn{SourceColumn: i} }

// Calc applies a named calculation to source column i.
func Calc(name string, i int, label string) ViewColumn {
	return ViewColumn{SourceColumn: i, Calc: name, Label: label}
}

// Func computes a column with fn. Such views cannot be serialized.
func Func(fn ColumnFunction, t ColumnType, label string) ViewColumn {
	return ViewColumn{SourceColumn: -1, Func: fn, Type: t, Label: label}
}

// View is a read-only projection of a table: a column selection with optional
// calculated columns, and a row selection. Nil Columns or Rows select all.
type View struct {
	Columns []ViewColumn
	Rows    []int
}

// NewView returns a view selecting everything.
func NewView() *View { return &View{} }

// SetColumns selects source columns by index.
func (v *View) SetColumns(cols ...int) *View {
	v.Columns = make([]ViewColumn, len(cols))
	for i, c := range cols {
		v.Columns[i] = Col(c)
	}
	return v
}

// AddColumn appends a column selection or calculation.
func (v *View) AddColumn(c ViewColumn) *View {
	v.Columns = append(v.Columns, c)
	return v
}

// SetRows selects rows by index.
func (v *View) SetRows(rows ...int) *View {
	v.Rows = append([]int{}, rows...)
	return v
}

// Serializable reports whether the view has no function columns.
func (v *View) Serializable() bool {
	for _, c := range v.Columns {
		if c.Func != nil {
			return false
		}
	}
	return true
}

// Apply materializes the view over dt into a new table. Source cells keep
// their formatted values and properties.
func (v *View) Apply(dt *DataTable) (*DataTable, error) {
	rows := v.Rows
	if rows == nil {
		rows = make([]int, dt.NumberOfRows())
		for i := range rows {
			rows[i] = i
		}
	}
	for _, r := range rows {
		if r < 0 || r >= dt.NumberOfRows() {
			return nil, errors.Wrapf(ErrInvalidView, "row %d of %d", r, dt.NumberOfRows())
		}
	}
	cols := v.Columns
	if cols == nil {
		cols = make([]ViewColumn, dt.NumberOfColumns())
		for i := range cols {
			cols[i] = Col(i)
		}
	}

	out := New()
	for i, c := range cols {
		spec, err := viewColumnSpec(dt, c)
		if err != nil {
			return nil, errors.Wrapf(err, "view column %d", i)
		}
		if _, err := out.AddColumnSpec(spec); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "view column %d", i), ErrInvalidView)
		}
	}
	for _, r := range rows {
		cells := make([]any, len(cols))
		for i, c := range cols {
			cells[i] = viewCell(dt, c, r)
		}
		n, err := out.AddRow(cells...)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "row %d", r), ErrInvalidView)
		}
		if p := dt.rows[r].props; p.Len() > 0 {
			out.rows[n].props = p.Clone()
		}
	}
	if dt.props.Len() > 0 {
		out.props = dt.props.Clone()
	}
	return out, nil
}

// ApplyViews applies views in order, each to the result of the previous one.
func ApplyViews(dt *DataTable, views []*View) (*DataTable, error) {
	cur := dt
	for i, v := range views {
		next, err := v.Apply(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "view %d", i)
		}
		cur = next
	}
	return cur, nil
}

func viewColumnSpec(dt *DataTable, c ViewColumn) (Column, error) {
	if c.Func != nil {
		if _, ok := FindColumnTypeByName(string(c.Type)); !ok {
			return Column{}, errors.Wrapf(ErrInvalidView, "function column needs a type, got %q", c.Type)
		}
		return Column{Type: c.Type, Label: c.Label, ID: c.ID}, nil
	}
	src, ok := dt.Column(c.SourceColumn)
	if !ok {
		return Column{}, errors.Wrapf(ErrInvalidView, "source column %d of %d", c.SourceColumn, dt.NumberOfColumns())
	}
	switch c.Calc {
	case "":
		src.Properties = src.Properties.Clone()
		return src, nil
	case CalcIdentity:
		return Column{Type: src.Type, Label: pick(c.Label, src.Label), ID: c.ID}, nil
	case CalcStringify, CalcEmptyString:
		return Column{Type: String, Label: pick(c.Label, src.Label), ID: c.ID}, nil
	}
	return Column{}, errors.Wrapf(ErrInvalidView, "unknown calc %q", c.Calc)
}

func viewCell(dt *DataTable, c ViewColumn, r int) any {
	if c.Func != nil {
		return c.Func(dt, r)
	}
	switch c.Calc {
	case CalcIdentity:
		return dt.Value(r, c.SourceColumn)
	case CalcStringify:
		return dt.FormattedValue(r, c.SourceColumn)
	case CalcEmptyString:
		return ""
	}
	cell, _ := dt.Cell(r, c.SourceColumn)
	cell.Properties = cell.Properties.Clone()
	return cell
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ToBag returns the view initializer understood by the browser library,
// {"columns":[0,{"calc":"stringify","sourceColumn":1}],"rows":[...]}.
func (v *View) ToBag() (*gviz.Bag, error) {
	b := gviz.NewBag()
	if v.Columns != nil {
		cols := make([]gviz.Value, len(v.Columns))
		for i, c := range v.Columns {
			switch {
			case c.Func != nil:
				return nil, errors.Wrapf(ErrNotSerializable, "column %d", i)
			case c.Calc == "":
				cols[i] = gviz.Number(float64(c.SourceColumn))
			default:
				cb := gviz.NewBag()
				cb.SetString("calc", c.Calc)
				cb.SetNumber("sourceColumn", float64(c.SourceColumn))
				if c.Type != "" {
					cb.SetString("type", string(c.Type))
				}
				if c.Label != "" {
					cb.SetString("label", c.Label)
				}
				if c.ID != "" {
					cb.SetString("id", c.ID)
				}
				cols[i] = gviz.Object(cb)
			}
		}
		b.SetList("columns", cols...)
	}
	if v.Rows != nil {
		rows := make([]float64, len(v.Rows))
		for i, r := range v.Rows {
			rows[i] = float64(r)
		}
		b.SetValue("rows", gviz.Numbers(rows...))
	}
	return b, nil
}

// ToJSON serializes the view initializer. Views with function columns fail
// with ErrNotSerializable.
func (v *View) ToJSON() (string, error) {
	b, err := v.ToBag()
	if err != nil {
		return "", err
	}
	return b.ToJSON(), nil
}

// MarshalJSON implements json.Marshaler.
func (v *View) MarshalJSON() ([]byte, error) {
	b, err := v.ToBag()
	if err != nil {
		return nil, err
	}
	return b.MarshalJSON()
}

// ParseView reads a view initializer. A bare array is taken as the column
// list, as the browser library accepts for setView.
func ParseView(data []byte) (*View, error) {
	val, err := gviz.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return ViewFromValue(val)
}

// ViewFromValue reads a view from a decoded initializer.
func ViewFromValue(val gviz.Value) (*View, error) {
	if list, ok := val.AsList(); ok {
		b := gviz.NewBag()
		b.SetList("columns", list...)
		val = gviz.Object(b)
	}
	b, ok := val.AsObject()
	if !ok {
		return nil, errors.Wrapf(ErrInvalidView, "expected object, got %s", val.Kind())
	}
	v := NewView()
	if cols, ok := b.Value("columns"); ok {
		list, _ := cols.AsList()
		v.Columns = make([]ViewColumn, 0, len(list))
		for i, c := range list {
			if n, ok := c.AsNumber(); ok {
				v.Columns = append(v.Columns, Col(int(n)))
				continue
			}
			cb, ok := c.AsObject()
			if !ok {
				return nil, errors.Wrapf(ErrInvalidView, "columns[%d]: %s", i, c.Kind())
			}
			v.Columns = append(v.Columns, ViewColumn{
				SourceColumn: cb.GetInt("sourceColumn"),
				Calc:         cb.GetString("calc"),
				Type:         ColumnType(cb.GetString("type")),
				Label:        cb.GetString("label"),
				ID:           cb.GetString("id"),
			})
		}
	}
	if rows, ok := b.Value("rows"); ok {
		list, _ := rows.AsList()
		v.Rows = make([]int, 0, len(list))
		for i, r := range list {
			n, ok := r.AsNumber()
			if !ok {
				return nil, errors.Wrapf(ErrInvalidView, "rows[%d]: %s", i, r.Kind())
			}
			v.Rows = append(v.Rows, int(n))
		}
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *View) UnmarshalJSON(data []byte) error {
	parsed, err := ParseView(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}
