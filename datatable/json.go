package datatable

import (
	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
)

// ToBag returns the JSON literal structure of the table:
//
//	{"cols":[{"id","label","type","pattern","p"}],"rows":[{"c":[{"v","f","p"}],"p"}],"p"}
//
// Empty cells are null. A column role is written as p.role.
func (dt *DataTable) ToBag() *gviz.Bag {
	b := gviz.NewBag()
	cols := make([]gviz.Value, len(dt.cols))
	for i, c := range dt.cols {
		cb := gviz.NewBag()
		cb.SetString("id", c.ID)
		cb.SetString("label", c.Label)
		cb.SetString("type", string(c.Type))
		if c.Pattern != "" {
			cb.SetString("pattern", c.Pattern)
		}
		p := c.Properties.Clone()
		if c.Role != "" {
			if p == nil {
				p = gviz.NewBag()
			}
			p.SetString("role", c.Role)
		}
		if p.Len() > 0 {
			cb.SetObject("p", p)
		}
		cols[i] = gviz.Object(cb)
	}
	b.SetList("cols", cols...)

	rows := make([]gviz.Value, len(dt.rows))
	for i, r := range dt.rows {
		cells := make([]gviz.Value, len(r.cells))
		for j, c := range r.cells {
			if c.empty() {
				cells[j] = gviz.Null()
				continue
			}
			cb := gviz.NewBag()
			cb.SetValue("v", c.Value)
			if c.Formatted != "" {
				cb.SetString("f", c.Formatted)
			}
			if c.Properties.Len() > 0 {
				cb.SetObject("p", c.Properties.Clone())
			}
			cells[j] = gviz.Object(cb)
		}
		rb := gviz.NewBag()
		rb.SetList("c", cells...)
		if r.props.Len() > 0 {
			rb.SetObject("p", r.props.Clone())
		}
		rows[i] = gviz.Object(rb)
	}
	b.SetList("rows", rows...)

	if dt.props.Len() > 0 {
		b.SetObject("p", dt.props.Clone())
	}
	return b
}

// ToJSON returns the JSON literal of the table.
func (dt *DataTable) ToJSON() string { return dt.ToBag().ToJSON() }

// MarshalJSON implements json.Marshaler.
func (dt *DataTable) MarshalJSON() ([]byte, error) { return dt.ToBag().MarshalJSON() }

// UnmarshalJSON implements json.Unmarshaler, replacing the content of dt.
func (dt *DataTable) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*dt = *parsed
	return nil
}

// Parse reads a table from its JSON literal.
func Parse(data []byte, opts ...gviz.ParseOpt) (*DataTable, error) {
	b, err := gviz.ParseJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return FromBag(b)
}

// FromBag reads a table from the structure produced by ToBag. Rows may have
// fewer cells than there are columns; missing cells are empty.
func FromBag(b *gviz.Bag) (*DataTable, error) {
	dt := New()
	for i, cv := range b.GetList("cols") {
		cb, ok := cv.AsObject()
		if !ok {
			return nil, errors.Newf("datatable: cols[%d] is not an object", i)
		}
		col := Column{
			Type:    ColumnType(cb.GetString("type")),
			Label:   cb.GetString("label"),
			ID:      cb.GetString("id"),
			Pattern: cb.GetString("pattern"),
			Role:    cb.GetString("role"),
		}
		if p := cb.GetObject("p"); p != nil {
			p = p.Clone()
			if col.Role == "" {
				col.Role = p.GetString("role")
			}
			p.Delete("role")
			if p.Len() > 0 {
				col.Properties = p
			}
		}
		if _, err := dt.AddColumnSpec(col); err != nil {
			return nil, errors.Wrapf(err, "cols[%d]", i)
		}
	}

	for i, rv := range b.GetList("rows") {
		rb, ok := rv.AsObject()
		if !ok {
			return nil, errors.Newf("datatable: rows[%d] is not an object", i)
		}
		cells := rb.GetList("c")
		if len(cells) > len(dt.cols) {
			return nil, errors.Wrapf(ErrArity, "rows[%d] has %d cells for %d columns", i, len(cells), len(dt.cols))
		}
		r := row{cells: make([]Cell, len(dt.cols))}
		for j, cv := range cells {
			if cv.IsNull() {
				continue
			}
			cb, ok := cv.AsObject()
			if !ok {
				// bare values are accepted as shorthand for {"v": value}
				cb = gviz.NewBag()
				cb.SetValue("v", cv)
			}
			v, _ := cb.Value("v")
			if dt.cols[j].Type == String && v.Kind() == gviz.KindDate {
				// the literal was decoded eagerly; a string column keeps text
				v = gviz.String(v.String())
			}
			v, err := coerce(dt.cols[j].Type, v)
			if err != nil {
				return nil, errors.Wrapf(err, "rows[%d].c[%d]", i, j)
			}
			r.cells[j] = Cell{Value: v, Formatted: cb.GetString("f"), Properties: cb.GetObject("p")}
		}
		r.props = rb.GetObject("p")
		dt.rows = append(dt.rows, r)
	}
	dt.props = b.GetObject("p")
	return dt, nil
}
