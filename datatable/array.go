package datatable

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
)

// FromArray builds a table from a two-dimensional array. Unless firstRowIsData
// is set, the first row holds the headers: either plain labels or maps with
// "label", "type", "id" and "role" keys. Column types that are not declared
// are inferred from the first non-null value in the column; a column with no
// value at all is a string column.
func FromArray(data [][]any, firstRowIsData bool) (*DataTable, error) {
	if len(data) == 0 {
		return nil, errors.New("datatable: empty array")
	}
	width := len(data[0])
	headers := make([]Column, width)
	body := data
	if !firstRowIsData {
		for i, h := range data[0] {
			col, err := headerColumn(h)
			if err != nil {
				return nil, errors.Wrapf(err, "header %d", i)
			}
			headers[i] = col
		}
		body = data[1:]
	}

	for i := range headers {
		if headers[i].Type != "" {
			continue
		}
		headers[i].Type = String
		for _, r := range body {
			if i >= len(r) {
				continue
			}
			if t, ok := inferType(gviz.FromAny(r[i])); ok {
				headers[i].Type = t
				break
			}
		}
	}

	dt := New()
	for _, c := range headers {
		if _, err := dt.AddColumnSpec(c); err != nil {
			return nil, err
		}
	}
	for n, r := range body {
		if len(r) != width {
			return nil, errors.Wrapf(ErrArity, "row %d has %d values for %d columns", n, len(r), width)
		}
		if _, err := dt.AddRow(r...); err != nil {
			return nil, errors.Wrapf(err, "row %d", n)
		}
	}
	return dt, nil
}

func headerColumn(h any) (Column, error) {
	v := gviz.FromAny(h)
	if b, ok := v.AsObject(); ok {
		c := Column{
			Label: b.GetString("label"),
			ID:    b.GetString("id"),
			Role:  b.GetString("role"),
		}
		if name := b.GetString("type"); name != "" {
			t, ok := FindColumnTypeByName(name)
			if !ok {
				return Column{}, errors.Wrapf(ErrUnknownType, "%q", name)
			}
			c.Type = t
		}
		return c, nil
	}
	if v.IsNull() {
		return Column{}, nil
	}
	return Column{Label: v.String()}, nil
}

func inferType(v gviz.Value) (ColumnType, bool) {
	switch v.Kind() {
	case gviz.KindBool:
		return Boolean, true
	case gviz.KindNumber:
		return Number, true
	case gviz.KindString:
		return String, true
	case gviz.KindDate:
		d, _ := v.AsDate()
		if d.UTC().Truncate(24*time.Hour).Equal(d) {
			return Date, true
		}
		return DateTime, true
	case gviz.KindList:
		if isTimeOfDay(v) {
			return TimeOfDay, true
		}
	}
	return "", false
}
