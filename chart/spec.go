package chart

import (
	"github.com/cockroachdb/errors"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/datatable"
)

// Spec is the serializable state of a chart wrapper. Its JSON form is the
// ChartWrapper specification understood by the browser library:
//
//	{"chartType":"LineChart","containerId":"c1","options":{...},
//	 "dataTable":{"cols":[...],"rows":[...]},"view":{"columns":[0,1]}}
type Spec struct {
	ChartType       string
	ContainerID     string
	ChartName       string
	Options         *gviz.Bag
	DataTable       *datatable.DataTable
	DataSourceURL   string
	Query           string
	RefreshInterval int // seconds, 0 disables polling
	Views           []*datatable.View
}

// Clone returns a deep copy. Views are copied shallowly: function columns
// are shared. Nil views are dropped.
func (s Spec) Clone() Spec {
	c := s
	c.Options = s.Options.Clone()
	if c.Options == nil {
		c.Options = gviz.NewBag()
	}
	if s.DataTable != nil {
		c.DataTable = s.DataTable.Clone()
	}
	if s.Views != nil {
		c.Views = make([]*datatable.View, 0, len(s.Views))
		for _, v := range s.Views {
			if v == nil {
				continue
			}
			cp := *v
			cp.Columns = append([]datatable.ViewColumn(nil), v.Columns...)
			cp.Rows = append([]int(nil), v.Rows...)
			c.Views = append(c.Views, &cp)
		}
	}
	return c
}

// ToBag returns the wrapper specification. It fails only when a view holds
// a function column.
func (s Spec) ToBag() (*gviz.Bag, error) {
	b := gviz.NewBag()
	setIf := func(k, v string) {
		if v != "" {
			b.SetString(k, v)
		}
	}
	setIf("chartType", s.ChartType)
	setIf("containerId", s.ContainerID)
	setIf("chartName", s.ChartName)
	setIf("dataSourceUrl", s.DataSourceURL)
	setIf("query", s.Query)
	if s.RefreshInterval > 0 {
		b.SetNumber("refreshInterval", float64(s.RefreshInterval))
	}
	opts := s.Options.Clone()
	if opts == nil {
		opts = gviz.NewBag()
	}
	b.SetObject("options", opts)
	if s.DataTable != nil {
		b.SetObject("dataTable", s.DataTable.ToBag())
	}
	var views []*datatable.View
	for _, v := range s.Views {
		if v != nil {
			views = append(views, v)
		}
	}
	switch len(views) {
	case 0:
	case 1:
		vb, err := views[0].ToBag()
		if err != nil {
			return nil, err
		}
		b.SetObject("view", vb)
	default:
		vs := make([]gviz.Value, len(views))
		for i, v := range views {
			vb, err := v.ToBag()
			if err != nil {
				return nil, errors.Wrapf(err, "view %d", i)
			}
			vs[i] = gviz.Object(vb)
		}
		b.SetList("view", vs...)
	}
	return b, nil
}

// ToJSON serializes s as wrapper JSON.
func (s Spec) ToJSON() (string, error) {
	b, err := s.ToBag()
	if err != nil {
		return "", err
	}
	return b.ToJSON(), nil
}

// ParseSpec reads a wrapper specification from JSON.
func ParseSpec(data []byte, opts ...gviz.ParseOpt) (Spec, error) {
	b, err := gviz.ParseJSON(data, opts...)
	if err != nil {
		return Spec{}, err
	}
	return SpecFromBag(b)
}

// SpecFromBag reads a wrapper specification. dataTable may be a table
// literal, a two-dimensional array (first row holding headers) or a string
// holding either as JSON. view may be one view, a list of views, or a bare
// column list.
func SpecFromBag(b *gviz.Bag) (Spec, error) {
	s := Spec{
		ChartType:       b.GetString("chartType"),
		ContainerID:     b.GetString("containerId"),
		ChartName:       b.GetString("chartName"),
		DataSourceURL:   b.GetString("dataSourceUrl"),
		Query:           b.GetString("query"),
		RefreshInterval: b.GetInt("refreshInterval"),
		Options:         b.GetObject("options"),
	}
	if s.Options == nil {
		s.Options = gviz.NewBag()
	} else {
		s.Options = s.Options.Clone()
	}
	if v, ok := b.Value("dataTable"); ok {
		dt, err := tableFromValue(v)
		if err != nil {
			return Spec{}, errors.Wrap(err, "dataTable")
		}
		s.DataTable = dt
	}
	if v, ok := b.Value("view"); ok {
		views, err := viewsFromValue(v)
		if err != nil {
			return Spec{}, errors.Wrap(err, "view")
		}
		s.Views = views
	}
	return s, nil
}

func tableFromValue(v gviz.Value) (*datatable.DataTable, error) {
	switch v.Kind() {
	case gviz.KindObject:
		tb, _ := v.AsObject()
		return datatable.FromBag(tb)
	case gviz.KindList:
		return datatable.FromArray(arrayRows(v), false)
	case gviz.KindString:
		s, _ := v.AsString()
		inner, err := gviz.DecodeJSON([]byte(s))
		if err != nil {
			return nil, err
		}
		if inner.Kind() == gviz.KindString {
			return nil, errors.New("nested JSON string")
		}
		return tableFromValue(inner)
	}
	return nil, errors.Newf("unsupported %s", v.Kind())
}

func arrayRows(v gviz.Value) [][]any {
	rows, _ := v.AsList()
	out := make([][]any, len(rows))
	for i, r := range rows {
		if cells, ok := r.AsList(); ok {
			out[i] = make([]any, len(cells))
			for j, c := range cells {
				out[i][j] = c.Any()
			}
			continue
		}
		out[i] = []any{r.Any()}
	}
	return out
}

func viewsFromValue(v gviz.Value) ([]*datatable.View, error) {
	if list, ok := v.AsList(); ok && len(list) > 0 && allViewObjects(list) {
		views := make([]*datatable.View, len(list))
		for i, e := range list {
			vw, err := datatable.ViewFromValue(e)
			if err != nil {
				return nil, errors.Wrapf(err, "view %d", i)
			}
			views[i] = vw
		}
		return views, nil
	}
	vw, err := datatable.ViewFromValue(v)
	if err != nil {
		return nil, err
	}
	return []*datatable.View{vw}, nil
}

// allViewObjects tells a list of view initializers from a bare column list.
func allViewObjects(list []gviz.Value) bool {
	for _, e := range list {
		o, ok := e.AsObject()
		if !ok || (!o.Has("columns") && !o.Has("rows")) {
			return false
		}
	}
	return true
}
