// Package gviz provides the configuration core shared by the chart object
// model: a nested, dynamically typed property store addressed by qualified
// keys.
//
// - Value is a tagged variant (bool, number, string, date, nested Bag, list, null)
// - Bag stores Values under keys; "vAxis.title" addresses title inside the vAxis bag
// - Typed getters never fail: a missing or mistyped entry yields the default
// - Bags serialize to JSON, YAML and TOML and parse back without loss
//
// Design policy:
// - Keep the store and its wire formats in the root package; chart, data and
//   transport concerns live in subpackages (chart/, datatable/, options/, ...).
// - Token streaming and enforcement are internal (internal/engine); the JSON
//   driver is pluggable (source/).
//
// Typical usage:
//
//	opts := gviz.NewBag()
//	opts.SetString("vAxis.title", "Revenue")
//	opts.SetNumber("pointSize", 5)
//	title := opts.GetString("vAxis.title")
//	size := opts.GetNumber("lineWidth", 2) // default when unset
//
//	text := opts.ToJSON()
//	back, err := gviz.ParseJSON([]byte(text))
package gviz
