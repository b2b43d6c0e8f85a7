// Package source switches gviz to the goccy/go-json driver when imported.
//
//	import _ "github.com/reoring/gviz/source"
package source

import (
	"github.com/reoring/gviz"
	"github.com/reoring/gviz/source/gojson"
)

// The driver lives outside the root package to avoid an import cycle.
func init() { gviz.SetJSONDriver(gojson.Driver()) }
