package chart

import (
	"context"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/datatable"
	"github.com/reoring/gviz/event"
)

// Selection is one selected element. Row or Column is -1 when the selection
// covers a whole column or row.
type Selection struct {
	Row    int
	Column int
}

// Request is what a wrapper hands to the engine on each draw: its
// configuration plus the data it resolved, with views already applied.
// Request values are snapshots; the engine may keep them.
type Request struct {
	Spec
	// Data is the table to draw. For data source charts it holds the
	// latest query result.
	Data *datatable.DataTable
}

// Sink receives engine callbacks. Methods may be called from any goroutine,
// during Draw or later.
type Sink interface {
	Ready()
	Error(message, reason string)
	Select(sel []Selection)
	// Event forwards any other engine event, for example onmouseover.
	Event(name string, props *gviz.Bag)
}

// Handle is a drawn chart as seen by its engine. Listeners added on a
// handle are independent of the wrapper's handler registry.
type Handle interface {
	Selection() []Selection
	AddListener(name string, fn event.Handler) event.Ref
	RemoveListener(ref event.Ref) bool
}

// Engine renders requests. A returned error is reported through the
// wrapper's error event with reason render_error.
type Engine interface {
	Draw(ctx context.Context, req *Request, sink Sink) (Handle, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, req *Request, sink Sink) (Handle, error)

func (f EngineFunc) Draw(ctx context.Context, req *Request, sink Sink) (Handle, error) {
	return f(ctx, req, sink)
}
