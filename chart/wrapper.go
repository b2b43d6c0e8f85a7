// Package chart provides the chart wrapper: one chart's type, container,
// options, data and views, drawn through an Engine and observed through
// ready, error and select handlers.
package chart

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/datasource"
	"github.com/reoring/gviz/datatable"
	"github.com/reoring/gviz/event"
	"github.com/reoring/gviz/i18n"
	"github.com/reoring/gviz/logger"
	"github.com/reoring/gviz/options"
)

// Reason codes carried by error events.
const (
	ReasonNoData           = "no_data"
	ReasonUnknownChartType = "unknown_chart_type"
	ReasonDataSource       = "data_source_error"
	ReasonInvalidView      = "invalid_view"
	ReasonRender           = "render_error"
)

// ErrorEvent is the payload of an error event.
type ErrorEvent struct {
	ID      string // container id of the failing chart
	Message string
	Reason  string
	Detail  string
}

// Wrapper holds one chart's configuration and dispatches its events.
// Methods are safe for concurrent use. The bag returned by Options is live
// and, like any Bag, must not be mutated concurrently.
type Wrapper struct {
	mu       sync.Mutex
	spec     Spec
	engine   Engine
	client   *datasource.Client
	log      *zap.SugaredLogger
	handlers *event.Registry
	handle   Handle
	poller   *datasource.Poller
	lastSel  []Selection
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithEngine sets the engine used by Draw.
func WithEngine(e Engine) Option { return func(w *Wrapper) { w.engine = e } }

// WithClient sets the data source client.
func WithClient(c *datasource.Client) Option { return func(w *Wrapper) { w.client = c } }

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(w *Wrapper) { w.log = l } }

// WithContainerID sets the container id instead of generating one.
func WithContainerID(id string) Option { return func(w *Wrapper) { w.spec.ContainerID = id } }

// NewContainerID returns a fresh unique container id.
func NewContainerID() string { return "gviz-" + uuid.NewString() }

// New returns an empty wrapper with a generated container id.
func New(opts ...Option) *Wrapper {
	return NewFromSpec(Spec{}, opts...)
}

// NewFromSpec returns a wrapper initialized from a copy of s. A missing
// container id is generated.
func NewFromSpec(s Spec, opts ...Option) *Wrapper {
	w := &Wrapper{
		spec:     s.Clone(),
		handlers: event.NewRegistry(),
		log:      logger.ComponentLogger("chart"),
	}
	for _, o := range opts {
		o(w)
	}
	if w.spec.ContainerID == "" {
		w.spec.ContainerID = NewContainerID()
	}
	if w.client == nil {
		w.client = datasource.NewClient()
	}
	return w
}

// Parse returns a wrapper from its JSON specification.
func Parse(data []byte, opts ...Option) (*Wrapper, error) {
	s, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return NewFromSpec(s, opts...), nil
}

// SetEngine replaces the engine used by later draws.
func (w *Wrapper) SetEngine(e Engine) {
	w.mu.Lock()
	w.engine = e
	w.mu.Unlock()
}

// Spec returns a copy of the current configuration.
func (w *Wrapper) Spec() Spec {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.Clone()
}

func (w *Wrapper) ChartType() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.ChartType
}

// SetChartType sets the chart class name, for example "LineChart".
func (w *Wrapper) SetChartType(t string) {
	w.mu.Lock()
	w.spec.ChartType = t
	w.mu.Unlock()
}

func (w *Wrapper) ContainerID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.ContainerID
}

// SetContainerID sets the container id; an empty id generates a new one.
func (w *Wrapper) SetContainerID(id string) {
	if id == "" {
		id = NewContainerID()
	}
	w.mu.Lock()
	w.spec.ContainerID = id
	w.mu.Unlock()
}

func (w *Wrapper) ChartName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.ChartName
}

func (w *Wrapper) SetChartName(name string) {
	w.mu.Lock()
	w.spec.ChartName = name
	w.mu.Unlock()
}

// Options returns the live option bag.
func (w *Wrapper) Options() *gviz.Bag {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.Options
}

// ChartOptions returns the typed facade over the live option bag.
func (w *Wrapper) ChartOptions() *options.Options { return options.Wrap(w.Options()) }

// SetOptions replaces the option bag. The bag is kept by reference; nil
// clears all options.
func (w *Wrapper) SetOptions(b *gviz.Bag) {
	if b == nil {
		b = gviz.NewBag()
	}
	w.mu.Lock()
	w.spec.Options = b
	w.mu.Unlock()
}

// SetOption writes one option by qualified key, for example
// SetOption("vAxis.title", "Sales"). A nil value unsets the key.
func (w *Wrapper) SetOption(key string, v any) { w.Options().SetValue(key, gviz.FromAny(v)) }

// Option reads one option by qualified key; missing keys give null.
func (w *Wrapper) Option(key string) gviz.Value {
	v, _ := w.Options().Value(key)
	return v
}

// DataTable returns the inline table, or nil.
func (w *Wrapper) DataTable() *datatable.DataTable {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.DataTable
}

// SetDataTable sets the inline table. The table is kept by reference.
func (w *Wrapper) SetDataTable(dt *datatable.DataTable) {
	w.mu.Lock()
	w.spec.DataTable = dt
	w.mu.Unlock()
}

// SetDataTableArray sets the inline table from a two-dimensional array
// whose first row holds the column headers.
func (w *Wrapper) SetDataTableArray(data [][]any) error {
	dt, err := datatable.FromArray(data, false)
	if err != nil {
		return err
	}
	w.SetDataTable(dt)
	return nil
}

// SetDataTableJSON sets the inline table from a table literal or an array.
func (w *Wrapper) SetDataTableJSON(data []byte) error {
	v, err := gviz.DecodeJSON(data)
	if err != nil {
		return err
	}
	dt, err := tableFromValue(v)
	if err != nil {
		return err
	}
	w.SetDataTable(dt)
	return nil
}

func (w *Wrapper) DataSourceURL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.DataSourceURL
}

// SetDataSourceURL sets the remote data source. When set it takes
// precedence over the inline table.
func (w *Wrapper) SetDataSourceURL(u string) {
	w.mu.Lock()
	w.spec.DataSourceURL = u
	w.mu.Unlock()
}

func (w *Wrapper) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.Query
}

func (w *Wrapper) SetQuery(q string) {
	w.mu.Lock()
	w.spec.Query = q
	w.mu.Unlock()
}

func (w *Wrapper) RefreshInterval() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.RefreshInterval
}

// SetRefreshInterval sets the data source polling period in seconds.
// Negative values are stored as 0, which disables polling.
func (w *Wrapper) SetRefreshInterval(sec int) {
	w.mu.Lock()
	w.spec.RefreshInterval = max(sec, 0)
	w.mu.Unlock()
}

// View returns the first view, or nil.
func (w *Wrapper) View() *datatable.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.spec.Views) == 0 {
		return nil
	}
	return w.spec.Views[0]
}

// Views returns the views applied in order before drawing.
func (w *Wrapper) Views() []*datatable.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*datatable.View(nil), w.spec.Views...)
}

// SetView sets a single view; nil clears all views.
func (w *Wrapper) SetView(v *datatable.View) {
	if v == nil {
		w.SetViews()
		return
	}
	w.SetViews(v)
}

// SetViews sets the view chain. Each view applies to the previous result;
// nil views are skipped.
func (w *Wrapper) SetViews(vs ...*datatable.View) {
	var views []*datatable.View
	for _, v := range vs {
		if v != nil {
			views = append(views, v)
		}
	}
	w.mu.Lock()
	w.spec.Views = views
	w.mu.Unlock()
}

// SetViewJSON sets the views from a view initializer or a list of them.
func (w *Wrapper) SetViewJSON(data []byte) error {
	v, err := gviz.DecodeJSON(data)
	if err != nil {
		return err
	}
	views, err := viewsFromValue(v)
	if err != nil {
		return err
	}
	w.SetViews(views...)
	return nil
}

// Chart returns the engine handle of the last successful draw, or nil.
func (w *Wrapper) Chart() Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle
}

// Selection returns the current selection of the drawn chart.
func (w *Wrapper) Selection() []Selection {
	w.mu.Lock()
	h, last := w.handle, w.lastSel
	w.mu.Unlock()
	if h != nil {
		return h.Selection()
	}
	return append([]Selection(nil), last...)
}

// Clone returns a wrapper with a deep copy of the configuration and the same
// engine and client. Handlers are not copied.
func (w *Wrapper) Clone() *Wrapper {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &Wrapper{
		spec:     w.spec.Clone(),
		engine:   w.engine,
		client:   w.client,
		log:      w.log,
		handlers: event.NewRegistry(),
	}
}

// ToBag returns the wrapper specification.
func (w *Wrapper) ToBag() (*gviz.Bag, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spec.ToBag()
}

// ToJSON serializes the wrapper. It fails only when a view holds a function
// column.
func (w *Wrapper) ToJSON() (string, error) {
	b, err := w.ToBag()
	if err != nil {
		return "", err
	}
	return b.ToJSON(), nil
}

// MarshalJSON implements json.Marshaler.
func (w *Wrapper) MarshalJSON() ([]byte, error) {
	b, err := w.ToBag()
	if err != nil {
		return nil, err
	}
	return b.MarshalJSON()
}

// UnmarshalJSON replaces the configuration. Handlers and the engine are
// kept.
func (w *Wrapper) UnmarshalJSON(data []byte) error {
	s, err := ParseSpec(data)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handlers == nil {
		w.handlers = event.NewRegistry()
		w.log = logger.ComponentLogger("chart")
		w.client = datasource.NewClient()
	}
	if s.ContainerID == "" {
		s.ContainerID = NewContainerID()
	}
	w.spec = s
	return nil
}

// Close stops data source polling. The wrapper stays usable; a later Draw
// starts polling again.
func (w *Wrapper) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopPollerLocked()
}

func (w *Wrapper) stopPollerLocked() {
	if w.poller != nil {
		w.poller.Stop()
		w.poller = nil
	}
}

func (w *Wrapper) registry() *event.Registry {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handlers == nil {
		w.handlers = event.NewRegistry()
	}
	return w.handlers
}

// Trigger dispatches a named event to the wrapper's handlers and returns how
// many ran.
func (w *Wrapper) Trigger(name string, props *gviz.Bag) int {
	return w.registry().Trigger(name, props)
}

// AddHandler registers fn for any named event.
func (w *Wrapper) AddHandler(name string, fn event.Handler) event.Ref {
	return w.registry().Add(name, fn)
}

// AddReadyHandler registers fn for the ready event, fired after each
// successful draw.
func (w *Wrapper) AddReadyHandler(fn func()) event.Ref {
	if fn == nil {
		return event.Ref{}
	}
	return w.AddHandler(event.Ready, func(event.Event) { fn() })
}

// AddErrorHandler registers fn for the error event.
func (w *Wrapper) AddErrorHandler(fn func(ErrorEvent)) event.Ref {
	if fn == nil {
		return event.Ref{}
	}
	return w.AddHandler(event.Error, func(e event.Event) {
		fn(ErrorEvent{
			ID:      e.Properties.GetString("id"),
			Message: e.Properties.GetString("message"),
			Reason:  e.Properties.GetString("reason"),
			Detail:  e.Properties.GetString("detailedMessage"),
		})
	})
}

// AddSelectHandler registers fn for the select event. fn receives the
// selection current at dispatch.
func (w *Wrapper) AddSelectHandler(fn func([]Selection)) event.Ref {
	if fn == nil {
		return event.Ref{}
	}
	return w.AddHandler(event.Select, func(event.Event) { fn(w.Selection()) })
}

// RemoveHandler removes exactly the handler behind ref.
func (w *Wrapper) RemoveHandler(ref event.Ref) bool { return w.registry().Remove(ref) }

// RemoveAllHandlers removes every handler registered through the wrapper.
// Listeners added directly on the engine handle are not affected.
func (w *Wrapper) RemoveAllHandlers() { w.registry().RemoveAll() }

// Draw resolves the data, applies the views and hands the result to the
// engine. Failures are reported through the error event, never returned.
// A chart backed by a data source with a refresh interval keeps redrawing
// until Close or the next Draw.
func (w *Wrapper) Draw(ctx context.Context) {
	w.mu.Lock()
	w.stopPollerLocked()
	spec := w.spec.Clone()
	engine, client := w.engine, w.client
	w.mu.Unlock()

	ctx = logger.WithRequestID(ctx, spec.ContainerID)
	log := logger.FromContext(ctx, w.log).With(logger.FieldChartType, spec.ChartType)

	t, ok := options.FindChartTypeByName(spec.ChartType)
	if !ok {
		props := gviz.NewBag()
		if s, ok := options.SuggestChartType(spec.ChartType); ok {
			props.SetString("suggestion", s.Name())
		}
		w.fail(ReasonUnknownChartType, map[string]string{"type": spec.ChartType}, "", props)
		return
	}
	spec.ChartType = t.Name()

	var data *datatable.DataTable
	switch {
	case spec.DataSourceURL != "":
		dt, err := client.Query(ctx, spec.DataSourceURL, spec.Query)
		if err != nil {
			w.failQuery(spec.DataSourceURL, err)
			return
		}
		data = dt
	case spec.DataTable != nil:
		data = spec.DataTable
	default:
		w.fail(ReasonNoData, nil, "", nil)
		return
	}

	if !w.render(ctx, engine, spec, data) {
		return
	}
	log.Debugw("chart drawn", logger.FieldCount, data.NumberOfRows())

	if spec.DataSourceURL != "" && spec.RefreshInterval > 0 {
		w.startPoller(ctx, engine, client, spec)
	}
}

// OnResize redraws a chart that has been drawn before.
func (w *Wrapper) OnResize(ctx context.Context) {
	if w.Chart() == nil {
		return
	}
	w.Draw(ctx)
}

func (w *Wrapper) render(ctx context.Context, engine Engine, spec Spec, data *datatable.DataTable) bool {
	view, err := datatable.ApplyViews(data, spec.Views)
	if err != nil {
		w.fail(ReasonInvalidView, map[string]string{"detail": err.Error()}, err.Error(), nil)
		return false
	}
	if engine == nil {
		w.fail(ReasonRender, map[string]string{"detail": "no engine"}, "no engine", nil)
		return false
	}
	h, err := engine.Draw(ctx, &Request{Spec: spec, Data: view}, sink{w})
	if err != nil {
		w.fail(ReasonRender, map[string]string{"detail": err.Error()}, err.Error(), nil)
		return false
	}
	w.mu.Lock()
	w.handle = h
	w.mu.Unlock()
	return true
}

func (w *Wrapper) startPoller(ctx context.Context, engine Engine, client *datasource.Client, spec Spec) {
	every := time.Duration(spec.RefreshInterval) * time.Second
	p := datasource.NewPoller(client, spec.DataSourceURL, spec.Query, every, func(dt *datatable.DataTable, err error) {
		if err != nil {
			w.failQuery(spec.DataSourceURL, err)
			return
		}
		w.render(ctx, engine, spec, dt)
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.poller != nil {
		// a concurrent Draw got here first
		return
	}
	w.poller = p
	p.Start(context.WithoutCancel(ctx))
	w.log.Debugw("polling data source",
		logger.FieldURL, spec.DataSourceURL,
		logger.FieldInterval, every.String())
}

func (w *Wrapper) failQuery(url string, err error) {
	detail := err.Error()
	var qe *datasource.QueryError
	if errors.As(err, &qe) {
		detail = qe.Message
		if qe.Detail != "" {
			detail += ": " + qe.Detail
		}
	}
	w.fail(ReasonDataSource, map[string]string{"url": url, "detail": detail}, detail, nil)
}

// fail fires the error event for reason with a localized message.
func (w *Wrapper) fail(reason string, data map[string]string, detail string, props *gviz.Bag) {
	msg := i18n.T(reason, data)
	w.log.Warnw("draw failed", logger.FieldReason, reason, logger.FieldError, msg)
	w.dispatchError(msg, reason, detail, props)
}

func (w *Wrapper) dispatchError(message, reason, detail string, props *gviz.Bag) {
	if props == nil {
		props = gviz.NewBag()
	}
	props.SetString("id", w.ContainerID())
	props.SetString("message", message)
	if reason != "" {
		props.SetString("reason", reason)
	}
	if detail != "" {
		props.SetString("detailedMessage", detail)
	}
	w.Trigger(event.Error, props)
}

// sink routes engine callbacks into the wrapper's registry.
type sink struct{ w *Wrapper }

func (s sink) Ready() { s.w.Trigger(event.Ready, nil) }

func (s sink) Error(message, reason string) {
	s.w.log.Warnw("engine error", logger.FieldReason, reason, logger.FieldError, message)
	s.w.dispatchError(message, reason, "", nil)
}

func (s sink) Select(sel []Selection) {
	s.w.mu.Lock()
	s.w.lastSel = append([]Selection(nil), sel...)
	s.w.mu.Unlock()
	s.w.Trigger(event.Select, nil)
}

func (s sink) Event(name string, props *gviz.Bag) { s.w.Trigger(name, props) }
