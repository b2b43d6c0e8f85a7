// Package render draws charts as HTML that boots the browser library's
// ChartWrapper. A Page is a chart.Engine: every wrapper drawn through it
// becomes one container fragment of the page.
package render

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/event"
	"github.com/reoring/gviz/logger"
	"github.com/reoring/gviz/options"
)

// DefaultLoaderURL is the browser library loader.
const DefaultLoaderURL = "https://www.gstatic.com/charts/loader.js"

// Config controls the generated document.
type Config struct {
	Title     string
	LoaderURL string
	Packages  []string // loaded in addition to the packages of the drawn charts
	Language  string
	// BridgePath is the websocket path browser events are posted to, for
	// example /ws/sales. Empty disables the bridge; ready then fires as soon
	// as the fragment is produced.
	BridgePath string
}

// Page collects drawn charts. It is safe for concurrent use.
type Page struct {
	cfg Config
	log *zap.SugaredLogger

	mu      sync.Mutex
	order   []string
	charts  map[string]*drawn
	senders map[int]func([]byte) error
	nextID  int
}

type drawn struct {
	fragment  template.HTML
	chartType options.ChartType
	handle    *Handle
}

// NewPage returns an empty page.
func NewPage(cfg Config) *Page {
	if cfg.LoaderURL == "" {
		cfg.LoaderURL = DefaultLoaderURL
	}
	return &Page{
		cfg:     cfg,
		log:     logger.ComponentLogger("render"),
		charts:  make(map[string]*drawn),
		senders: make(map[int]func([]byte) error),
	}
}

// Config returns the page configuration.
func (p *Page) Config() Config { return p.cfg }

// Draw implements chart.Engine. Drawing a container again replaces its
// fragment, keeps its handle and pushes the new data to attached browsers.
func (p *Page) Draw(ctx context.Context, req *chart.Request, sink chart.Sink) (chart.Handle, error) {
	wire := req.Spec
	wire.DataTable = req.Data
	wire.Views = nil
	// the data was resolved server side
	wire.DataSourceURL, wire.Query, wire.RefreshInterval = "", "", 0
	specJSON, err := wire.ToJSON()
	if err != nil {
		return nil, errors.Wrap(err, "encode chart")
	}

	var buf bytes.Buffer
	err = fragmentTmpl.Execute(&buf, struct {
		ID     string
		Spec   string
		Bridge bool
	}{req.ContainerID, specJSON, p.cfg.BridgePath != ""})
	if err != nil {
		return nil, errors.Wrap(err, "render fragment")
	}
	t, _ := options.FindChartTypeByName(req.ChartType)

	p.mu.Lock()
	d, redraw := p.charts[req.ContainerID]
	if !redraw {
		d = &drawn{handle: newHandle(req.ContainerID)}
		p.charts[req.ContainerID] = d
		p.order = append(p.order, req.ContainerID)
	}
	d.fragment = template.HTML(buf.String())
	d.chartType = t
	d.handle.setSink(sink)
	senders := p.sendersLocked()
	p.mu.Unlock()

	logger.FromContext(ctx, p.log).Debugw("fragment rendered",
		logger.FieldContainer, req.ContainerID,
		logger.FieldChartType, req.ChartType,
		"redraw", redraw)

	if redraw && len(senders) > 0 {
		msg := gviz.NewBag()
		msg.SetString("type", "draw")
		msg.SetString("id", req.ContainerID)
		msg.SetObject("dataTable", req.Data.ToBag())
		msg.SetObject("options", req.Options)
		payload := []byte(msg.ToJSON())
		for _, send := range senders {
			if err := send(payload); err != nil {
				p.log.Debugw("push failed", logger.FieldContainer, req.ContainerID, logger.FieldError, err)
			}
		}
	}
	if p.cfg.BridgePath == "" {
		sink.Ready()
	}
	return d.handle, nil
}

func (p *Page) sendersLocked() []func([]byte) error {
	out := make([]func([]byte) error, 0, len(p.senders))
	for _, s := range p.senders {
		out = append(out, s)
	}
	return out
}

// Attach registers a browser connection that receives redraws. The returned
// function detaches it.
func (p *Page) Attach(send func([]byte) error) (detach func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.senders[id] = send
	return func() {
		p.mu.Lock()
		delete(p.senders, id)
		p.mu.Unlock()
	}
}

// Handle returns the handle of a drawn container.
func (p *Page) Handle(containerID string) (*Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.charts[containerID]
	if !ok {
		return nil, false
	}
	return d.handle, true
}

// Fragment returns the HTML of one drawn container.
func (p *Page) Fragment(containerID string) (template.HTML, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.charts[containerID]
	if !ok {
		return "", false
	}
	return d.fragment, true
}

// Len returns the number of drawn containers.
func (p *Page) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// Dispatch delivers one bridge message from the browser, for example
// {"id":"c1","type":"select","selection":[{"row":1,"column":null}]}.
func (p *Page) Dispatch(msg []byte) error {
	b, err := gviz.ParseJSON(msg)
	if err != nil {
		return errors.Wrap(err, "decode bridge message")
	}
	id := b.GetString("id")
	h, ok := p.Handle(id)
	if !ok {
		return errors.Newf("unknown container %q", id)
	}
	h.dispatch(b)
	return nil
}

// WriteTo writes the complete HTML document.
func (p *Page) WriteTo(w io.Writer) (int64, error) {
	p.mu.Lock()
	frags := make([]template.HTML, 0, len(p.order))
	pkgs := map[string]bool{}
	for _, pkg := range p.cfg.Packages {
		pkgs[pkg] = true
	}
	for _, id := range p.order {
		d := p.charts[id]
		frags = append(frags, d.fragment)
		if pkg := d.chartType.Package(); pkg != "" {
			pkgs[pkg] = true
		}
	}
	p.mu.Unlock()
	if len(pkgs) == 0 {
		pkgs["corechart"] = true
	}
	packages := make([]string, 0, len(pkgs))
	for pkg := range pkgs {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	var bridge template.HTML
	if p.cfg.BridgePath != "" {
		var buf bytes.Buffer
		if err := bridgeTmpl.Execute(&buf, p.cfg.BridgePath); err != nil {
			return 0, errors.Wrap(err, "render bridge")
		}
		bridge = template.HTML(buf.String())
	}

	cw := &countingWriter{w: w}
	err := pageTmpl.Execute(cw, struct {
		Title     string
		LoaderURL string
		Packages  []string
		Language  string
		Bridge    template.HTML
		Fragments []template.HTML
	}{p.cfg.Title, p.cfg.LoaderURL, packages, p.cfg.Language, bridge, frags})
	return cw.n, errors.Wrap(err, "render page")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// Handle is the engine-side view of one drawn container.
type Handle struct {
	id        string
	listeners *event.Registry

	mu   sync.Mutex
	sink chart.Sink
	sel  []chart.Selection
}

var _ chart.Handle = (*Handle)(nil)

func newHandle(id string) *Handle {
	return &Handle{id: id, listeners: event.NewRegistry()}
}

func (h *Handle) setSink(s chart.Sink) {
	h.mu.Lock()
	h.sink = s
	h.mu.Unlock()
}

// ID returns the container id.
func (h *Handle) ID() string { return h.id }

func (h *Handle) Selection() []chart.Selection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]chart.Selection(nil), h.sel...)
}

func (h *Handle) AddListener(name string, fn event.Handler) event.Ref {
	return h.listeners.Add(name, fn)
}

func (h *Handle) RemoveListener(ref event.Ref) bool { return h.listeners.Remove(ref) }

func (h *Handle) dispatch(b *gviz.Bag) {
	h.mu.Lock()
	sink := h.sink
	h.mu.Unlock()

	name := b.GetString("type")
	switch name {
	case event.Ready:
		sink.Ready()
	case event.Select:
		sel := parseSelection(b.GetList("selection"))
		h.mu.Lock()
		h.sel = sel
		h.mu.Unlock()
		sink.Select(sel)
	case event.Error:
		sink.Error(b.GetString("message"), b.GetString("reason"))
	default:
		name = b.GetString("name", name)
		sink.Event(name, b.GetObject("properties"))
	}
	h.listeners.Trigger(name, b.GetObject("properties"))
}

func parseSelection(list []gviz.Value) []chart.Selection {
	out := make([]chart.Selection, 0, len(list))
	for _, v := range list {
		o, ok := v.AsObject()
		if !ok {
			continue
		}
		out = append(out, chart.Selection{Row: o.GetInt("row", -1), Column: o.GetInt("column", -1)})
	}
	return out
}
