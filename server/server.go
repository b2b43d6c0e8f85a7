// Package server hosts charts over HTTP. Charts come from a spec directory
// (optionally watched for changes) and from a store; each is served as an
// HTML page, as wrapper JSON, and over a websocket that carries browser
// events back into the chart's handlers.
package server

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/datasource"
	"github.com/reoring/gviz/logger"
	"github.com/reoring/gviz/middleware"
	"github.com/reoring/gviz/render"
	"github.com/reoring/gviz/store"
)

// ErrUnknownChart is returned for names found neither in the spec
// directory nor in the store.
var ErrUnknownChart = errors.New("unknown chart")

// Options configures a Server.
type Options struct {
	Addr           string
	SpecDir        string
	Watch          bool
	AllowedOrigins []string
	// Render is the page template configuration; BridgePath is filled in
	// per chart when Bridge is set.
	Render render.Config
	Bridge bool
	Store  *store.Store
	Client *datasource.Client
}

// Server serves charts.
type Server struct {
	opts Options
	log  *zap.SugaredLogger

	mu    sync.Mutex
	specs map[string]chart.Spec
	live  map[string]*instance

	watchMu  sync.Mutex
	watcher  *fsnotify.Watcher
	debounce map[string]*time.Timer
}

// instance is a chart being served: its wrapper and the page it draws into.
type instance struct {
	name    string
	page    *render.Page
	drawMu  sync.Mutex
	wrapper *chart.Wrapper
}

// New returns a server and loads the spec directory if one is set.
func New(opts Options) (*Server, error) {
	if opts.Client == nil {
		opts.Client = datasource.NewClient()
	}
	s := &Server{
		opts:     opts,
		log:      logger.ComponentLogger("server"),
		specs:    make(map[string]chart.Spec),
		live:     make(map[string]*instance),
		debounce: make(map[string]*time.Timer),
	}
	if opts.SpecDir != "" {
		if err := s.LoadDir(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Names lists the charts in the spec directory and the store.
func (s *Server) Names(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	s.mu.Lock()
	for n := range s.specs {
		seen[n] = true
	}
	s.mu.Unlock()
	if s.opts.Store != nil {
		entries, err := s.opts.Store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			seen[e.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Chart returns the live wrapper for name, creating it on first use.
// Handlers added to it observe browser events.
func (s *Server) Chart(ctx context.Context, name string) (*chart.Wrapper, error) {
	inst, err := s.instance(ctx, name)
	if err != nil {
		return nil, err
	}
	inst.drawMu.Lock()
	defer inst.drawMu.Unlock()
	return inst.wrapper, nil
}

func (s *Server) instance(ctx context.Context, name string) (*instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inst, ok := s.live[name]; ok {
		return inst, nil
	}
	spec, ok := s.specs[name]
	if !ok {
		if s.opts.Store == nil {
			return nil, errors.Wrapf(ErrUnknownChart, "%q", name)
		}
		w, err := s.opts.Store.Load(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Wrapf(ErrUnknownChart, "%q", name)
		}
		if err != nil {
			return nil, err
		}
		spec = w.Spec()
	}

	cfg := s.opts.Render
	if cfg.Title == "" {
		cfg.Title = name
	}
	if s.opts.Bridge {
		cfg.BridgePath = "/ws/" + name
	}
	inst := &instance{name: name, page: render.NewPage(cfg)}
	inst.wrapper = s.newWrapper(inst, spec)
	s.live[name] = inst
	return inst, nil
}

func (s *Server) newWrapper(inst *instance, spec chart.Spec) *chart.Wrapper {
	w := chart.NewFromSpec(spec,
		chart.WithEngine(inst.page),
		chart.WithClient(s.opts.Client),
		chart.WithLogger(s.log.With(logger.FieldChart, inst.name)))
	w.AddErrorHandler(func(e chart.ErrorEvent) {
		s.log.Warnw("chart error",
			logger.FieldChart, inst.name,
			logger.FieldReason, e.Reason,
			logger.FieldError, e.Message)
	})
	return w
}

// replace swaps the configuration of a live chart and redraws it so that
// connected browsers pick up the change. Handlers on the wrapper survive.
func (s *Server) replace(name string, spec chart.Spec) {
	s.mu.Lock()
	s.specs[name] = spec
	s.mu.Unlock()
	s.reload(name, spec)
}

func (s *Server) reload(name string, spec chart.Spec) {
	s.mu.Lock()
	inst, ok := s.live[name]
	s.mu.Unlock()
	if !ok {
		return
	}
	inst.drawMu.Lock()
	defer inst.drawMu.Unlock()
	inst.wrapper.Close()
	if spec.ContainerID == "" {
		spec.ContainerID = inst.wrapper.ContainerID()
	}
	js, err := spec.ToJSON()
	if err == nil {
		err = inst.wrapper.UnmarshalJSON([]byte(js))
	}
	if err != nil {
		s.log.Warnw("reload failed", logger.FieldChart, name, logger.FieldError, err)
		return
	}
	inst.wrapper.Draw(context.Background())
}

func (s *Server) forget(name string) {
	s.mu.Lock()
	delete(s.specs, name)
	inst, ok := s.live[name]
	delete(s.live, name)
	s.mu.Unlock()
	if ok {
		inst.wrapper.Close()
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /charts", s.handleList)
	mux.HandleFunc("GET /charts/{name}", s.handleChart)
	mux.Handle("PUT /charts/{name}", middleware.Body(middleware.DefaultParseOpt(), http.HandlerFunc(s.handlePut)))
	mux.HandleFunc("GET /ws/{name}", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debugw("request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, rec.status,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is needed by the websocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.Names(r.Context())
	if err != nil {
		s.httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(names, "\n") + "\n"))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	asJSON := strings.HasSuffix(name, ".json")
	name = strings.TrimSuffix(name, ".json")

	inst, err := s.instance(r.Context(), name)
	if err != nil {
		s.httpError(w, err)
		return
	}
	inst.drawMu.Lock()
	defer inst.drawMu.Unlock()

	if asJSON {
		js, err := inst.wrapper.ToJSON()
		if err != nil {
			s.httpError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(js))
		return
	}

	failures := make(chan chart.ErrorEvent, 1)
	ref := inst.wrapper.AddErrorHandler(func(e chart.ErrorEvent) {
		select {
		case failures <- e:
		default:
		}
	})
	inst.wrapper.Draw(r.Context())
	inst.wrapper.RemoveHandler(ref)
	select {
	case e := <-failures:
		http.Error(w, e.Message, http.StatusBadGateway)
		return
	default:
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := inst.page.WriteTo(w); err != nil {
		s.log.Warnw("write page", logger.FieldChart, name, logger.FieldError, err)
	}
}

// handlePut stores an uploaded wrapper specification and redraws the chart
// if it is being served.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.opts.Store == nil {
		http.Error(w, "no chart store configured", http.StatusNotImplemented)
		return
	}
	body, _ := middleware.BagFromContext(r.Context())
	spec, err := chart.SpecFromBag(body)
	if err != nil {
		middleware.WriteIssues(w, http.StatusUnprocessableEntity, gviz.Issues{{
			Path: "/", Code: gviz.CodeInvalidFormat, Message: err.Error(), Offset: -1,
		}})
		return
	}
	if err := s.opts.Store.Save(r.Context(), name, chart.NewFromSpec(spec)); err != nil {
		s.httpError(w, err)
		return
	}
	s.reload(name, spec)
	s.log.Infow("chart stored", logger.FieldChart, name, logger.FieldChartType, spec.ChartType)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) httpError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownChart) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.log.Errorw("request failed", logger.FieldError, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.opts.Watch && s.opts.SpecDir != "" {
		if err := s.Watch(); err != nil {
			return err
		}
	}
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infow("serving charts", logger.FieldAddress, s.opts.Addr, logger.FieldPath, s.opts.SpecDir)

	select {
	case err := <-errc:
		s.Close()
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return errors.Wrap(err, "shutdown")
}

// Close stops watching and stops every chart's polling.
func (s *Server) Close() {
	s.StopWatch()
	s.mu.Lock()
	live := make([]*instance, 0, len(s.live))
	for _, inst := range s.live {
		live = append(live, inst)
	}
	s.mu.Unlock()
	for _, inst := range live {
		inst.wrapper.Close()
	}
}
