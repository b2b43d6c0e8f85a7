// Package datasource queries remote chart data sources that speak the
// visualization wire protocol (tq/tqx parameters, setResponse payloads).
package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/datatable"
	"github.com/reoring/gviz/logger"
)

// QueryError is a failed query. Reason is the protocol reason code, for
// example "access_denied" or "invalid_query"; transport failures use
// "http_error" and undecodable responses "invalid_response".
type QueryError struct {
	Reason  string
	Message string
	Detail  string
	URL     string
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("datasource: %s: %s", e.Reason, e.Message)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// maxResponseBytes caps the body read from a data source.
const maxResponseBytes = 32 << 20

// Client issues data source queries.
type Client struct {
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	log       *zap.SugaredLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithMinInterval spaces out queries issued through the client by at least d.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewClient returns a client with a 30s timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "gviz",
		log:       logger.ComponentLogger("datasource"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// QueryURL returns the request URL for query against source: tq carries the
// query and tqx requests JSON output. Existing parameters are kept.
func QueryURL(source, query string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", errors.Wrapf(err, "parse data source url %q", source)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Newf("unsupported data source scheme %q", u.Scheme)
	}
	q := u.Query()
	if query != "" {
		q.Set("tq", query)
	}
	switch tqx := q.Get("tqx"); {
	case tqx == "":
		q.Set("tqx", "out:json")
	case !strings.Contains(tqx, "out:"):
		q.Set("tqx", tqx+";out:json")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Query fetches source with the given query and returns the result table.
// Protocol errors come back as *QueryError.
func (c *Client) Query(ctx context.Context, source, query string) (*datatable.DataTable, error) {
	target, err := QueryURL(source, query)
	if err != nil {
		return nil, &QueryError{Reason: "invalid_request", Message: err.Error(), URL: source}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "wait for query slot")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/javascript")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &QueryError{Reason: "http_error", Message: err.Error(), URL: source}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &QueryError{Reason: "http_error", Message: err.Error(), URL: source}
	}
	c.log.Debugw("data source answered",
		logger.FieldURL, source,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// some servers still send a protocol error body with a failure status
		if dt, qerr := decodeResponse(body, source); qerr != nil && qerr.Reason != "invalid_response" {
			return dt, qerr
		}
		return nil, &QueryError{Reason: "http_error", Message: resp.Status, URL: source}
	}
	dt, qerr := decodeResponse(body, source)
	if qerr != nil {
		return nil, qerr
	}
	return dt, nil
}

const setResponse = "google.visualization.Query.setResponse("

// unwrap strips the anti-XSSI prefix and the setResponse(...) call.
func unwrap(body []byte) []byte {
	body = bytes.TrimSpace(body)
	body = bytes.TrimPrefix(body, []byte(")]}'"))
	body = bytes.TrimSpace(body)
	if strings.HasPrefix(string(body), "/*O_o*/") {
		body = bytes.TrimSpace(body[len("/*O_o*/"):])
	}
	if i := bytes.Index(body, []byte(setResponse)); i >= 0 {
		body = body[i+len(setResponse):]
		body = bytes.TrimSpace(body)
		body = bytes.TrimSuffix(body, []byte(";"))
		body = bytes.TrimSuffix(body, []byte(")"))
	}
	return bytes.TrimSpace(body)
}

func decodeResponse(body []byte, source string) (*datatable.DataTable, *QueryError) {
	b, err := gviz.ParseJSON(unwrap(body))
	if err != nil {
		return nil, &QueryError{Reason: "invalid_response", Message: err.Error(), URL: source}
	}
	if b.GetString("status") == "error" {
		qe := &QueryError{Reason: "unknown", Message: "query failed", URL: source}
		if errs := b.GetList("errors"); len(errs) > 0 {
			if first, ok := errs[0].AsObject(); ok {
				qe.Reason = first.GetString("reason", qe.Reason)
				qe.Message = first.GetString("message", qe.Message)
				qe.Detail = first.GetString("detailed_message")
			}
		}
		return nil, qe
	}
	tb := b.GetObject("table")
	if tb == nil {
		return nil, &QueryError{Reason: "invalid_response", Message: "response has no table", URL: source}
	}
	dt, err := datatable.FromBag(tb)
	if err != nil {
		return nil, &QueryError{Reason: "invalid_response", Message: err.Error(), URL: source}
	}
	return dt, nil
}
