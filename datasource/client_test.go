package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz/datatable"
)

const okBody = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok",
"table":{"cols":[{"id":"A","label":"Year","type":"string"},{"id":"B","label":"Sales","type":"number"}],
"rows":[{"c":[{"v":"2019"},{"v":1000}]},{"c":[{"v":"2020"},{"v":1170,"f":"1,170"}]}]}});`

func TestQueryURL(t *testing.T) {
	got, err := QueryURL("https://example.com/tq?gid=3", "select A")
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "3", u.Query().Get("gid"))
	assert.Equal(t, "select A", u.Query().Get("tq"))
	assert.Equal(t, "out:json", u.Query().Get("tqx"))

	got, err = QueryURL("https://example.com/tq?tqx=reqId:1", "")
	require.NoError(t, err)
	u, _ = url.Parse(got)
	assert.Equal(t, "reqId:1;out:json", u.Query().Get("tqx"))
	assert.False(t, u.Query().Has("tq"))

	_, err = QueryURL("ftp://example.com", "")
	assert.Error(t, err)
}

func TestClientQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("tq")
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("test-agent"), WithTimeout(5*time.Second))
	dt, err := c.Query(context.Background(), srv.URL, "select A, B")
	require.NoError(t, err)
	assert.Equal(t, "select A, B", gotQuery)
	require.Equal(t, 2, dt.NumberOfColumns())
	require.Equal(t, 2, dt.NumberOfRows())
	assert.Equal(t, datatable.Number, dt.ColumnType(1))
	assert.Equal(t, "Sales", dt.ColumnLabel(1))
	assert.Equal(t, "1,170", dt.FormattedValue(1, 1))
}

func TestClientQueryProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`)]}'
{"status":"error","errors":[{"reason":"invalid_query","message":"Invalid query","detailed_message":"no column: Z"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient().Query(context.Background(), srv.URL, "select Z")
	require.Error(t, err)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "invalid_query", qe.Reason)
	assert.Equal(t, "Invalid query", qe.Message)
	assert.Equal(t, "no column: Z", qe.Detail)
}

func TestClientQueryHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient().Query(context.Background(), srv.URL, "")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "http_error", qe.Reason)
}

func TestClientQueryMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewClient().Query(context.Background(), srv.URL, "")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "invalid_response", qe.Reason)
}

func TestUnwrap(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(unwrap([]byte(`google.visualization.Query.setResponse({"a":1});`))))
	assert.Equal(t, `{"a":1}`, string(unwrap([]byte(")]}'\n{\"a\":1}"))))
	assert.Equal(t, `{"a":1}`, string(unwrap([]byte(` {"a":1} `))))
}
