package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordHTTPStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("status 200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.httpStatus.WithLabelValues("404")); got != 1 {
		t.Errorf("status 404 count = %v, want 1", got)
	}
}

func TestCollector_RecordTodoCreated(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTodoCreated()
	c.RecordTodoCreated()

	if got := testutil.ToFloat64(c.todosCreated); got != 2 {
		t.Errorf("todos created = %v, want 2", got)
	}
}

func TestCollector_RecordOAuthExchange(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOAuthExchange(true)
	c.RecordOAuthExchange(true)
	c.RecordOAuthExchange(false)

	if got := testutil.ToFloat64(c.oauthSuccess); got != 2 {
		t.Errorf("oauth success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.oauthFail); got != 1 {
		t.Errorf("oauth fail = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(25 * time.Millisecond)
	c.RecordTodoCreated()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, metric := range []string{
		"todoman_http_status_total",
		"todoman_request_latency_seconds",
		"todoman_todos_created_total",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("scrape output is missing %q", metric)
		}
	}
}
