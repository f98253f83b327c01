// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	todosCreated   prometheus.Counter
	oauthSuccess   prometheus.Counter
	oauthFail      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		todosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todos_created_total",
			Help: "作成されたTodoの合計数",
		}),
		oauthSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_oauth_exchange_success_total",
			Help: "OAuthコード交換成功の合計数",
		}),
		oauthFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_oauth_exchange_fail_total",
			Help: "OAuthコード交換失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.todosCreated,
		c.oauthSuccess,
		c.oauthFail,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordTodoCreated はTodoの作成を記録する。
func (c *Collector) RecordTodoCreated() {
	c.todosCreated.Inc()
}

// RecordOAuthExchange はOAuthコード交換の成否を記録する。
func (c *Collector) RecordOAuthExchange(success bool) {
	if success {
		c.oauthSuccess.Inc()
		return
	}
	c.oauthFail.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
