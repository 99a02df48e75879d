// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
// 利用側（ミドルウェア・ハンドラー）はそれぞれ必要なメソッドだけを
// 切り出した小さなインターフェースを定義して受け取る。
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    prometheus.Counter
	rateLimited     prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFailure    prometheus.Counter
	registrations   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "renrakucho_http_requests_total",
			Help: "HTTPリクエストの合計数（メソッド・パス・ステータス別）",
		}, []string{"method", "path", "status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "renrakucho_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "renrakucho_auth_failures_total",
			Help: "認証失敗（401）の合計数",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "renrakucho_rate_limited_total",
			Help: "レート制限による拒否（429）の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "renrakucho_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "renrakucho_login_failure_total",
			Help: "ログイン失敗の合計数",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "renrakucho_registrations_total",
			Help: "ユーザー登録成功の合計数",
		}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.authFailures,
		c.rateLimited,
		c.loginSuccess,
		c.loginFailure,
		c.registrations,
	)

	return c
}

// RecordRequest はHTTPリクエストの完了を記録する。
// 401と429はそれぞれ専用カウンターにも反映する。
func (c *Collector) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	switch statusCode {
	case http.StatusUnauthorized:
		c.authFailures.Inc()
	case http.StatusTooManyRequests:
		c.rateLimited.Inc()
	}
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginSuccess.Inc()
	} else {
		c.loginFailure.Inc()
	}
}

// RecordRegistration はユーザー登録の成功を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
// ルーターが/metricsにマウントする。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
