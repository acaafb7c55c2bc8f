// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 認証試行の結果ラベル
const (
	AuthResultSuccess        = "success"
	AuthResultMissingToken   = "missing_token"
	AuthResultInvalid        = "invalid_signature"
	AuthResultExpired        = "expired"
	AuthResultInvalidClaims  = "invalid_claims"
	AuthResultProfileFailure = "profile_store_error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証・ゲート・サービス層から利用する。
type MetricsCollector interface {
	RecordAuthAttempt(result string)
	RecordIdentityFallback()
	RecordProfileLookupLatency(duration time.Duration)
	RecordGateDecision(outcome string)
	RecordManualFundSubmitted()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	authAttempts       *prometheus.CounterVec
	identityFallback   prometheus.Counter
	profileLookup      prometheus.Histogram
	gateDecisions      *prometheus.CounterVec
	manualFundRequests prometheus.Counter
	httpStatus         *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prepe_auth_attempts_total",
			Help: "結果別の認証試行数",
		}, []string{"result"}),
		identityFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prepe_identity_fallback_total",
			Help: "プロフィールが見つからずトークンのクレームで代替したID解決の数",
		}),
		profileLookup: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "prepe_profile_lookup_seconds",
			Help:    "プロフィール参照のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prepe_gate_decisions_total",
			Help: "管理画面ゲートの判定結果別の数",
		}, []string{"outcome"}),
		manualFundRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prepe_manual_fund_requests_total",
			Help: "作成された手動入金リクエストの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prepe_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.identityFallback,
		c.profileLookup,
		c.gateDecisions,
		c.manualFundRequests,
		c.httpStatus,
	)

	return c
}

// RecordAuthAttempt は認証試行を結果ラベル付きで記録する。
func (c *Collector) RecordAuthAttempt(result string) {
	c.authAttempts.WithLabelValues(result).Inc()
}

// RecordIdentityFallback はプロフィールなしのID解決を記録する。
func (c *Collector) RecordIdentityFallback() {
	c.identityFallback.Inc()
}

// RecordProfileLookupLatency はプロフィール参照のレイテンシを記録する。
func (c *Collector) RecordProfileLookupLatency(duration time.Duration) {
	c.profileLookup.Observe(duration.Seconds())
}

// RecordGateDecision はゲートの判定結果を記録する。
func (c *Collector) RecordGateDecision(outcome string) {
	c.gateDecisions.WithLabelValues(outcome).Inc()
}

// RecordManualFundSubmitted は手動入金リクエストの作成を記録する。
func (c *Collector) RecordManualFundSubmitted() {
	c.manualFundRequests.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type Nop struct{}

func (Nop) RecordAuthAttempt(string) {}
func (Nop) RecordIdentityFallback() {}
func (Nop) RecordProfileLookupLatency(time.Duration) {}
func (Nop) RecordGateDecision(string) {}
func (Nop) RecordManualFundSubmitted() {}
func (Nop) RecordHTTPStatus(int) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
