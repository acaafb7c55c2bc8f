package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findFamily は名前が一致するメトリクスファミリーを返す。見つからない場合はテストを失敗させる。
func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordAuthAttempt_CountsByResult は認証試行が結果ラベル別に数えられることを検証する。
func TestRecordAuthAttempt_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthAttempt(AuthResultSuccess)
	c.RecordAuthAttempt(AuthResultSuccess)
	c.RecordAuthAttempt(AuthResultExpired)

	mf := findFamily(t, reg, "prepe_auth_attempts_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
	}
	for _, m := range mf.GetMetric() {
		label := m.GetLabel()[0].GetValue()
		val := m.GetCounter().GetValue()
		switch label {
		case AuthResultSuccess:
			if val != 2 {
				t.Errorf("auth_attempts_total{result=success} = %v, want 2", val)
			}
		case AuthResultExpired:
			if val != 1 {
				t.Errorf("auth_attempts_total{result=expired} = %v, want 1", val)
			}
		default:
			t.Errorf("unexpected label value: %s", label)
		}
	}
}

// TestRecordIdentityFallback_IncrementsCounter はフォールバックカウンタが増加することを検証する。
func TestRecordIdentityFallback_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordIdentityFallback()
	c.RecordIdentityFallback()
	c.RecordIdentityFallback()

	mf := findFamily(t, reg, "prepe_identity_fallback_total")
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 3 {
		t.Errorf("identity_fallback_total = %v, want 3", val)
	}
}

// TestRecordProfileLookupLatency_ObservesHistogram はヒストグラムに値が記録されることを検証する。
func TestRecordProfileLookupLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordProfileLookupLatency(100 * time.Millisecond)
	c.RecordProfileLookupLatency(2 * time.Second)

	mf := findFamily(t, reg, "prepe_profile_lookup_seconds")
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
	}
	// 合計は0.1 + 2.0 = 2.1秒
	if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
		t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
	}
}

// TestRecordGateDecision_CountsByOutcome はゲート判定が結果別に数えられることを検証する。
func TestRecordGateDecision_CountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGateDecision("admit")
	c.RecordGateDecision("denied")
	c.RecordGateDecision("denied")

	mf := findFamily(t, reg, "prepe_gate_decisions_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	if got["admit"] != 1 || got["denied"] != 2 {
		t.Errorf("gate_decisions_total = %v, want admit=1 denied=2", got)
	}
}

// TestRecordManualFundSubmitted_IncrementsCounter は手動入金カウンタが増加することを検証する。
func TestRecordManualFundSubmitted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordManualFundSubmitted()

	mf := findFamily(t, reg, "prepe_manual_fund_requests_total")
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 1 {
		t.Errorf("manual_fund_requests_total = %v, want 1", val)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)

	mf := findFamily(t, reg, "prepe_http_status_total")
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
	}
	for _, m := range mf.GetMetric() {
		label := m.GetLabel()[0].GetValue()
		val := m.GetCounter().GetValue()
		switch label {
		case "200":
			if val != 2 {
				t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
			}
		case "401":
			if val != 1 {
				t.Errorf("http_status_total{status_code=401} = %v, want 1", val)
			}
		default:
			t.Errorf("unexpected label value: %s", label)
		}
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat はハンドラーがPrometheus形式のメトリクスを返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuthAttempt(AuthResultSuccess)
	c.RecordIdentityFallback()

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)
	for _, name := range []string{"prepe_auth_attempts_total", "prepe_identity_fallback_total"} {
		if !strings.Contains(bodyStr, name) {
			t.Errorf("response should contain %s", name)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがインターフェースを満たすことを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}

// TestMultipleCollectors_IndependentRegistries は独立したレジストリで複数のCollectorを作成できることを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()

	c1 := NewCollector(reg1)
	_ = NewCollector(reg2)

	c1.RecordManualFundSubmitted()

	families, err := reg2.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "prepe_manual_fund_requests_total" {
			if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 0 {
				t.Errorf("reg2 manual_fund_requests_total = %v, want 0", val)
			}
		}
	}
}

// TestNop_DoesNotPanic はNopがすべてのメソッドを安全に受け付けることを検証する。
func TestNop_DoesNotPanic(t *testing.T) {
	var c MetricsCollector = Nop{}
	c.RecordAuthAttempt(AuthResultSuccess)
	c.RecordIdentityFallback()
	c.RecordProfileLookupLatency(time.Second)
	c.RecordGateDecision("admit")
	c.RecordManualFundSubmitted()
	c.RecordHTTPStatus(500)
}
