package app

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// TestRun_ServeCommand_DBUnreachable_ReturnsError はDBに接続できない場合にserveが起動せずエラーを返すことを検証する。
func TestRun_ServeCommand_DBUnreachable_ReturnsError(t *testing.T) {
	setTestEnv(t)
	restoreDefaultLogger(t)

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run(serve) with unreachable DB should return error")
	}
	if !strings.Contains(err.Error(), "database") {
		t.Errorf("error should mention the database, got %v", err)
	}
}

func TestRun_WithMissingEnv_ReturnsError(t *testing.T) {
	restoreDefaultLogger(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_EMAILS", "")

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run with missing env should return error")
	}
}

func TestRun_Healthcheck(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("failed to parse addr: %v", err)
	}
	t.Setenv("SERVER_PORT", port)

	if err := Run(&bytes.Buffer{}, []string{"healthcheck"}); err != nil {
		t.Errorf("healthcheck against healthy server returned %v", err)
	}

	status.Store(http.StatusServiceUnavailable)
	if err := Run(&bytes.Buffer{}, []string{"healthcheck"}); err == nil {
		t.Error("healthcheck against unhealthy server should fail")
	}
}
