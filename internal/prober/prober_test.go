package prober

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appdex-dev/appdex/internal/types"
)

func TestCheckSuccessIsUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := New(time.Second).Check(server.URL)

	if result.Status != types.StatusUp {
		t.Errorf("Check = %q, want %q (error: %s)", result.Status, types.StatusUp, result.Error)
	}

	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
}

func TestCheckNonSuccessStatusIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if result := New(time.Second).Check(server.URL); result.Status != types.StatusDown {
		t.Errorf("Check = %q, want %q", result.Status, types.StatusDown)
	}
}

func TestCheckConnectionRefusedIsDown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := listener.Addr().String()
	listener.Close()

	if result := New(time.Second).Check("http://" + addr); result.Status != types.StatusDown {
		t.Errorf("Check = %q, want %q", result.Status, types.StatusDown)
	}
}

func TestCheckDNSFailureIsDown(t *testing.T) {
	if result := New(time.Second).Check("http://nonexistent.invalid"); result.Status != types.StatusDown {
		t.Errorf("Check = %q, want %q", result.Status, types.StatusDown)
	}
}

func TestCheckTimeoutIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	if result := New(50 * time.Millisecond).Check(server.URL); result.Status != types.StatusDown {
		t.Errorf("Check = %q, want %q", result.Status, types.StatusDown)
	}
}

func TestCheckAllFansOut(t *testing.T) {
	const delay = 300 * time.Millisecond

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
	}))
	defer server.Close()

	urls := make([]string, 50)
	for i := range urls {
		urls[i] = server.URL
	}

	start := time.Now()
	results := New(5 * time.Second).CheckAll(urls, types.StatusDown)
	elapsed := time.Since(start)

	// 50 serial probes would take ~15s; the fan-out should cost roughly
	// one probe.
	if elapsed > 10*delay {
		t.Errorf("CheckAll took %v, probes appear serialized", elapsed)
	}

	for i, result := range results {
		if result.Status != types.StatusUp {
			t.Errorf("result %d = %q, want %q", i, result.Status, types.StatusUp)
		}
	}
}

func TestCheckAllPreservesOrderAndMissing(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	results := New(time.Second).CheckAll([]string{up.URL, "", down.URL}, types.StatusUnknown)

	want := []string{types.StatusUp, types.StatusUnknown, types.StatusDown}

	for i, status := range want {
		if results[i].Status != status {
			t.Errorf("result %d = %q, want %q", i, results[i].Status, status)
		}
	}
}

func TestCheckAllOneSlowTargetDoesNotFailOthers(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer slow.Close()

	results := New(100 * time.Millisecond).CheckAll([]string{slow.URL, up.URL}, types.StatusDown)

	if results[0].Status != types.StatusDown {
		t.Errorf("slow target = %q, want %q", results[0].Status, types.StatusDown)
	}

	if results[1].Status != types.StatusUp {
		t.Errorf("healthy target = %q, want %q", results[1].Status, types.StatusUp)
	}
}
