package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/sheetindex/internal/config"
	"github.com/jackzampolin/sheetindex/internal/providers"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
)

func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	return port
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startServer runs srv until the test ends and waits for /ready.
func startServer(t *testing.T, srv *Server) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()
	t.Cleanup(cancel)

	baseURL := "http://" + srv.Addr()
	if err := waitForServer(ctx, baseURL+"/ready", 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}
	return baseURL, cancel, serverErr
}

func TestServer_FullLifecycle(t *testing.T) {
	srv, err := New(Config{
		Host:   "127.0.0.1",
		Port:   freePort(t),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	baseURL, cancel, serverErr := startServer(t, srv)

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()

		var health endpoints.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.StatusCode != http.StatusOK || health.Status != "ok" {
			t.Errorf("health = %d %+v", resp.StatusCode, health)
		}
	})

	t.Run("ready_endpoint", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/ready")
		if err != nil {
			t.Fatalf("ready check failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("ready status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("settings_seeded_from_defaults", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/settings/identify.dpi")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var got endpoints.SettingResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got.Entry == nil || got.Entry.Value != 150.0 {
			t.Errorf("identify.dpi = %+v", got.Entry)
		}
	})

	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	cancel()
	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() returned %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("server did not shut down")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
	if srv.PagePool().Status().Running {
		t.Error("page pool still running after shutdown")
	}
}

func TestServer_ContextCancellation(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: freePort(t), Logger: testLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, cancel, serverErr := startServer(t, srv)

	cancel()
	select {
	case <-serverErr:
	case <-time.After(30 * time.Second):
		t.Fatal("server did not respond to context cancellation")
	}
}

func TestServer_DoubleStart(t *testing.T) {
	srv, err := New(Config{Host: "127.0.0.1", Port: freePort(t), Logger: testLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	startServer(t, srv)

	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() should return error")
	}
}

func TestServer_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	srv, err := New(Config{Host: "127.0.0.1", Port: port, Logger: testLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("Start() on a busy port should fail")
	}
	if srv.IsRunning() {
		t.Error("server marked running after failed start")
	}
}

func TestServer_IdentifyWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "defaults:\n  detector: \"\"\n  reader: mock\n  max_workers: 2\nidentify:\n  retry_attempts: 1\n  retry_delay_ms: 1\n  dpi: 150\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager(cfgPath)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	registry := providers.NewRegistry()
	reader := providers.NewMockReader([]string{"SHEET NO. C-100"}, []string{"SITE PLAN"})
	registry.RegisterReader("mock", reader)

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          freePort(t),
		ConfigManager: mgr,
		Registry:      registry,
		Logger:        testLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := srv.PagePool().Status().Workers; got != 2 {
		t.Errorf("Workers = %d, want 2 from defaults.max_workers", got)
	}
	baseURL, _, _ := startServer(t, srv)

	body := `{
	  "document_id": "civil",
	  "pages": [{
	    "page_num": 1, "render_width": 6000, "render_height": 4000,
	    "hits": [
	      {"bbox": {"x": 5500, "y": 3700, "w": 150, "h": 60}, "label_type": "number", "weight": 2, "text": "A-101"},
	      {"bbox": {"x": 5300, "y": 3780, "w": 400, "h": 60}, "label_type": "title", "weight": 2, "text": "FIRST FLOOR PLAN"}
	    ]
	  }],
	  "images": {"1": "cGFnZQ=="}
	}`
	resp, err := http.Post(baseURL+"/api/identify", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}

	var got endpoints.IdentifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Outcomes) != 1 || got.Outcomes[0].Entry == nil || got.Outcomes[0].Entry.SheetID != "C100" {
		t.Fatalf("unexpected outcomes %+v", got.Outcomes)
	}
	if reader.RequestCount() != 1 {
		t.Errorf("reader called %d times", reader.RequestCount())
	}
}

// waitForServer polls url until it returns 200 or timeout.
func waitForServer(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %s", timeout)
}
