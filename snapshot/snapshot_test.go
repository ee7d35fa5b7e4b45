package snapshot

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"catalog-browser/utils"
)

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	if got := FindChromeBinary("/opt/custom/chrome"); got != "/opt/custom/chrome" {
		t.Errorf("got %q, want configured path", got)
	}

	t.Setenv("CHROME_BIN", "/from/env/chrome")
	if got := FindChromeBinary(""); got != "/from/env/chrome" {
		t.Errorf("got %q, want CHROME_BIN", got)
	}
}

func TestCapture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	bin := FindChromeBinary("")
	if bin == "" {
		t.Skip("no Chrome or Chromium installed")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div class="hero"><h1>Welcome</h1></div></body></html>`))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "shots", "catalog.png")
	s := New(bin, utils.NopLogger(), 1)
	if err := s.Capture(context.Background(), srv.URL, out); err != nil {
		t.Fatalf("capture: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("snapshot is not a PNG (first bytes %q)", data[:min(8, len(data))])
	}
}
