/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestHttpClientCachesInMemory(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// origin asks not to be cached; the client overrides it
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprintf(w, "<html>%v</html>", r.URL.Path)
	}))
	defer srv.Close()

	client := NewCachedHttpClient(context.Background(), "", 5*time.Minute, DiscardLogger())

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest("GET", srv.URL+"/friv", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("User-Agent", UserAgent)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Errorf("Failed to read response body")
		}
		if string(data) != "<html>/friv</html>" {
			t.Errorf("body = %q", data)
		}
		if i > 0 && resp.Header.Get("X-From-Cache") != "1" {
			t.Errorf("request %d not served from cache", i)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("origin hit %d times; want 1", hits.Load())
	}
}

func TestHttpClientDoesNotCacheErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewCachedHttpClient(context.Background(), "", time.Hour, DiscardLogger())
	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
	}
	if hits.Load() != 2 {
		t.Errorf("origin hit %d times; want 2", hits.Load())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "test")
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "k=1") {
		t.Errorf("warn message missing: %q", out)
	}

	buf.Reset()
	NewLogger(&buf, "bogus", "").Info("fallback")
	if !strings.Contains(buf.String(), "fallback") {
		t.Errorf("unknown level did not fall back to info: %q", buf.String())
	}
}
