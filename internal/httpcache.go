/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gregjones/httpcache"
	"github.com/mikeb26/franchise-cover/s3cache"
)

// NewCachedHttpClient returns an http.Client whose responses are cached for
// maxAge. With a non-empty bucket the cache lives in S3; if the bucket is
// empty or unusable the cache falls back to process memory.
func NewCachedHttpClient(ctx context.Context, bucket string, maxAge time.Duration,
	logger *log.Logger) *http.Client {

	if logger == nil {
		logger = DiscardLogger()
	}
	var cache httpcache.Cache
	if bucket != "" {
		s3c := s3cache.New(ctx, bucket, true, logger)
		if err := s3c.Init(); err != nil {
			logger.Warn("httpcache: failed to init S3 cache; using in-memory cache",
				"bucket", bucket, "err", err)
		} else {
			cache = s3c
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	hc := httpcache.NewTransport(cache)
	// origin cache headers are replaced so every 200 is kept for maxAge
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Response: func(resp *http.Response) error {
			if resp.StatusCode != http.StatusOK {
				return nil
			}
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

// HeaderOverrideTransport lets callers rewrite requests and responses
// around a wrapped RoundTripper.
type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

func NewHeaderOverrideTransport(rt http.RoundTripper) *HeaderOverrideTransport {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &HeaderOverrideTransport{wrappedRT: rt}
}

func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
