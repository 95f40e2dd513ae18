/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gregjones/httpcache/test"
)

// liveBucket mirrors internal.WebCacheBucket; internal imports this package.
const liveBucket = "bopmatic-franchise-cover-prod-webcache"

// memS3 is an in-memory stand-in for the handful of S3 calls the cache makes.
type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemS3() *memS3 { return &memS3{objects: make(map[string][]byte)} }

func (m *memS3) GetObject(ctx context.Context, in *s3.GetObjectInput,
	optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memS3) PutObject(ctx context.Context, in *s3.PutObjectInput,
	optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput,
	optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *memS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput,
	optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestCacheWithFakeClient(t *testing.T) {
	for _, gz := range []bool{false, true} {
		fake := newMemS3()
		cache := New(context.Background(), "bucket", gz, nil)
		cache.Client = fake
		if err := cache.Init(); err != nil {
			t.Fatalf("Init: %v", err)
		}

		test.Cache(t, cache)

		cache.Set("k", []byte("payload"))
		for key := range fake.objects {
			if !strings.HasPrefix(key, DefaultPrefix+"/") {
				t.Errorf("object key %q lacks prefix", key)
			}
			if gz != strings.HasSuffix(key, ".gz") {
				t.Errorf("gzip=%v but object key is %q", gz, key)
			}
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&types.NoSuchKey{}) {
		t.Errorf("NoSuchKey not recognised")
	}
	if IsNotFound(errors.New("boom")) {
		t.Errorf("plain error treated as not found")
	}
}

func TestS3Cache(t *testing.T) {
	cache := New(context.Background(), liveBucket, true, nil)
	if err := cache.Init(); err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", liveBucket, err)
	}

	test.Cache(t, cache)
}
