/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/s3cache"
)

// S3Store keeps the records as a single S3 object.
type S3Store struct {
	Client s3cache.API
	Bucket string
	Key    string
	Gzip   bool
}

// NewS3Store uses the default AWS configuration sources (environment,
// shared config and credentials files).
func NewS3Store(ctx context.Context, bucket, key string, gzip bool) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster.s3: failed to load AWS config: %w", err)
	}
	return &S3Store{
		Client: s3.NewFromConfig(cfg),
		Bucket: bucket,
		Key:    key,
		Gzip:   gzip,
	}, nil
}

func (s *S3Store) String() string {
	return fmt.Sprintf("s3://%v/%v", s.Bucket, s.Key)
}

func (s *S3Store) Load(ctx context.Context) (cover.Players, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		if s3cache.IsNotFound(err) {
			return nil, fmt.Errorf("roster.load %v: %w", s, os.ErrNotExist)
		}
		return nil, fmt.Errorf("roster.load %v: %w", s, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if s.Gzip {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("roster.load %v: %w", s, err)
		}
		defer gr.Close()
		rdr = gr
	}

	players, err := Parse(rdr)
	if err != nil {
		return nil, fmt.Errorf("roster.load %v: %w", s, err)
	}
	return players, nil
}

func (s *S3Store) Save(ctx context.Context, players cover.Players) error {
	var buf bytes.Buffer
	if err := Write(&buf, players); err != nil {
		return fmt.Errorf("roster.save %v: %w", s, err)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Body:        bytes.NewReader(buf.Bytes()),
	}
	if s.Gzip {
		body, err := s3cache.Compress(buf.Bytes())
		if err != nil {
			return fmt.Errorf("roster.save %v: %w", s, err)
		}
		input.Body = bytes.NewReader(body)
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("roster.save %v: %w", s, err)
	}
	return nil
}
